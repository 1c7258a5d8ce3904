package router

import (
	"strconv"
	"time"

	"github.com/orderdesk/orderdesk/internal/domain"
	"github.com/orderdesk/orderdesk/internal/filter"
	"github.com/orderdesk/orderdesk/internal/storage/pg"
	"github.com/orderdesk/orderdesk/pkg/pagination"
)

type orderView struct {
	ID          int64  `json:"id"`
	User        string `json:"user"`
	Link        string `json:"link"`
	Quantity    int    `json:"quantity"`
	ServiceName string `json:"serviceName"`
	Status      string `json:"status"`
	Mode        string `json:"mode"`
	CreatedAt   string `json:"createdAt"`
}

type paginationView struct {
	CurrentPage int               `json:"currentPage"`
	PageCount   int               `json:"pageCount"`
	RangeStart  int64             `json:"rangeStart"`
	RangeEnd    int64             `json:"rangeEnd"`
	TotalCount  int64             `json:"totalCount"`
	HasNext     bool              `json:"hasNext"`
	HasPrev     bool              `json:"hasPrev"`
	Next        map[string]string `json:"next,omitempty"`
	Prev        map[string]string `json:"prev,omitempty"`
}

type facetsView struct {
	ModeCounts    map[string]int64  `json:"modeCounts"`
	ServiceCounts []pg.ServiceCount `json:"serviceCounts"`
}

type listPayload struct {
	Orders     []orderView        `json:"orders"`
	Pagination paginationView     `json:"pagination"`
	Facets     facetsView         `json:"facets"`
	Errors     []filter.FieldError `json:"errors,omitempty"`
}

func (r *OrdersRouter) listPayload(
	page pagination.Page[domain.Order],
	pager *pagination.Pager[domain.Order],
	modeCounts map[domain.Mode]int64,
	serviceCounts []pg.ServiceCount,
	fieldErrs []filter.FieldError,
) listPayload {
	orders := make([]orderView, 0, len(page.Rows))
	for _, o := range page.Rows {
		orders = append(orders, r.orderView(o))
	}

	start, end := pager.CurrentRange()

	modes := make(map[string]int64, len(modeCounts))
	for mode, count := range modeCounts {
		modes[r.catalog.T(mode.LabelKey())] = count
	}

	return listPayload{
		Orders: orders,
		Pagination: paginationView{
			CurrentPage: pager.CurrentPage(),
			PageCount:   pager.PageCount(),
			RangeStart:  start,
			RangeEnd:    end,
			TotalCount:  page.TotalCount,
			HasNext:     page.HasNext,
			HasPrev:     page.HasPrev,
			Next:        deltaParams(pager.NextDelta()),
			Prev:        deltaParams(pager.PrevDelta()),
		},
		Facets: facetsView{
			ModeCounts:    modes,
			ServiceCounts: serviceCounts,
		},
		Errors: fieldErrs,
	}
}

func (r *OrdersRouter) orderView(o domain.Order) orderView {
	created := ""
	if !o.CreatedAt.IsZero() {
		created = o.CreatedAt.Format(time.RFC3339)
	}
	return orderView{
		ID:          o.ID,
		User:        o.UserFullName(),
		Link:        o.Link,
		Quantity:    o.Quantity,
		ServiceName: o.ServiceName,
		Status:      r.catalog.T(o.Status.LabelKey()),
		Mode:        r.catalog.T(o.Mode.LabelKey()),
		CreatedAt:   created,
	}
}

// deltaParams renders a navigation delta as the URL-parameter changes the
// client applies; an empty (non-nil) map is the unparameterized first page.
func deltaParams(d *pagination.Delta) map[string]string {
	if d == nil {
		return nil
	}
	params := map[string]string{}
	if d.FirstPage() {
		return params
	}
	if d.Cursor != nil {
		params["cursor"] = strconv.FormatInt(*d.Cursor, 10)
	}
	params["direction"] = string(d.Direction)
	if d.Page != nil {
		params["page"] = strconv.Itoa(*d.Page)
	}
	return params
}
