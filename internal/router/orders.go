package router

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/orderdesk/orderdesk/internal/apperr"
	"github.com/orderdesk/orderdesk/internal/domain"
	"github.com/orderdesk/orderdesk/internal/filter"
	"github.com/orderdesk/orderdesk/internal/i18n"
	"github.com/orderdesk/orderdesk/internal/session"
	"github.com/orderdesk/orderdesk/internal/storage/pg"
	"github.com/orderdesk/orderdesk/pkg/pagination"
)

const sessionCookie = "orderdesk_session"

// OrderPlanner is the query surface the listing needs.
type OrderPlanner interface {
	WindowKeyset(ctx context.Context, c filter.Criteria, cursor *int64, direction pagination.Direction, limit int) ([]domain.Order, error)
	WindowOffset(ctx context.Context, c filter.Criteria, page, pageSize int) ([]domain.Order, error)
	Count(ctx context.Context, c filter.Criteria, exclude pg.FilterSet) (int64, error)
	ModeCounts(ctx context.Context, c filter.Criteria, exclude pg.FilterSet) (map[domain.Mode]int64, error)
	ServiceCounts(ctx context.Context, c filter.Criteria, exclude pg.FilterSet) ([]pg.ServiceCount, error)
}

// OrderExporter streams a filtered set as CSV.
type OrderExporter interface {
	Export(ctx context.Context, c filter.Criteria, w io.Writer) error
}

type OrdersRouter struct {
	e        *echo.Echo
	planner  OrderPlanner
	exporter OrderExporter
	sessions session.Store
	catalog  *i18n.Catalog
	pageSize int
}

func NewOrdersRouter(
	e *echo.Echo,
	planner OrderPlanner,
	exporter OrderExporter,
	sessions session.Store,
	catalog *i18n.Catalog,
	pageSize int,
) *OrdersRouter {
	if pageSize <= 0 {
		pageSize = pagination.PageDefaultSize
	}
	return &OrdersRouter{
		e:        e,
		planner:  planner,
		exporter: exporter,
		sessions: sessions,
		catalog:  catalog,
		pageSize: pageSize,
	}
}

func (r *OrdersRouter) Bind() {
	r.e.GET("/orders", r.listHandler)
	r.e.GET("/orders/export", r.exportHandler)
	r.e.GET("/orders/:status", r.listHandler)
	r.e.GET("/orders/:status/export", r.exportHandler)
}

func (r *OrdersRouter) listHandler(c echo.Context) error {
	ctx := c.Request().Context()

	criteria, fieldErrs, err := parseCriteria(c)
	if err != nil {
		return err
	}

	// Switching status tabs invalidates the drill-down filters chosen
	// within the previous tab.
	sid := r.ensureSession(c)
	prevSlug, prevSeen, err := r.sessions.PreviousStatus(ctx, sid)
	if err != nil {
		return err
	}
	var prev *domain.Status
	if prevSeen && prevSlug != "" {
		if st, ok := domain.StatusFromSlug(prevSlug); ok {
			prev = &st
		}
	}
	criteria.ApplyStatusTransition(prev, prevSeen)
	if err := r.sessions.SetPreviousStatus(ctx, sid, criteria.StatusSlug()); err != nil {
		return err
	}

	params, err := parsePaginationParams(c)
	if err != nil {
		return err
	}
	pager, err := pagination.NewPager(params, r.pageSize, func(o domain.Order) int64 { return o.ID })
	if err != nil {
		return apperr.NewBadRequest(err.Error())
	}

	// One total per request, threaded through pager and payload.
	total, err := r.planner.Count(ctx, criteria, 0)
	if err != nil {
		return err
	}
	pager.SetTotalCount(total)

	var rows []domain.Order
	if pager.IsOffsetMode() {
		rows, err = r.planner.WindowOffset(ctx, criteria, pager.CurrentPage(), pager.PageSize())
	} else {
		rows, err = r.planner.WindowKeyset(ctx, criteria, pager.Cursor(), pager.Direction(), pager.PageSize())
	}
	if err != nil {
		return err
	}

	page := pager.Process(rows)

	modeCounts, err := r.planner.ModeCounts(ctx, criteria, pg.Exclude(pg.FilterMode))
	if err != nil {
		return err
	}
	serviceCounts, err := r.planner.ServiceCounts(ctx, criteria, pg.Exclude(pg.FilterService))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, r.listPayload(page, pager, modeCounts, serviceCounts, fieldErrs))
}

func (r *OrdersRouter) exportHandler(c echo.Context) error {
	ctx := c.Request().Context()

	criteria, _, err := parseCriteria(c)
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="orders_export_`+time.Now().Format("2006-01-02_15-04-05")+`.csv"`)
	res.WriteHeader(http.StatusOK)

	if err := r.exporter.Export(ctx, criteria, res); err != nil {
		// Part of the file may already be with the client; retrying
		// would duplicate sent rows. Log and give up.
		slog.Error("csv export aborted", "error", err)
		return err
	}
	return nil
}

// ensureSession returns the request's session id, minting a cookie if absent.
func (r *OrdersRouter) ensureSession(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	sid := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
	})
	return sid
}

func parseCriteria(c echo.Context) (filter.Criteria, []filter.FieldError, error) {
	slug := c.Param("status")
	if slug == "" {
		slug = c.QueryParam("status")
	}

	criteria, fieldErrs, err := filter.Parse(filter.RawParams{
		StatusSlug: slug,
		ServiceID:  c.QueryParam("service_id"),
		Mode:       c.QueryParam("mode"),
		Search:     c.QueryParam("search"),
		SearchType: c.QueryParam("search_type"),
	})
	if err != nil {
		var nf *filter.ErrStatusNotFound
		if errors.As(err, &nf) {
			return filter.Criteria{}, nil, apperr.NewNotFound(nf.Error())
		}
		return filter.Criteria{}, nil, err
	}
	return criteria, fieldErrs, nil
}

func parsePaginationParams(c echo.Context) (pagination.Params, error) {
	var params pagination.Params

	if raw := c.QueryParam("cursor"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return params, apperr.NewBadRequest("cursor must be a number")
		}
		params.Cursor = &v
	}
	if raw := c.QueryParam("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return params, apperr.NewBadRequest("page must be a number")
		}
		params.Page = &v
	}
	params.Direction = c.QueryParam("direction")

	return params, nil
}
