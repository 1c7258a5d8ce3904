package filter

import (
	"github.com/orderdesk/orderdesk/internal/domain"
)

// Criteria is the normalized, validated filter state of one listing or
// export request. Zero-value pointers mean "filter absent".
type Criteria struct {
	Status     *domain.Status
	ServiceID  *int64
	Mode       *domain.Mode
	Search     string
	SearchType domain.SearchType
}

// HasSearch reports whether a validated search term is active.
func (c Criteria) HasSearch() bool {
	return c.Search != ""
}

// ApplyStatusTransition drops the drill-down filters (mode, service) when
// the effective status differs from the one seen on the previous request in
// the same session. Those filters only make sense within one status tab.
// prevSeen is false when the session has no recorded status yet.
func (c *Criteria) ApplyStatusTransition(prev *domain.Status, prevSeen bool) {
	if !prevSeen {
		return
	}
	if !statusEqual(c.Status, prev) {
		c.Mode = nil
		c.ServiceID = nil
	}
}

// StatusSlug is the session-stored form of the effective status;
// empty string stands for "all orders".
func (c Criteria) StatusSlug() string {
	if c.Status == nil {
		return ""
	}
	return c.Status.Slug()
}

func statusEqual(a, b *domain.Status) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
