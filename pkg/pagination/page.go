package pagination

// Page is one processed result window.
// First/last ids come from the trimmed rows, never the raw batch.
type Page[T any] struct {
	Rows       []T    `json:"rows"`
	HasNext    bool   `json:"hasNext"`
	HasPrev    bool   `json:"hasPrev"`
	FirstID    *int64 `json:"firstId,omitempty"`
	LastID     *int64 `json:"lastId,omitempty"`
	TotalCount int64  `json:"totalCount"`
}
