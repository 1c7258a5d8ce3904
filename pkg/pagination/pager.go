package pagination

import "errors"

var (
	ErrBadDirection = errors.New("direction must be next or prev")
	ErrBadPage      = errors.New("page must be a positive number")
	ErrBadCursor    = errors.New("cursor must be a positive id")
)

// Params are the raw pagination query parameters of one request.
type Params struct {
	Cursor    *int64
	Direction string
	Page      *int
}

type pagerMode int

const (
	offsetMode pagerMode = iota
	keysetMode
)

// Pager is the per-request pagination state machine. The mode is fixed at
// construction: a page parameter without a cursor selects offset mode,
// anything else is keyset mode with the page number kept only as a display
// hint. Generic type T allows reuse across different row types.
type Pager[T any] struct {
	pageSize int
	idFn     func(T) int64

	mode        pagerMode
	currentPage int
	cursor      *int64
	direction   Direction

	totalCount int64
	hasNext    bool
	hasPrev    bool
	firstID    *int64
	lastID     *int64
}

// NewPager validates params and fixes the pagination mode for the request.
// Bad direction, non-positive page or non-positive cursor are rejected here,
// before any query runs.
func NewPager[T any](p Params, pageSize int, idFn func(T) int64) (*Pager[T], error) {
	if pageSize <= 0 {
		pageSize = PageDefaultSize
	}

	dir, ok := ParseDirection(p.Direction)
	if !ok {
		return nil, ErrBadDirection
	}
	if p.Page != nil && *p.Page < 1 {
		return nil, ErrBadPage
	}
	if p.Cursor != nil && *p.Cursor < 1 {
		return nil, ErrBadCursor
	}

	pager := &Pager[T]{
		pageSize:  pageSize,
		idFn:      idFn,
		direction: dir,
	}

	if p.Page != nil && p.Cursor == nil {
		pager.mode = offsetMode
		pager.currentPage = *p.Page
		pager.direction = DirectionNext
		return pager, nil
	}

	pager.mode = keysetMode
	pager.cursor = p.Cursor
	pager.currentPage = 1
	if p.Page != nil {
		pager.currentPage = *p.Page
	}
	return pager, nil
}

func (p *Pager[T]) IsOffsetMode() bool {
	return p.mode == offsetMode
}

func (p *Pager[T]) PageSize() int {
	return p.pageSize
}

func (p *Pager[T]) CurrentPage() int {
	return p.currentPage
}

// Cursor returns the keyset boundary; nil on the first page or in offset mode.
func (p *Pager[T]) Cursor() *int64 {
	return p.cursor
}

func (p *Pager[T]) Direction() Direction {
	return p.direction
}

// FetchLimit is how many rows the query should ask for. Keyset mode
// over-fetches one row to detect whether more rows exist in the
// fetched direction.
func (p *Pager[T]) FetchLimit() int {
	if p.mode == keysetMode {
		return p.pageSize + 1
	}
	return p.pageSize
}

// Offset for offset mode; zero in keyset mode.
func (p *Pager[T]) Offset() int {
	if p.mode != offsetMode {
		return 0
	}
	return (p.currentPage - 1) * p.pageSize
}

func (p *Pager[T]) SetTotalCount(n int64) {
	if n < 0 {
		n = 0
	}
	p.totalCount = n
}

// Process turns a raw row batch into the page to render and records the
// navigation state. Rows must already be ordered descending by id.
func (p *Pager[T]) Process(raw []T) Page[T] {
	var rows []T
	if p.mode == offsetMode {
		rows = p.processOffset(raw)
	} else {
		rows = p.processKeyset(raw)
	}

	if len(rows) > 0 {
		first := p.idFn(rows[0])
		last := p.idFn(rows[len(rows)-1])
		p.firstID = &first
		p.lastID = &last
	}

	return Page[T]{
		Rows:       rows,
		HasNext:    p.hasNext,
		HasPrev:    p.hasPrev,
		FirstID:    p.firstID,
		LastID:     p.lastID,
		TotalCount: p.totalCount,
	}
}

func (p *Pager[T]) processKeyset(raw []T) []T {
	hasMore := len(raw) > p.pageSize
	if hasMore {
		raw = raw[:p.pageSize]
	}

	if p.direction == DirectionNext {
		p.hasNext = hasMore
		p.hasPrev = p.currentPage > 1
	} else {
		p.hasNext = p.currentPage < p.PageCount()
		p.hasPrev = hasMore
	}
	return raw
}

func (p *Pager[T]) processOffset(raw []T) []T {
	p.hasNext = p.currentPage < p.PageCount()
	p.hasPrev = p.currentPage > 1
	return raw
}

// Delta is the set of URL-parameter changes that navigates to an adjacent
// page. A zero Delta means the first page, i.e. drop all pagination params.
type Delta struct {
	Cursor    *int64
	Direction Direction
	Page      *int
}

// FirstPage reports whether the delta targets the unparameterized first page.
func (d Delta) FirstPage() bool {
	return d.Cursor == nil && d.Page == nil
}

// NextDelta emits the parameters for the following page, always as a keyset
// step from the last row of the current page. Nil when there is no next page.
func (p *Pager[T]) NextDelta() *Delta {
	if !p.hasNext || p.lastID == nil {
		return nil
	}
	page := p.currentPage + 1
	return &Delta{Cursor: p.lastID, Direction: DirectionNext, Page: &page}
}

// PrevDelta emits the parameters for the preceding page. At page two or
// below it collapses to the first-page delta instead of a keyset step, which
// would otherwise window off a degenerate near-boundary page.
func (p *Pager[T]) PrevDelta() *Delta {
	if !p.hasPrev {
		return nil
	}
	if p.currentPage <= 2 {
		return &Delta{}
	}
	if p.firstID == nil {
		return nil
	}
	page := p.currentPage - 1
	return &Delta{Cursor: p.firstID, Direction: DirectionPrev, Page: &page}
}

// PageCount is the number of pages, at least 1 even for an empty set.
func (p *Pager[T]) PageCount() int {
	if p.totalCount <= 0 {
		return 1
	}
	count := p.totalCount / int64(p.pageSize)
	if p.totalCount%int64(p.pageSize) != 0 {
		count++
	}
	return int(count)
}

// CurrentRange is the [start, end] record positions for a
// "showing X to Y of N" summary, clamped to the total count.
func (p *Pager[T]) CurrentRange() (int64, int64) {
	if p.totalCount == 0 {
		return 0, 0
	}
	start := int64(p.currentPage-1)*int64(p.pageSize) + 1
	end := start + int64(p.pageSize) - 1
	if end > p.totalCount {
		end = p.totalCount
	}
	return start, end
}
