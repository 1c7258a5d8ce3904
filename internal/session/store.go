package session

import "context"

// Store keeps the per-session "previously seen status" used by the
// drill-down filter reset. The contract is read-then-overwrite: a listing
// request reads the recorded slug, applies the transition, then records the
// slug it served. An empty slug means "all orders"; ok=false means the
// session has no record yet.
type Store interface {
	PreviousStatus(ctx context.Context, sessionID string) (slug string, ok bool, err error)
	SetPreviousStatus(ctx context.Context, sessionID string, slug string) error
}
