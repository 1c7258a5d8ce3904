package session

import (
	"context"
	"sync"
)

// MemoryStore is the in-process Store used by a single-node deployment and
// by tests. Per-session isolation is the map key; there is no cross-session
// state to coordinate.
type MemoryStore struct {
	mu       sync.RWMutex
	statuses map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		statuses: make(map[string]string),
	}
}

func (s *MemoryStore) PreviousStatus(_ context.Context, sessionID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slug, ok := s.statuses[sessionID]
	return slug, ok, nil
}

func (s *MemoryStore) SetPreviousStatus(_ context.Context, sessionID string, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[sessionID] = slug
	return nil
}
