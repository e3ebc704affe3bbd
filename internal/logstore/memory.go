package logstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-process store. It is safe for concurrent use.
type MemoryStore[E any] struct {
	mu      sync.Mutex
	entries []E
}

// NewMemoryStore returns a MemoryStore pre-loaded with entries, oldest first.
func NewMemoryStore[E any](entries ...E) *MemoryStore[E] {
	return &MemoryStore[E]{entries: append([]E(nil), entries...)}
}

// Append adds entries to the tail of the store.
func (s *MemoryStore[E]) Append(_ context.Context, entries ...E) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return nil
}

// ListPending returns a snapshot of all entries, oldest first.
func (s *MemoryStore[E]) ListPending(_ context.Context) ([]E, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]E, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// RemoveOldest drops the head entry.
func (s *MemoryStore[E]) RemoveOldest(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return ErrEmpty
	}
	var zero E
	s.entries[0] = zero
	s.entries = s.entries[1:]
	return nil
}

// Count returns the number of pending entries.
func (s *MemoryStore[E]) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}
