// Package memory provides an in-memory entry store for tests and ephemeral
// runs.
package memory

import (
	"context"
	"sync"

	"github.com/osintlabs/numharvest/internal/harvest"
)

// Store keeps the last saved snapshot in memory.
type Store struct {
	mu      sync.RWMutex
	entries []harvest.Entry
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Load returns the last saved snapshot.
func (s *Store) Load(_ context.Context) ([]harvest.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]harvest.Entry{}, s.entries...), nil
}

// Save replaces the stored snapshot.
func (s *Store) Save(_ context.Context, entries []harvest.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]harvest.Entry(nil), entries...)
	return nil
}
