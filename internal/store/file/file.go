// Package file persists the entry collection as a JSON snapshot on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/osintlabs/numharvest/internal/harvest"
)

// Store writes the full collection to a single JSON file on every Save.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a Store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the snapshot. A missing file yields an empty collection.
func (s *Store) Load(_ context.Context) ([]harvest.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []harvest.Entry{}, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var entries []harvest.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return entries, nil
}

// Save overwrites the snapshot with the full current sequence. The write goes
// through a temp file and rename so a crash never leaves a torn snapshot.
func (s *Store) Save(_ context.Context, entries []harvest.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entries == nil {
		entries = []harvest.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
