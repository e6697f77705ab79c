// Package local archives collection snapshots on the local filesystem.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Archive writes snapshot objects under a base directory.
type Archive struct {
	dir string
}

// New creates an Archive rooted at dir.
func New(dir string) (*Archive, error) {
	if dir == "" {
		return nil, fmt.Errorf("archive.dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &Archive{dir: dir}, nil
}

// PutObject writes data to a file under the archive root and returns its
// path. The content type is ignored; the path's extension carries it.
func (a *Archive) PutObject(_ context.Context, path, _ string, data []byte) (string, error) {
	full := filepath.Join(a.dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create archive subdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write archive object %s: %w", path, err)
	}
	return full, nil
}
