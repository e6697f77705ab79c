// Package filedrop provides a connector that reads content drops from a
// local directory. Each regular file is one content item: the body is the
// content, the file name (minus extension) the author attribution. It exists
// so the pipeline can be run end to end without any platform connector.
package filedrop

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/osintlabs/numharvest/internal/harvest"
)

// Connector reads drops from a directory.
type Connector struct {
	dir string
}

// New creates a Connector rooted at dir.
func New(dir string) (*Connector, error) {
	if dir == "" {
		return nil, fmt.Errorf("filedrop dir is required")
	}
	return &Connector{dir: dir}, nil
}

// Fetch returns every drop whose content contains term, case-insensitively.
// A missing directory is an empty feed, not an error.
func (c *Connector) Fetch(ctx context.Context, term string) ([]harvest.ContentItem, error) {
	dirents, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read drop dir %s: %w", c.dir, err)
	}
	sort.Slice(dirents, func(i, j int) bool { return dirents[i].Name() < dirents[j].Name() })

	needle := strings.ToLower(term)
	var items []harvest.ContentItem
	for _, de := range dirents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if de.IsDir() {
			continue
		}
		body, err := os.ReadFile(filepath.Join(c.dir, de.Name()))
		if err != nil {
			return nil, fmt.Errorf("read drop %s: %w", de.Name(), err)
		}
		content := string(body)
		if needle != "" && !strings.Contains(strings.ToLower(content), needle) {
			continue
		}
		author := strings.TrimSuffix(de.Name(), filepath.Ext(de.Name()))
		items = append(items, harvest.ContentItem{Content: content, Author: author})
	}
	return items, nil
}
