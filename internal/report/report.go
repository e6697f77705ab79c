// Package report renders the entry collection to a DOCX artifact.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gingfrederik/docx"

	"github.com/osintlabs/numharvest/internal/harvest"
)

// Sink writes DOCX reports into a base directory.
type Sink struct {
	dir   string
	clock harvest.Clock
}

// NewSink creates a Sink writing under dir.
func NewSink(dir string, clock harvest.Clock) *Sink {
	if dir == "" {
		dir = "reports"
	}
	return &Sink{dir: dir, clock: clock}
}

// Export renders entries grouped by region into a DOCX file named path under
// the sink's directory and returns the full artifact path.
func (s *Sink) Export(ctx context.Context, entries []harvest.Entry, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	f := docx.NewFile()

	title := f.AddParagraph().AddText("Collected Identifiers Report")
	title.Size(20)

	p := f.AddParagraph()
	run := p.AddText(fmt.Sprintf("Generated: %s | Entries: %d",
		s.clock.Now().UTC().Format("2006-01-02 15:04:05 UTC"), len(entries)))
	run.Size(10)
	run.Color("808080")
	f.AddParagraph()

	for _, region := range regionOrder(entries) {
		heading := f.AddParagraph().AddText(region)
		heading.Size(16)
		for _, e := range entries {
			if e.Region != region {
				continue
			}
			f.AddParagraph().AddText(fmt.Sprintf("%s | %s | %s | %s",
				e.Identifier, e.Category, e.SourceID,
				e.ObservedAt.UTC().Format("2006-01-02 15:04")))
			if e.Excerpt != "" {
				excerpt := f.AddParagraph().AddText(e.Excerpt)
				excerpt.Size(9)
				excerpt.Color("808080")
			}
		}
		f.AddParagraph()
	}

	full := filepath.Join(s.dir, path)
	if err := f.Save(full); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	return full, nil
}

// regionOrder returns the distinct regions sorted by name so report layout is
// stable across exports.
func regionOrder(entries []harvest.Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	var regions []string
	for _, e := range entries {
		if _, ok := seen[e.Region]; ok {
			continue
		}
		seen[e.Region] = struct{}{}
		regions = append(regions, e.Region)
	}
	sort.Strings(regions)
	return regions
}
