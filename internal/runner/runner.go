// Package runner executes one collection cycle: build search terms, fetch
// from every enabled source, extract and validate candidates, classify, and
// append the resulting entries to the collection.
package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/osintlabs/numharvest/internal/harvest"
	"github.com/osintlabs/numharvest/internal/metrics"
	"github.com/osintlabs/numharvest/internal/source"
)

// Config carries the cycle knobs the runner needs.
type Config struct {
	BasePhrases    []string
	TermsPerSource int
	ExcerptLength  int
}

// Runner drives one cycle at a time. Cycles are serialized by the scheduler;
// only the filter setters may be called concurrently with a running cycle.
type Runner struct {
	cfg        Config
	registry   *source.Registry
	collection *harvest.Collection
	extractor  *harvest.Extractor
	validator  *harvest.Validator
	classifier *harvest.Classifier
	regions    []harvest.Region
	clock      harvest.Clock
	ids        harvest.IDGenerator
	logger     *zap.Logger

	mu             sync.RWMutex
	regionFilter   string
	categoryFilter string
}

// New creates a Runner. All collaborators are required.
func New(
	cfg Config,
	registry *source.Registry,
	collection *harvest.Collection,
	validator *harvest.Validator,
	classifier *harvest.Classifier,
	regions []harvest.Region,
	clock harvest.Clock,
	ids harvest.IDGenerator,
	logger *zap.Logger,
) *Runner {
	if cfg.TermsPerSource <= 0 {
		cfg.TermsPerSource = 5
	}
	if cfg.ExcerptLength <= 0 {
		cfg.ExcerptLength = 200
	}
	return &Runner{
		cfg:        cfg,
		registry:   registry,
		collection: collection,
		extractor:  harvest.NewExtractor(),
		validator:  validator,
		classifier: classifier,
		regions:    append([]harvest.Region(nil), regions...),
		clock:      clock,
		ids:        ids,
		logger:     logger,
	}
}

// SetRegionFilter narrows term generation to one region by tag. An empty tag
// clears the filter; an unknown tag is rejected.
func (r *Runner) SetRegionFilter(tag string) error {
	if tag != "" && !r.knownRegion(tag) {
		return fmt.Errorf("unknown region tag %q", tag)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regionFilter = tag
	return nil
}

// SetCategoryFilter narrows term generation to one category's keywords. An
// empty name clears the filter; an unknown category is rejected.
func (r *Runner) SetCategoryFilter(name string) error {
	if name != "" {
		if _, ok := r.classifier.Category(name); !ok {
			return fmt.Errorf("unknown category %q", name)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categoryFilter = name
	return nil
}

// Filters returns the active region and category filters.
func (r *Runner) Filters() (region, category string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.regionFilter, r.categoryFilter
}

// RunCycle executes one collection cycle and returns the number of entries
// appended before the retention pass removed duplicates. The context bounds
// the whole cycle; a cancelled context stops between fetches.
func (r *Runner) RunCycle(ctx context.Context) (int, error) {
	terms := r.buildTerms()
	if len(terms) > r.cfg.TermsPerSource {
		terms = terms[:r.cfg.TermsPerSource]
	}

	appended := 0
	for _, sourceID := range r.registry.EnabledSources() {
		n, err := r.runSource(ctx, sourceID, terms)
		appended += n
		if err != nil {
			return appended, err
		}
	}

	res := r.collection.Reconcile()
	metrics.RetentionPass(res.Duplicates, res.Evicted, len(res.Entries))
	metrics.CycleCompleted()
	return appended, nil
}

// buildTerms derives the cycle's search terms from the base phrases and the
// active filters, preserving order and dropping duplicates.
func (r *Runner) buildTerms() []string {
	regionTag, categoryName := r.Filters()

	var terms []string
	if regionTag == "" {
		terms = append(terms, r.cfg.BasePhrases...)
		for _, region := range r.regions {
			token := region.PrimaryToken()
			for _, phrase := range r.cfg.BasePhrases {
				terms = append(terms, phrase+" "+token)
			}
		}
	} else {
		region, _ := r.regionByTag(regionTag)
		token := region.PrimaryToken()
		for _, phrase := range r.cfg.BasePhrases {
			terms = append(terms, phrase+" "+token)
		}
	}

	if categoryName != "" {
		if cat, ok := r.classifier.Category(categoryName); ok {
			for _, kw := range cat.Keywords {
				if kw != "" {
					terms = append(terms, kw)
				}
			}
		}
	}

	seen := make(map[string]struct{}, len(terms))
	deduped := terms[:0]
	for _, t := range terms {
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, t)
	}
	return deduped
}

// runSource fetches every term from one source and appends the entries it
// yields. A failed fetch counts as an empty result for that term and the
// remaining terms still run; only a cancelled context stops the loop.
func (r *Runner) runSource(ctx context.Context, sourceID string, terms []string) (int, error) {
	appended := 0
	for _, term := range terms {
		items, err := r.registry.Fetch(ctx, sourceID, term)
		if err != nil {
			if ctx.Err() != nil {
				return appended, ctx.Err()
			}
			metrics.FetchFailure(sourceID)
			r.logger.Warn("source fetch failed",
				zap.String("source", sourceID),
				zap.String("term", term),
				zap.Error(err))
			continue
		}
		for _, item := range items {
			entries := r.entriesFromItem(sourceID, item)
			if len(entries) == 0 {
				continue
			}
			r.collection.Append(entries...)
			appended += len(entries)
		}
	}
	metrics.EntriesAppended(sourceID, appended)
	return appended, nil
}

// entriesFromItem extracts, validates, and classifies one content item.
// Rejected candidates are dropped silently; rejection is the common case.
func (r *Runner) entriesFromItem(sourceID string, item harvest.ContentItem) []harvest.Entry {
	candidates := r.extractor.Extract(item.Content)
	if len(candidates) == 0 {
		return nil
	}

	category, matched := r.classifier.Classify(item.Content)
	author := item.Author
	if author == "" {
		author = "unknown"
	}
	observed := r.clock.Now()

	var entries []harvest.Entry
	for _, candidate := range candidates {
		val := r.validator.Validate(candidate)
		if !val.Valid {
			continue
		}
		id, err := r.ids.NewID()
		if err != nil {
			r.logger.Error("generate entry id", zap.Error(err))
			continue
		}
		entries = append(entries, harvest.Entry{
			ID:         id,
			Region:     val.Region,
			Identifier: val.Identifier,
			SourceID:   sourceID,
			Category:   category,
			Author:     author,
			Excerpt:    truncate(item.Content, r.cfg.ExcerptLength),
			ObservedAt: observed,
			Metadata: harvest.Metadata{
				Verified:        false,
				CategoryMatched: matched,
				RegionCode:      val.RegionCode,
			},
		})
	}
	return entries
}

func (r *Runner) knownRegion(tag string) bool {
	_, ok := r.regionByTag(tag)
	return ok
}

func (r *Runner) regionByTag(tag string) (harvest.Region, bool) {
	for _, region := range r.regions {
		if strings.EqualFold(region.Tag, tag) {
			return region, true
		}
	}
	return harvest.Region{}, false
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
