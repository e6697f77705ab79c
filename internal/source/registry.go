// Package source holds the connector registry and its rate-limit bookkeeping.
package source

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/osintlabs/numharvest/internal/harvest"
)

// Spec describes one registered connector.
type Spec struct {
	ID       string
	Enabled  bool
	MinDelay time.Duration
}

type registration struct {
	spec      Spec
	connector harvest.Connector
	limiter   *rate.Limiter
}

// Registry holds the enabled connectors and enforces each source's minimum
// inter-request delay. Fetches against one source are sequential; the
// limiter's burst of one makes every call after the first wait out MinDelay.
type Registry struct {
	mu      sync.Mutex
	sources map[string]*registration
	order   []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]*registration)}
}

// Register adds a connector under spec.ID. Registration order defines the
// iteration order of EnabledSources.
func (r *Registry) Register(spec Spec, connector harvest.Connector) error {
	if spec.ID == "" {
		return fmt.Errorf("source id is required")
	}
	if connector == nil {
		return fmt.Errorf("connector for source %q is required", spec.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sources[spec.ID]; exists {
		return fmt.Errorf("source %q already registered", spec.ID)
	}
	limit := rate.Inf
	if spec.MinDelay > 0 {
		limit = rate.Every(spec.MinDelay)
	}
	r.sources[spec.ID] = &registration{
		spec:      spec,
		connector: connector,
		limiter:   rate.NewLimiter(limit, 1),
	}
	r.order = append(r.order, spec.ID)
	return nil
}

// EnabledSources returns the IDs of enabled sources in registration order.
func (r *Registry) EnabledSources() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, id := range r.order {
		if r.sources[id].spec.Enabled {
			out = append(out, id)
		}
	}
	return out
}

// Fetch waits out the source's minimum delay and queries its connector.
// Callers treat any error as an empty result set for that (source, term).
func (r *Registry) Fetch(ctx context.Context, sourceID, term string) ([]harvest.ContentItem, error) {
	r.mu.Lock()
	reg, ok := r.sources[sourceID]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("source %q not registered", sourceID)
	}
	if !reg.spec.Enabled {
		return nil, fmt.Errorf("source %q is disabled", sourceID)
	}
	if err := reg.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	items, err := reg.connector.Fetch(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %q: %w", sourceID, term, err)
	}
	return items, nil
}
