// Package memory implements an in-memory Notifier for tests.
package memory

import (
	"context"
	"sync"

	"github.com/osintlabs/numharvest/internal/harvest"
)

// Notifier records every event it receives.
type Notifier struct {
	mu     sync.Mutex
	events []harvest.Event
}

// New creates an empty Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Notify records the event.
func (n *Notifier) Notify(_ context.Context, evt harvest.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, evt)
	return nil
}

// Events returns a copy of the recorded events.
func (n *Notifier) Events() []harvest.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]harvest.Event(nil), n.events...)
}
