// Package log implements a Notifier that writes events to the service log.
package log

import (
	"context"

	"go.uber.org/zap"

	"github.com/osintlabs/numharvest/internal/harvest"
)

// Notifier logs each event at info level.
type Notifier struct {
	logger *zap.Logger
}

// New creates a Notifier writing through logger.
func New(logger *zap.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Notify logs the event.
func (n *Notifier) Notify(_ context.Context, evt harvest.Event) error {
	n.logger.Info("collection event",
		zap.String("kind", string(evt.Kind)),
		zap.Time("occurred_at", evt.OccurredAt),
		zap.Any("payload", evt.Payload))
	return nil
}
