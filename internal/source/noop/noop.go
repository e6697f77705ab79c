// Package noop provides a connector that returns no content.
package noop

import (
	"context"

	"github.com/osintlabs/numharvest/internal/harvest"
)

// Connector is a placeholder for sources whose real connector runs elsewhere.
type Connector struct{}

// New creates a Connector.
func New() *Connector {
	return &Connector{}
}

// Fetch returns no items.
func (Connector) Fetch(context.Context, string) ([]harvest.ContentItem, error) {
	return nil, nil
}
