package harvest

import (
	"context"
	"time"
)

// Connector fetches raw content items for a search term. Implementations live
// outside the core; a fetch failure is recoverable and must be treated as an
// empty result set by callers.
type Connector interface {
	Fetch(ctx context.Context, term string) ([]ContentItem, error)
}

// EntryStore persists the ordered entry collection. Load returns an empty
// slice and a nil error when no snapshot exists yet; Save overwrites the
// previous snapshot with the full current sequence.
type EntryStore interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

// BlobStore writes raw artifacts and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Notifier delivers scheduler events to an external consumer.
type Notifier interface {
	Notify(ctx context.Context, evt Event) error
}

// ReportSink renders the full entry collection to an artifact at path and
// returns the path of the generated artifact.
type ReportSink interface {
	Export(ctx context.Context, entries []Entry, path string) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces entry IDs.
type IDGenerator interface {
	NewID() (string, error)
}
