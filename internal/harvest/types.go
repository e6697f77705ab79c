package harvest

import "time"

// Region is one configured target geography.
type Region struct {
	Name         string   `json:"name" mapstructure:"name"`
	Tag          string   `json:"tag" mapstructure:"tag"`
	DialCode     string   `json:"dial_code" mapstructure:"dial_code"`
	SearchTokens []string `json:"search_tokens" mapstructure:"search_tokens"`
}

// PrimaryToken returns the region's first search token, or its lower-cased
// name when no tokens are configured.
func (r Region) PrimaryToken() string {
	if len(r.SearchTokens) > 0 {
		return r.SearchTokens[0]
	}
	return r.Name
}

// Category is one keyword-driven classification bucket. Order in the
// configured category list is significant: the first matching category wins.
type Category struct {
	Name     string   `json:"name" mapstructure:"name"`
	Keywords []string `json:"keywords" mapstructure:"keywords"`
}

// DefaultCategory is assigned when no configured keyword list matches.
const DefaultCategory = "general"

// Metadata carries the fixed-shape auxiliary flags stored with each entry.
type Metadata struct {
	Verified        bool   `json:"verified"`
	CategoryMatched bool   `json:"category_matched"`
	RegionCode      string `json:"region_code"`
}

// Entry is one validated, classified identifier observation.
type Entry struct {
	ID         string    `json:"id"`
	Region     string    `json:"region"`
	Identifier string    `json:"identifier"`
	SourceID   string    `json:"source_id"`
	Category   string    `json:"category"`
	Author     string    `json:"author"`
	Excerpt    string    `json:"excerpt"`
	ObservedAt time.Time `json:"observed_at"`
	Metadata   Metadata  `json:"metadata"`
}

// DedupKey returns the pair that defines uniqueness within the collection.
func (e Entry) DedupKey() string {
	return e.Region + "|" + e.Identifier
}

// ContentItem is one raw item returned by a source connector.
type ContentItem struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// Validation is the outcome of running one extracted candidate through the
// validator. When Valid is false, Reason holds one of the rejection reasons.
type Validation struct {
	Valid      bool
	Identifier string
	Region     string
	RegionTag  string
	RegionCode string
	Reason     string
}

// Rejection reasons surfaced by the validator.
const (
	ReasonInvalidFormat     = "invalid format"
	ReasonRegionNotTargeted = "region not targeted"
)

// Stats is a read-only summary of the collection at a point in time.
type Stats struct {
	Total       int            `json:"total"`
	NewInWindow int            `json:"new_in_window"`
	PerRegion   map[string]int `json:"per_region"`
	PerCategory map[string]int `json:"per_category"`
}

// EventKind labels a notification emitted by the scheduler.
type EventKind string

// Notification kinds published over the Notifier.
const (
	EventSessionStarted     EventKind = "session_started"
	EventSessionStopped     EventKind = "session_stopped"
	EventSessionAutoStopped EventKind = "session_autostopped"
	EventCycleCompleted     EventKind = "cycle_completed"
	EventSnapshotSaved      EventKind = "snapshot_saved"
)

// Event is one notification payload.
type Event struct {
	Kind       EventKind      `json:"kind"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}
