package harvest

import "sync"

// ReconcileResult reports what a retention pass changed.
type ReconcileResult struct {
	Entries    []Entry
	Duplicates int
	Evicted    int
}

// Reconcile removes entries with duplicate (region, identifier) pairs,
// keeping the first occurrence in collection order, then evicts the oldest
// entries until at most max remain. With max <= 0 no size cap is applied.
// Reconcile is idempotent.
func Reconcile(entries []Entry, max int) ReconcileResult {
	seen := make(map[string]struct{}, len(entries))
	deduped := make([]Entry, 0, len(entries))
	for _, e := range entries {
		key := e.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, e)
	}
	res := ReconcileResult{
		Entries:    deduped,
		Duplicates: len(entries) - len(deduped),
	}
	if max > 0 && len(res.Entries) > max {
		res.Evicted = len(res.Entries) - max
		res.Entries = res.Entries[res.Evicted:]
	}
	return res
}

// Collection is the single-writer, process-wide entry collection. Only the
// cycle runner appends and only the retention pass filters; stats and
// persistence work from copies taken under the read lock.
type Collection struct {
	mu      sync.RWMutex
	entries []Entry
	max     int
}

// NewCollection creates an empty Collection capped at max entries.
func NewCollection(max int) *Collection {
	return &Collection{max: max}
}

// Replace swaps in a previously persisted sequence, e.g. at startup.
func (c *Collection) Replace(entries []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append([]Entry(nil), entries...)
}

// Append adds entries in order at the end of the collection.
func (c *Collection) Append(entries ...Entry) {
	if len(entries) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entries...)
}

// Reconcile runs the retention pass over the live collection and reports what
// it removed.
func (c *Collection) Reconcile() ReconcileResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := Reconcile(c.entries, c.max)
	c.entries = res.Entries
	return res
}

// Snapshot returns a copy of the current ordered sequence.
func (c *Collection) Snapshot() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Entry(nil), c.entries...)
}

// Len returns the current collection size.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
