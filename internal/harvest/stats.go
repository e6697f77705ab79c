package harvest

import "time"

// Snapshot computes summary counts over entries as of now. NewInWindow counts
// entries observed within the trailing window. Pure and read-only.
func Snapshot(entries []Entry, now time.Time, window time.Duration) Stats {
	st := Stats{
		Total:       len(entries),
		PerRegion:   make(map[string]int),
		PerCategory: make(map[string]int),
	}
	cutoff := now.Add(-window)
	for _, e := range entries {
		st.PerRegion[e.Region]++
		st.PerCategory[e.Category]++
		if !e.ObservedAt.Before(cutoff) {
			st.NewInWindow++
		}
	}
	return st
}
