// Package harvest defines the core types and pipeline stages shared across
// subsystems: candidate extraction, validation against the target-region
// table, keyword classification, and the deduplicated, size-bounded entry
// collection.
package harvest
