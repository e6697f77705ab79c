package metrics

import "testing"

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	// Helpers must not panic once initialized.
	CycleCompleted()
	EntriesAppended("forum", 3)
	EntriesAppended("forum", 0)
	FetchFailure("forum")
	RetentionPass(2, 1, 10)
}

func TestHelpersAreNilSafeBeforeInit(t *testing.T) {
	// Collectors are package-level; helpers guard against partial setup.
	CycleCompleted()
	FetchFailure("board")
}
