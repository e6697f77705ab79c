package harvest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSnapshot_CountsAndWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Region: "India", Category: "crypto", ObservedAt: now.Add(-10 * time.Second)},
		{Region: "India", Category: "general", ObservedAt: now.Add(-59 * time.Second)},
		{Region: "United States", Category: "crypto", ObservedAt: now.Add(-2 * time.Minute)},
	}

	st := Snapshot(entries, now, time.Minute)
	require.Equal(t, 3, st.Total)
	require.Equal(t, 2, st.NewInWindow)
	require.Equal(t, map[string]int{"India": 2, "United States": 1}, st.PerRegion)
	require.Equal(t, map[string]int{"crypto": 2, "general": 1}, st.PerCategory)
}

func TestSnapshot_WindowEdgeIsInclusive(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0).UTC()
	entries := []Entry{{Region: "India", Category: "general", ObservedAt: now.Add(-time.Minute)}}

	st := Snapshot(entries, now, time.Minute)
	require.Equal(t, 1, st.NewInWindow)
}

func TestSnapshot_Empty(t *testing.T) {
	t.Parallel()

	st := Snapshot(nil, time.Now(), time.Minute)
	require.Zero(t, st.Total)
	require.Zero(t, st.NewInWindow)
	require.Empty(t, st.PerRegion)
}
