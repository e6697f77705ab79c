package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/osintlabs/numharvest/internal/harvest"
)

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	t.Parallel()

	s := New(filepath.Join(t.TempDir(), "entries.json"))
	entries, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSaveThenLoadRoundTripsOrder(t *testing.T) {
	t.Parallel()

	s := New(filepath.Join(t.TempDir(), "data", "entries.json"))
	want := []harvest.Entry{
		{ID: "a", Region: "India", Identifier: "+911111111111", ObservedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{ID: "b", Region: "United States", Identifier: "+15551234567", Category: "crypto"},
	}

	require.NoError(t, s.Save(context.Background(), want))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	t.Parallel()

	s := New(filepath.Join(t.TempDir(), "entries.json"))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, []harvest.Entry{{ID: "a"}, {ID: "b"}}))
	require.NoError(t, s.Save(ctx, []harvest.Entry{{ID: "c"}}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "c", got[0].ID)
}

func TestLoadRejectsCorruptSnapshot(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "entries.json")
	s := New(path)
	require.NoError(t, s.Save(context.Background(), nil))

	// Truncate the file mid-document.
	require.NoError(t, os.WriteFile(path, []byte("[{\"id\":"), 0o644))

	_, err := s.Load(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode snapshot")
}
