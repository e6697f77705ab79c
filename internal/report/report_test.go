package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/osintlabs/numharvest/internal/clock/system"
	"github.com/osintlabs/numharvest/internal/harvest"
)

func TestExportWritesArtifact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sink := NewSink(dir, system.Clock{})

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []harvest.Entry{
		{ID: "a", Region: "India", Identifier: "+911111111111", Category: "crypto", SourceID: "forum", Excerpt: "join us", ObservedAt: now},
		{ID: "b", Region: "United States", Identifier: "+15551234567", Category: "general", SourceID: "board", ObservedAt: now},
	}

	path, err := sink.Export(context.Background(), entries, "report-test.docx")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "report-test.docx"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestExportEmptyCollection(t *testing.T) {
	t.Parallel()

	sink := NewSink(t.TempDir(), system.Clock{})
	path, err := sink.Export(context.Background(), nil, "empty.docx")
	require.NoError(t, err)
	require.FileExists(t, path)
}

func TestExportHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	sink := NewSink(t.TempDir(), system.Clock{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sink.Export(ctx, nil, "never.docx")
	require.ErrorIs(t, err, context.Canceled)
}
