package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/osintlabs/numharvest/internal/config"
)

func baseConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		Storage: config.StorageConfig{Provider: "file", Path: filepath.Join(dir, "entries.json")},
		Archive: config.ArchiveConfig{Provider: "noop"},
		Notify:  config.NotifyConfig{Provider: "log"},
		Report:  config.ReportConfig{Dir: filepath.Join(dir, "reports")},
	}
}

func TestNewWiresFileProviders(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Store())
	require.Nil(t, a.Archive())
	require.NotNil(t, a.Notifier())
	require.NotNil(t, a.Reports())
	require.NotNil(t, a.Clock())
}

func TestNewWiresMemoryAndLocalProviders(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Storage = config.StorageConfig{Provider: "memory"}
	cfg.Archive = config.ArchiveConfig{Provider: "local", Dir: filepath.Join(t.TempDir(), "archive")}
	cfg.Notify = config.NotifyConfig{Provider: "memory"}

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Store())
	require.NotNil(t, a.Archive())
	require.NotNil(t, a.Notifier())
}

func TestNewRejectsUnknownProviders(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Storage.Provider = "bogus"
	_, err := New(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)

	cfg = baseConfig(t)
	cfg.Archive.Provider = "bogus"
	_, err = New(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)

	cfg = baseConfig(t)
	cfg.Notify.Provider = "bogus"
	_, err = New(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
}
