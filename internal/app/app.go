// Package app initializes and holds long-lived application services, acting
// as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/osintlabs/numharvest/internal/archive/gcs"
	"github.com/osintlabs/numharvest/internal/archive/local"
	"github.com/osintlabs/numharvest/internal/clock/system"
	"github.com/osintlabs/numharvest/internal/config"
	"github.com/osintlabs/numharvest/internal/harvest"
	lognotify "github.com/osintlabs/numharvest/internal/notify/log"
	memnotify "github.com/osintlabs/numharvest/internal/notify/memory"
	pubsubnotify "github.com/osintlabs/numharvest/internal/notify/pubsub"
	"github.com/osintlabs/numharvest/internal/report"
	filestore "github.com/osintlabs/numharvest/internal/store/file"
	memstore "github.com/osintlabs/numharvest/internal/store/memory"
	pgstore "github.com/osintlabs/numharvest/internal/store/postgres"
)

// App holds the provider-backed services selected by configuration. It is
// initialized once at startup and handed to the components that need it.
type App struct {
	logger   *zap.Logger
	clock    harvest.Clock
	store    harvest.EntryStore
	archive  harvest.BlobStore
	notifier harvest.Notifier
	reports  harvest.ReportSink

	closers []func() error
}

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger { return a.logger }

// Clock returns the shared clock.
func (a *App) Clock() harvest.Clock { return a.clock }

// Store returns the configured entry store.
func (a *App) Store() harvest.EntryStore { return a.store }

// Archive returns the configured snapshot archive, or nil when archiving is
// disabled.
func (a *App) Archive() harvest.BlobStore { return a.archive }

// Notifier returns the configured event notifier.
func (a *App) Notifier() harvest.Notifier { return a.notifier }

// Reports returns the report sink.
func (a *App) Reports() harvest.ReportSink { return a.reports }

// New builds the provider set selected by cfg. It fails fast when any
// configured backend cannot be reached.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{
		logger: logger,
		clock:  system.Clock{},
	}

	switch cfg.Storage.Provider {
	case "file":
		logger.Info("using file entry store", zap.String("path", cfg.Storage.Path))
		a.store = filestore.New(cfg.Storage.Path)
	case "memory":
		logger.Info("using in-memory entry store")
		a.store = memstore.New()
	case "postgres":
		logger.Info("connecting to postgres", zap.String("table", cfg.Storage.Table))
		store, err := pgstore.New(ctx, pgstore.Config{
			DSN:   cfg.Storage.DSN,
			Table: cfg.Storage.Table,
		})
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
		a.store = store
		a.closers = append(a.closers, func() error {
			store.Close()
			return nil
		})
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}

	switch cfg.Archive.Provider {
	case "noop":
		logger.Info("snapshot archiving disabled")
	case "local":
		logger.Info("using local snapshot archive", zap.String("dir", cfg.Archive.Dir))
		arc, err := local.New(cfg.Archive.Dir)
		if err != nil {
			return nil, fmt.Errorf("init local archive: %w", err)
		}
		a.archive = arc
	case "gcs":
		logger.Info("using gcs snapshot archive", zap.String("bucket", cfg.Archive.Bucket))
		arc, err := gcs.New(ctx, cfg.Archive.Bucket, cfg.Archive.Prefix)
		if err != nil {
			return nil, fmt.Errorf("init gcs archive: %w", err)
		}
		a.archive = arc
		a.closers = append(a.closers, arc.Close)
	default:
		return nil, fmt.Errorf("unknown archive provider %q", cfg.Archive.Provider)
	}

	switch cfg.Notify.Provider {
	case "log":
		a.notifier = lognotify.New(logger)
	case "memory":
		a.notifier = memnotify.New()
	case "pubsub":
		logger.Info("connecting to pubsub",
			zap.String("project", cfg.Notify.ProjectID),
			zap.String("topic", cfg.Notify.TopicID))
		n, err := pubsubnotify.New(ctx, cfg.Notify.ProjectID, cfg.Notify.TopicID)
		if err != nil {
			return nil, fmt.Errorf("init pubsub notifier: %w", err)
		}
		a.notifier = n
		a.closers = append(a.closers, n.Close)
	default:
		return nil, fmt.Errorf("unknown notify provider %q", cfg.Notify.Provider)
	}

	a.reports = report.NewSink(cfg.Report.Dir, a.clock)

	return a, nil
}

// Close shuts down the providers in reverse initialization order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close provider", zap.Error(err))
		}
	}
}
