package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/osintlabs/numharvest/internal/api"
	"github.com/osintlabs/numharvest/internal/app"
	"github.com/osintlabs/numharvest/internal/config"
	"github.com/osintlabs/numharvest/internal/harvest"
	"github.com/osintlabs/numharvest/internal/id/uuid"
	"github.com/osintlabs/numharvest/internal/logging"
	"github.com/osintlabs/numharvest/internal/metrics"
	"github.com/osintlabs/numharvest/internal/runner"
	"github.com/osintlabs/numharvest/internal/scheduler"
	"github.com/osintlabs/numharvest/internal/source"
	"github.com/osintlabs/numharvest/internal/source/filedrop"
	"github.com/osintlabs/numharvest/internal/source/noop"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Runs the collection service",
		Long: `Starts the HTTP control API and waits for collection sessions to be
started over it. A session runs recurring collection cycles until it is
stopped or its maximum duration elapses.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics.Init()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init services: %w", err)
	}
	defer services.Close()

	registry, err := buildRegistry(cfg.Sources)
	if err != nil {
		return err
	}

	collection := harvest.NewCollection(cfg.Limits.MaxEntries)
	entries, err := services.Store().Load(ctx)
	if err != nil {
		// An unreadable snapshot is not fatal; start from an empty collection.
		logger.Warn("load persisted collection", zap.Error(err))
		entries = nil
	}
	collection.Replace(entries)
	logger.Info("collection loaded", zap.Int("entries", len(entries)))

	validator := harvest.NewValidator(cfg.Regions, harvest.ValidatorConfig{
		MinDigits:        cfg.Validation.MinDigits,
		MaxDigits:        cfg.Validation.MaxDigits,
		DefaultRegionTag: cfg.Validation.DefaultRegionTag,
	})
	classifier := harvest.NewClassifier(cfg.Categories)

	cycles := runner.New(
		runner.Config{
			BasePhrases:    cfg.BasePhrases,
			TermsPerSource: cfg.Limits.TermsPerSource,
			ExcerptLength:  cfg.Limits.ExcerptLength,
		},
		registry,
		collection,
		validator,
		classifier,
		cfg.Regions,
		services.Clock(),
		uuid.NewGenerator(),
		logger,
	)

	sched := scheduler.New(
		scheduler.Config{
			CyclePeriod: cfg.Timing.CyclePeriod(),
			MaxSession:  cfg.Timing.MaxSession(),
			Autosave:    cfg.Timing.Autosave(),
			StatsWindow: cfg.Timing.StatsWindow(),
		},
		cycles,
		collection,
		services.Store(),
		services.Archive(),
		services.Notifier(),
		services.Reports(),
		services.Clock(),
		logger,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewServer(sched, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	// Stop the session first so the final snapshot lands before providers
	// shut down.
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}

	logger.Info("service stopped")
	return nil
}

func buildRegistry(sources []config.SourceConfig) (*source.Registry, error) {
	registry := source.NewRegistry()
	for _, s := range sources {
		var (
			connector harvest.Connector
			err       error
		)
		switch s.Kind {
		case "filedrop":
			connector, err = filedrop.New(s.Dir)
			if err != nil {
				return nil, fmt.Errorf("init filedrop source %q: %w", s.ID, err)
			}
		case "noop", "":
			connector = noop.Connector{}
		default:
			return nil, fmt.Errorf("unknown source kind %q for source %q", s.Kind, s.ID)
		}
		if err := registry.Register(source.Spec{
			ID:       s.ID,
			Enabled:  s.Enabled,
			MinDelay: s.MinDelay(),
		}, connector); err != nil {
			return nil, fmt.Errorf("register source %q: %w", s.ID, err)
		}
	}
	return registry, nil
}
