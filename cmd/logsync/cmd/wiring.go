package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/plexsphere/logsync/internal/api"
	"github.com/plexsphere/logsync/internal/config"
	"github.com/plexsphere/logsync/internal/diag"
	"github.com/plexsphere/logsync/internal/eventsync"
	"github.com/plexsphere/logsync/internal/logstore"
	"github.com/plexsphere/logsync/internal/logstore/mysqlstore"
	"github.com/plexsphere/logsync/internal/sink"
	"github.com/plexsphere/logsync/internal/syncstatus"
	"github.com/plexsphere/logsync/internal/worker"
)

// queueDir is the file store directory inside the data dir.
const queueDir = "queue"

// loadConfig reads the config file and applies CLI flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Read(cfgFile)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// queue is a pending-entry store as used by the CLI.
type queue[E any] interface {
	ListPending(ctx context.Context) ([]E, error)
	RemoveOldest(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

type stores struct {
	events     queue[logstore.EventEntry]
	exceptions queue[logstore.ExceptionEntry]
	metrics    queue[logstore.PerformanceMetricEntry]
	close      func() error
}

// openStores opens the per-category stores selected by cfg.Store.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverMySQL:
		return openMySQLStores(ctx, cfg)
	default:
		return openFileStores(cfg)
	}
}

func openFileStores(cfg *config.Config) (*stores, error) {
	dir := filepath.Join(cfg.DataDir, queueDir)
	events, err := logstore.NewFileStore[logstore.EventEntry](dir, "events.json")
	if err != nil {
		return nil, err
	}
	exceptions, err := logstore.NewFileStore[logstore.ExceptionEntry](dir, "exceptions.json")
	if err != nil {
		return nil, err
	}
	metrics, err := logstore.NewFileStore[logstore.PerformanceMetricEntry](dir, "performance_metrics.json")
	if err != nil {
		return nil, err
	}
	return &stores{
		events:     events,
		exceptions: exceptions,
		metrics:    metrics,
		close:      func() error { return nil },
	}, nil
}

func openMySQLStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	db, err := mysqlstore.Open(cfg.Store.DSN)
	if err != nil {
		return nil, err
	}
	s, err := mysqlStores(ctx, db, cfg.Store.TablePrefix)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return s, nil
}

func mysqlStores(ctx context.Context, db *sql.DB, prefix string) (*stores, error) {
	events, err := mysqlstore.New[logstore.EventEntry](db, prefix+"events")
	if err != nil {
		return nil, err
	}
	exceptions, err := mysqlstore.New[logstore.ExceptionEntry](db, prefix+"exceptions")
	if err != nil {
		return nil, err
	}
	metrics, err := mysqlstore.New[logstore.PerformanceMetricEntry](db, prefix+"performance_metrics")
	if err != nil {
		return nil, err
	}
	for _, ensure := range []func(context.Context) error{
		events.EnsureSchema, exceptions.EnsureSchema, metrics.EnsureSchema,
	} {
		if err := ensure(ctx); err != nil {
			return nil, err
		}
	}
	return &stores{
		events:     events,
		exceptions: exceptions,
		metrics:    metrics,
		close:      db.Close,
	}, nil
}

// runtime is the fully wired worker with its collaborators.
type runtime struct {
	cfg     *config.Config
	client  *api.Client
	stores  *stores
	tracker *syncstatus.Tracker
	worker  *worker.Worker
	logger  *slog.Logger
}

func newRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*runtime, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	client, err := api.NewClient(cfg.API, buildVersion, logger)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	tracker, err := syncstatus.Load(cfg.DataDir, cfg.Status, logger)
	if err != nil {
		return nil, err
	}
	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open stores: %w", err)
	}

	uploader := eventsync.NewUploader(cfg.Events, st.events, client, cfg.InstallationID, tracker, logger)
	w := worker.New(cfg.Worker, worker.Deps{
		Exceptions:         st.exceptions,
		PerformanceMetrics: st.metrics,
		Sink:               sink.NewRemote(client, cfg.InstallationID),
		Events:             uploader,
		SyncStatus:         tracker,
		Diagnostics:        diag.New(logger),
	}, logger)

	return &runtime{
		cfg:     cfg,
		client:  client,
		stores:  st,
		tracker: tracker,
		worker:  w,
		logger:  logger,
	}, nil
}

// publishStatus sends the sync status after an event run. Errors are logged.
func (r *runtime) publishStatus(ctx context.Context) {
	if err := r.tracker.Publish(ctx, r.client, r.cfg.InstallationID); err != nil {
		r.logger.Warn("sync status publish failed", "error", err)
	}
}

func (r *runtime) Close() error {
	return r.stores.close()
}
