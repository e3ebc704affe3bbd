package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/plexsphere/logsync/internal/api"
	"github.com/plexsphere/logsync/internal/logstore"
)

// Config holds the configuration for the Worker.
type Config struct {
	// Timeout bounds a single upload run. Zero leaves runs unbounded, in
	// which case a hanging backend or store hangs the Future.
	// Default: 0
	Timeout time.Duration `yaml:"timeout"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return errors.New("worker: config: Timeout must not be negative")
	}
	return nil
}

// Sink delivers single entries to the logging backend.
type Sink interface {
	LogException(ctx context.Context, report api.ExceptionReport) error
	LogPerformanceMetric(ctx context.Context, report api.PerformanceMetricReport) error
}

// Deps are the collaborators a Worker drives.
type Deps struct {
	Exceptions         Store[logstore.ExceptionEntry]
	PerformanceMetrics Store[logstore.PerformanceMetricEntry]
	Sink               Sink
	Events             BulkUploader
	SyncStatus         SyncStatus
	Diagnostics        Diagnostics
}

// Worker runs one upload per Invocation on a background goroutine.
type Worker struct {
	cfg    Config
	router *Router
	logger *slog.Logger
}

// New creates a Worker. Config defaults are applied automatically.
func New(cfg Config, deps Deps, logger *slog.Logger) *Worker {
	cfg.ApplyDefaults()
	logger = logger.With("component", "worker")

	exceptions := NewDrainer(CategoryException, deps.Exceptions,
		exceptionReport, deps.Sink.LogException, deps.Diagnostics, logger)
	metrics := NewDrainer(CategoryPerformanceMetric, deps.PerformanceMetrics,
		performanceMetricReport, deps.Sink.LogPerformanceMetric, deps.Diagnostics, logger)
	events := NewBulkDelegate(CategoryEvent, deps.Events, deps.SyncStatus, deps.Diagnostics)

	return &Worker{
		cfg:    cfg,
		router: NewRouter(events.Run, exceptions.Run, metrics.Run),
		logger: logger,
	}
}

// Start routes inv and launches the selected upload on its own goroutine,
// returning without waiting for it. An unknown selector resolves the Future
// to Failure immediately, without touching any store.
//
// The upload runs under ctx; cancelling ctx is visible to the stores and the
// backend client but does not resolve the Future by itself.
func (w *Worker) Start(ctx context.Context, inv Invocation) *Future {
	op, ok := w.router.Route(inv)
	if !ok {
		w.logger.Warn("unknown category selector", "category", inv.Category())
		return resolvedFuture(Result{Outcome: Failure}, w.logger)
	}

	f := newFuture(w.logger)
	go func() {
		f.resolve(w.execute(ctx, op))
	}()
	return f
}

// Run starts inv and waits for its result.
func (w *Worker) Run(ctx context.Context, inv Invocation) (Result, error) {
	return w.Start(ctx, inv).Wait(ctx)
}

// execute runs op, converting a panic into a Fault that carries the cause.
func (w *Worker) execute(ctx context.Context, op Operation) (res Result) {
	defer func() {
		if v := recover(); v != nil {
			var cause error
			if err, ok := v.(error); ok {
				cause = fmt.Errorf("%w: %w", ErrOperationPanic, err)
			} else {
				cause = fmt.Errorf("%w: %v", ErrOperationPanic, v)
			}
			w.logger.Error("upload operation panicked", "error", cause, "stack", string(debug.Stack()))
			res = Result{Outcome: Fault, Cause: cause}
		}
	}()

	if w.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
	}
	return Result{Outcome: op(ctx)}
}
