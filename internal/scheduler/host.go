// Package scheduler re-invokes the upload worker periodically, one sequential
// loop per category.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/plexsphere/logsync/internal/worker"
)

// DefaultInterval is the default interval between runs of one category.
const DefaultInterval = 15 * time.Minute

// MinInterval is the smallest accepted interval.
const MinInterval = time.Second

// Config holds the per-category run intervals.
type Config struct {
	// Event is the interval between event uploads. Default: 15m
	Event time.Duration `yaml:"event"`

	// Exception is the interval between exception uploads. Default: 15m
	Exception time.Duration `yaml:"exception"`

	// PerformanceMetric is the interval between performance metric uploads.
	// Default: 15m
	PerformanceMetric time.Duration `yaml:"performance_metric"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Event == 0 {
		c.Event = DefaultInterval
	}
	if c.Exception == 0 {
		c.Exception = DefaultInterval
	}
	if c.PerformanceMetric == 0 {
		c.PerformanceMetric = DefaultInterval
	}
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Event < MinInterval || c.Exception < MinInterval || c.PerformanceMetric < MinInterval {
		return errors.New("scheduler: config: intervals must be at least 1s")
	}
	return nil
}

func (c *Config) intervals() map[string]time.Duration {
	return map[string]time.Duration{
		worker.CategoryEvent:             c.Event,
		worker.CategoryException:         c.Exception,
		worker.CategoryPerformanceMetric: c.PerformanceMetric,
	}
}

// Starter launches one upload run.
type Starter interface {
	Start(ctx context.Context, inv worker.Invocation) *worker.Future
}

// Host drives a Starter on a fixed interval per category.
type Host struct {
	cfg      Config
	starter  Starter
	onResult func(category string, res worker.Result)
	logger   *slog.Logger
}

// NewHost creates a Host. Config defaults are applied automatically.
func NewHost(cfg Config, starter Starter, logger *slog.Logger) *Host {
	cfg.ApplyDefaults()
	return &Host{
		cfg:     cfg,
		starter: starter,
		logger:  logger.With("component", "scheduler"),
	}
}

// SetOnResult sets a callback invoked with every finished run.
// Must be called before Run.
func (h *Host) SetOnResult(fn func(category string, res worker.Result)) {
	h.onResult = fn
}

// Run starts one loop per category. Each loop runs immediately and then on
// every tick; a run that outlasts its interval delays the next one rather
// than overlapping it. Run blocks until ctx is cancelled and every in-flight
// run has finished, and always returns nil.
func (h *Host) Run(ctx context.Context) error {
	var g errgroup.Group
	for category, interval := range h.cfg.intervals() {
		g.Go(func() error {
			h.loop(ctx, category, interval)
			return nil
		})
	}
	return g.Wait()
}

func (h *Host) loop(ctx context.Context, category string, interval time.Duration) {
	h.runOnce(ctx, category)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.runOnce(ctx, category)
		}
	}
}

// runOnce starts a run and waits for it to resolve. On shutdown the run sees
// the cancelled context and is still waited for.
func (h *Host) runOnce(ctx context.Context, category string) {
	if ctx.Err() != nil {
		return
	}
	f := h.starter.Start(ctx, worker.NewInvocation(category))
	<-f.Done()
	res, _ := f.Result()

	switch res.Outcome {
	case worker.Success:
		h.logger.Debug("upload run finished", "category", category, "outcome", res.Outcome)
	case worker.Fault:
		h.logger.Error("upload run faulted", "category", category, "error", res.Cause)
	default:
		h.logger.Warn("upload run failed, retrying next interval", "category", category, "outcome", res.Outcome)
	}

	if h.onResult != nil {
		h.onResult(category, res)
	}
}
