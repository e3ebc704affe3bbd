// Package syncstatus tracks whether buffered events are reaching the backend.
package syncstatus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/plexsphere/logsync/internal/api"
	"github.com/plexsphere/logsync/internal/fsutil"
)

// States reported by a Tracker.
const (
	StateUnknown = "unknown"
	StateSynced  = "synced"
	StateError   = "error"
)

// DefaultFileName is the status file name inside the data directory.
const DefaultFileName = "sync_status.json"

// Config holds the configuration for the Tracker.
type Config struct {
	// FileName is the status file inside the data directory.
	// Default: sync_status.json
	FileName string `yaml:"file"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.FileName == "" {
		c.FileName = DefaultFileName
	}
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.FileName == "" {
		return errors.New("syncstatus: config: FileName is required")
	}
	if filepath.Base(c.FileName) != c.FileName {
		return errors.New("syncstatus: config: FileName must not contain a path separator")
	}
	return nil
}

// Status is a snapshot of the sync state.
type Status struct {
	State             string     `json:"state"`
	LastSyncedAt      *time.Time `json:"last_synced_at,omitempty"`
	LastErrorAt       *time.Time `json:"last_error_at,omitempty"`
	ConsecutiveErrors int        `json:"consecutive_errors"`
}

// Reporter abstracts the backend sync-status endpoint.
type Reporter interface {
	ReportSyncStatus(ctx context.Context, installationID string, report api.SyncStatusReport) error
}

// Tracker holds the sync state and persists every change to the data directory.
type Tracker struct {
	dir    string
	file   string
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	status Status
}

// Load returns a Tracker backed by dir/cfg.FileName, restoring any state
// persisted by an earlier process.
func Load(dir string, cfg Config, logger *slog.Logger) (*Tracker, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Tracker{
		dir:    dir,
		file:   cfg.FileName,
		logger: logger.With("component", "syncstatus"),
		now:    func() time.Time { return time.Now().UTC() },
		status: Status{State: StateUnknown},
	}
	if _, err := fsutil.ReadJSON(filepath.Join(dir, cfg.FileName), &t.status); err != nil {
		return nil, fmt.Errorf("syncstatus: load: %w", err)
	}
	if t.status.State == "" {
		t.status.State = StateUnknown
	}
	return t, nil
}

// ReportUploadError marks the data as not syncing.
func (t *Tracker) ReportUploadError() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.status.State = StateError
	t.status.LastErrorAt = &now
	t.status.ConsecutiveErrors++
	t.persist()
}

// ReportSynced marks the data as fully synced.
func (t *Tracker) ReportSynced() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.status.State = StateSynced
	t.status.LastSyncedAt = &now
	t.status.ConsecutiveErrors = 0
	t.persist()
}

// Status returns a copy of the current state.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Publish sends the current state to the backend.
func (t *Tracker) Publish(ctx context.Context, reporter Reporter, installationID string) error {
	s := t.Status()
	err := reporter.ReportSyncStatus(ctx, installationID, api.SyncStatusReport{
		State:             s.State,
		LastSyncedAt:      s.LastSyncedAt,
		LastErrorAt:       s.LastErrorAt,
		ConsecutiveErrors: s.ConsecutiveErrors,
	})
	if err != nil {
		return fmt.Errorf("syncstatus: publish: %w", err)
	}
	return nil
}

// persist writes the state to disk. Must be called with t.mu held.
// A write failure is logged; the in-memory state stays authoritative.
func (t *Tracker) persist() {
	if err := fsutil.WriteJSONAtomic(t.dir, t.file, t.status, 0o600); err != nil {
		t.logger.Warn("failed to persist sync status", "error", err)
	}
}
