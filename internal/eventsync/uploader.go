package eventsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/plexsphere/logsync/internal/api"
	"github.com/plexsphere/logsync/internal/logstore"
)

// ErrMissingEventName is returned for an event entry without a name.
var ErrMissingEventName = errors.New("eventsync: event entry has no name")

// Store is the pending event store.
type Store interface {
	ListPending(ctx context.Context) ([]logstore.EventEntry, error)
	RemoveOldest(ctx context.Context) error
}

// Reporter abstracts the backend event batch endpoint.
type Reporter interface {
	ReportEvents(ctx context.Context, installationID string, batch api.EventBatch) error
}

// SyncedReporter is told when every pending event has been delivered.
type SyncedReporter interface {
	ReportSynced()
}

// Uploader delivers pending events in batches and removes each batch from
// the store once the backend accepted it.
type Uploader struct {
	cfg            Config
	store          Store
	reporter       Reporter
	installationID string
	synced         SyncedReporter
	logger         *slog.Logger

	// mu serializes uploads so two callers never remove the same batch.
	mu sync.Mutex
}

// NewUploader creates an Uploader. Config defaults are applied automatically.
// synced may be nil.
func NewUploader(cfg Config, store Store, reporter Reporter, installationID string, synced SyncedReporter, logger *slog.Logger) *Uploader {
	cfg.ApplyDefaults()
	return &Uploader{
		cfg:            cfg,
		store:          store,
		reporter:       reporter,
		installationID: installationID,
		synced:         synced,
		logger:         logger.With("component", "eventsync"),
	}
}

// UploadAllAndWait uploads one snapshot of the pending events and returns
// once every batch was accepted or the first batch failed. Batches already
// accepted stay removed; the failed batch and everything after it stay
// pending.
func (u *Uploader) UploadAllAndWait(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	entries, err := u.store.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("eventsync: list pending: %w", err)
	}

	sent := 0
	for len(entries) > 0 {
		chunk := entries[:min(u.cfg.BatchSize, len(entries))]

		batch, err := eventBatch(chunk)
		if err != nil {
			return err
		}
		if err := u.reporter.ReportEvents(ctx, u.installationID, batch); err != nil {
			return fmt.Errorf("eventsync: report batch after %d events: %w", sent, err)
		}
		for range chunk {
			if err := u.store.RemoveOldest(ctx); err != nil {
				return fmt.Errorf("eventsync: remove delivered event: %w", err)
			}
		}

		sent += len(chunk)
		entries = entries[len(chunk):]
	}

	if sent > 0 {
		u.logger.Debug("events uploaded", "count", sent)
	}
	if u.synced != nil {
		u.synced.ReportSynced()
	}
	return nil
}

func eventBatch(entries []logstore.EventEntry) (api.EventBatch, error) {
	batch := make(api.EventBatch, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: id %s", ErrMissingEventName, e.ID)
		}
		batch[i] = api.EventReport{
			ID:         e.ID,
			Timestamp:  e.CreatedAt,
			Name:       e.Name,
			Properties: e.Properties,
		}
	}
	return batch, nil
}
