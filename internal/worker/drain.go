package worker

import (
	"context"
	"fmt"
	"log/slog"
)

// Store is the per-category pending-entry store as seen by the worker.
type Store[E any] interface {
	// ListPending returns every pending entry, oldest first.
	ListPending(ctx context.Context) ([]E, error)
	// RemoveOldest drops the head entry.
	RemoveOldest(ctx context.Context) error
}

// Diagnostics records upload errors.
type Diagnostics interface {
	Error(tag, msg string, err error)
}

// Drainer forwards every pending entry of one category to the backend,
// translating each stored entry E into the backend shape R first.
type Drainer[E, R any] struct {
	tag       string
	store     Store[E]
	translate func(E) (R, error)
	forward   func(context.Context, R) error
	diag      Diagnostics
	logger    *slog.Logger
}

// NewDrainer returns a Drainer for the category named by tag.
func NewDrainer[E, R any](
	tag string,
	store Store[E],
	translate func(E) (R, error),
	forward func(context.Context, R) error,
	diag Diagnostics,
	logger *slog.Logger,
) *Drainer[E, R] {
	return &Drainer[E, R]{
		tag:       tag,
		store:     store,
		translate: translate,
		forward:   forward,
		diag:      diag,
		logger:    logger,
	}
}

// Run drains one snapshot of the store. Entries are forwarded strictly in
// order and the head is removed after each accepted forward. The first error
// ends the pass: the failing entry and everything after it stay pending.
func (d *Drainer[E, R]) Run(ctx context.Context) Outcome {
	sent, err := d.drain(ctx)
	if err != nil {
		d.diag.Error(d.tag, "log upload failed", err)
		return Failure
	}
	if sent > 0 {
		d.logger.Debug("log upload completed", "category", d.tag, "uploaded", sent)
	}
	return Success
}

func (d *Drainer[E, R]) drain(ctx context.Context) (int, error) {
	entries, err := d.store.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending: %w", err)
	}

	for i, entry := range entries {
		report, err := d.translate(entry)
		if err != nil {
			return i, fmt.Errorf("translate entry %d of %d: %w", i+1, len(entries), err)
		}
		if err := d.forward(ctx, report); err != nil {
			return i, fmt.Errorf("forward entry %d of %d: %w", i+1, len(entries), err)
		}
		if err := d.store.RemoveOldest(ctx); err != nil {
			return i, fmt.Errorf("remove entry %d of %d: %w", i+1, len(entries), err)
		}
	}
	return len(entries), nil
}
