// Package diag records upload diagnostics through log/slog.
package diag

import (
	"context"
	"log/slog"

	"github.com/plexsphere/logsync/internal/api"
)

// Sink writes one structured record per reported upload error.
type Sink struct {
	logger *slog.Logger
}

// New returns a Sink writing to logger.
func New(logger *slog.Logger) *Sink {
	return &Sink{logger: logger.With("component", "diag")}
}

// Error logs msg for the category named by tag. Transient causes (network
// errors, rate limiting, 5xx) are logged at warn level since the next run is
// expected to deliver; anything else is logged at error level.
func (s *Sink) Error(tag, msg string, err error) {
	level := slog.LevelError
	transient := api.IsTransient(err)
	if transient {
		level = slog.LevelWarn
	}
	s.logger.Log(context.Background(), level, msg, "tag", tag, "error", err, "transient", transient)
}
