// Package sink delivers single exception and performance metric reports to
// the logging backend.
package sink

import (
	"context"
	"fmt"

	"github.com/plexsphere/logsync/internal/api"
)

// Reporter abstracts the backend endpoints used for single-entry delivery.
type Reporter interface {
	ReportException(ctx context.Context, installationID string, report api.ExceptionReport) error
	ReportPerformanceMetric(ctx context.Context, installationID string, report api.PerformanceMetricReport) error
}

// Remote forwards reports for one installation.
type Remote struct {
	reporter       Reporter
	installationID string
}

// NewRemote returns a Remote reporting on behalf of installationID.
func NewRemote(reporter Reporter, installationID string) *Remote {
	return &Remote{reporter: reporter, installationID: installationID}
}

// LogException sends one exception report.
func (r *Remote) LogException(ctx context.Context, report api.ExceptionReport) error {
	if err := r.reporter.ReportException(ctx, r.installationID, report); err != nil {
		return fmt.Errorf("sink: exception %s: %w", report.ID, err)
	}
	return nil
}

// LogPerformanceMetric sends one performance metric report.
func (r *Remote) LogPerformanceMetric(ctx context.Context, report api.PerformanceMetricReport) error {
	if err := r.reporter.ReportPerformanceMetric(ctx, r.installationID, report); err != nil {
		return fmt.Errorf("sink: performance metric %s: %w", report.ID, err)
	}
	return nil
}
