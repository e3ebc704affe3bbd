package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ReportException sends one exception report.
// POST /v1/installations/{installation_id}/exceptions
func (c *Client) ReportException(ctx context.Context, installationID string, report ExceptionReport) error {
	return c.do(ctx, request{
		method:         http.MethodPost,
		path:           installationPath(installationID, "exceptions"),
		body:           report,
		idempotencyKey: report.ID,
	}, nil)
}

// ReportPerformanceMetric sends one performance metric report.
// POST /v1/installations/{installation_id}/performance-metrics
func (c *Client) ReportPerformanceMetric(ctx context.Context, installationID string, report PerformanceMetricReport) error {
	return c.do(ctx, request{
		method:         http.MethodPost,
		path:           installationPath(installationID, "performance-metrics"),
		body:           report,
		idempotencyKey: report.ID,
	}, nil)
}

// ReportEvents sends a batch of events. The idempotency key is derived from
// the event IDs, so resending the same batch yields the same key.
// POST /v1/installations/{installation_id}/events
func (c *Client) ReportEvents(ctx context.Context, installationID string, batch EventBatch) error {
	return c.do(ctx, request{
		method:         http.MethodPost,
		path:           installationPath(installationID, "events"),
		body:           batch,
		idempotencyKey: batchKey(batch),
	}, nil)
}

// ReportSyncStatus publishes the installation's sync status.
// POST /v1/installations/{installation_id}/sync-status
func (c *Client) ReportSyncStatus(ctx context.Context, installationID string, report SyncStatusReport) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   installationPath(installationID, "sync-status"),
		body:   report,
	}, nil)
}

func installationPath(installationID, resource string) string {
	return fmt.Sprintf("/v1/installations/%s/%s", url.PathEscape(installationID), resource)
}

func batchKey(batch EventBatch) string {
	if len(batch) == 0 {
		return ""
	}
	ids := make([]string, len(batch))
	for i, e := range batch {
		ids[i] = e.ID
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(ids, ","))).String()
}
