package worker

import "context"

// BulkUploader uploads every pending entry of a category and returns once the
// whole upload has finished. It owns removal of what it delivered.
type BulkUploader interface {
	UploadAllAndWait(ctx context.Context) error
}

// SyncStatus receives the "data is not syncing" signal.
type SyncStatus interface {
	ReportUploadError()
}

// BulkDelegate runs a BulkUploader as a single all-or-nothing step.
type BulkDelegate struct {
	tag      string
	uploader BulkUploader
	status   SyncStatus
	diag     Diagnostics
}

// NewBulkDelegate returns a BulkDelegate for the category named by tag.
func NewBulkDelegate(tag string, uploader BulkUploader, status SyncStatus, diag Diagnostics) *BulkDelegate {
	return &BulkDelegate{
		tag:      tag,
		uploader: uploader,
		status:   status,
		diag:     diag,
	}
}

// Run uploads everything pending. On error the sync status is flagged before
// the error is logged.
func (b *BulkDelegate) Run(ctx context.Context) Outcome {
	if err := b.uploader.UploadAllAndWait(ctx); err != nil {
		b.status.ReportUploadError()
		b.diag.Error(b.tag, "bulk upload failed", err)
		return Failure
	}
	return Success
}
