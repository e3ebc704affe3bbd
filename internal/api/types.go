package api

import "time"

// StackFrame is one frame of a reported exception.
type StackFrame struct {
	Function string `json:"function"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
}

// Throwable is the backend's representation of an exception and its cause chain.
type Throwable struct {
	Class   string       `json:"class"`
	Message string       `json:"message,omitempty"`
	Frames  []StackFrame `json:"frames,omitempty"`
	Cause   *Throwable   `json:"cause,omitempty"`
}

// ExceptionReport is the payload for POST /v1/installations/{id}/exceptions.
type ExceptionReport struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Exception  Throwable         `json:"exception"`
	Thread     string            `json:"thread,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// PerformanceMetricReport is the payload for POST /v1/installations/{id}/performance-metrics.
type PerformanceMetricReport struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Name       string            `json:"name"`
	DurationMs float64           `json:"duration_ms"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// EventReport is one event inside an EventBatch.
type EventReport struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
}

// EventBatch is the top-level payload for POST /v1/installations/{id}/events.
type EventBatch = []EventReport

// SyncStatusReport is the payload for POST /v1/installations/{id}/sync-status.
type SyncStatusReport struct {
	State             string     `json:"state"`
	LastSyncedAt      *time.Time `json:"last_synced_at,omitempty"`
	LastErrorAt       *time.Time `json:"last_error_at,omitempty"`
	ConsecutiveErrors int        `json:"consecutive_errors"`
}
