// Package logstore holds locally buffered log entries that are waiting to be
// uploaded to the logging backend. Each category has its own store; stores
// keep entries in insertion order and only ever remove from the head.
package logstore

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmpty is returned by RemoveOldest when the store holds no entries.
var ErrEmpty = errors.New("logstore: store is empty")

// EventEntry is a buffered analytics event.
type EventEntry struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
}

// ExceptionEntry is a buffered exception. StackTrace holds one frame per line
// in the form "function(file:line)", optionally prefixed with "at ".
type ExceptionEntry struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	ClassName  string            `json:"class_name"`
	Message    string            `json:"message"`
	StackTrace string            `json:"stack_trace,omitempty"`
	Thread     string            `json:"thread,omitempty"`
	Cause      *ExceptionEntry   `json:"cause,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// PerformanceMetricEntry is a buffered timing measurement.
type PerformanceMetricEntry struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	Name       string            `json:"name"`
	Duration   time.Duration     `json:"duration_ns"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NewEventEntry returns an EventEntry with a fresh ID and the current time.
func NewEventEntry(name string, properties map[string]string) EventEntry {
	return EventEntry{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Name:       name,
		Properties: properties,
	}
}

// NewExceptionEntry returns an ExceptionEntry with a fresh ID and the current time.
func NewExceptionEntry(className, message, stackTrace string) ExceptionEntry {
	return ExceptionEntry{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		ClassName:  className,
		Message:    message,
		StackTrace: stackTrace,
	}
}

// NewPerformanceMetricEntry returns a PerformanceMetricEntry with a fresh ID and the current time.
func NewPerformanceMetricEntry(name string, d time.Duration) PerformanceMetricEntry {
	return PerformanceMetricEntry{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Name:      name,
		Duration:  d,
	}
}
