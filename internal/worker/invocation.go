// Package worker uploads locally buffered log entries to the logging backend.
//
// A scheduler hands the Worker an Invocation naming one category. The Worker
// routes it to an upload strategy, runs the strategy on its own goroutine and
// returns a Future the scheduler can wait on or attach callbacks to:
//
//   - exception and performance-metric entries are drained one by one, oldest
//     first, and each is removed from its store only after the backend
//     accepted it; the first failure stops the pass;
//   - events are handed to a bulk uploader as one all-or-nothing unit.
//
// The Worker only reports Success or Failure. Whether and when a failed run
// is retried is up to the scheduler.
package worker

// KeyCategory is the invocation key carrying the category selector.
const KeyCategory = "worker_case_key"

// Category selector values.
const (
	CategoryEvent             = "event_worker"
	CategoryException         = "exception_worker"
	CategoryPerformanceMetric = "performance_metrics_worker"
)

// Categories lists every recognized selector value.
var Categories = []string{CategoryEvent, CategoryException, CategoryPerformanceMetric}

// Invocation is the key-value input supplied by the scheduler for one run.
type Invocation map[string]string

// NewInvocation returns an Invocation selecting category.
func NewInvocation(category string) Invocation {
	return Invocation{KeyCategory: category}
}

// Category returns the category selector, or "" when absent.
func (inv Invocation) Category() string {
	return inv[KeyCategory]
}
