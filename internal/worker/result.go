package worker

import "errors"

// ErrOperationPanic wraps a panic recovered from an upload operation.
var ErrOperationPanic = errors.New("worker: upload operation panicked")

// Outcome is the result of one upload run.
type Outcome int

const (
	// Success means every entry in scope was delivered.
	Success Outcome = iota + 1
	// Failure means the run stopped on an expected delivery error.
	Failure
	// Fault means the operation itself crashed; see Result.Cause.
	Fault
)

// String returns the lower-case outcome name.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Fault:
		return "fault"
	default:
		return "unknown"
	}
}

// Result is the value a Future resolves to.
type Result struct {
	Outcome Outcome
	// Cause is set only when Outcome is Fault.
	Cause error
}
