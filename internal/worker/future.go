package worker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Future is a one-shot slot holding the Result of one upload run.
type Future struct {
	done   chan struct{}
	logger *slog.Logger

	mu        sync.Mutex
	resolved  bool
	result    Result
	callbacks []func(Result)
}

func newFuture(logger *slog.Logger) *Future {
	return &Future{done: make(chan struct{}), logger: logger}
}

func resolvedFuture(r Result, logger *slog.Logger) *Future {
	f := newFuture(logger)
	f.resolve(r)
	return f
}

// resolve stores r and runs pending callbacks. Only the first call has any
// effect; it reports whether this call resolved the future.
func (f *Future) resolve(r Result) bool {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return false
	}
	f.resolved = true
	f.result = r
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, fn := range callbacks {
		f.call(fn, r)
	}
	return true
}

// call runs one callback. A panicking callback is logged and does not stop
// the remaining callbacks.
func (f *Future) call(fn func(Result), r Result) {
	defer func() {
		if v := recover(); v != nil {
			f.logger.Error("result callback panicked",
				"error", fmt.Sprint(v), "stack", string(debug.Stack()))
		}
	}()
	fn(r)
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result returns the result without blocking. ok is false while the run is
// still in progress.
func (f *Future) Result() (r Result, ok bool) {
	select {
	case <-f.done:
		return f.result, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the result is available or ctx is done.
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// OnComplete registers fn to run with the result. If the future is already
// resolved fn runs immediately on the caller's goroutine; otherwise it runs
// on the goroutine that resolves the future. A panic in fn is recovered and
// logged.
func (f *Future) OnComplete(fn func(Result)) {
	f.mu.Lock()
	if f.resolved {
		r := f.result
		f.mu.Unlock()
		f.call(fn, r)
		return
	}
	f.callbacks = append(f.callbacks, fn)
	f.mu.Unlock()
}
