package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/plexsphere/logsync/internal/api"
	"github.com/plexsphere/logsync/internal/logstore"
	"github.com/plexsphere/logsync/internal/worker"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type nopSink struct{}

func (nopSink) LogException(context.Context, api.ExceptionReport) error { return nil }
func (nopSink) LogPerformanceMetric(context.Context, api.PerformanceMetricReport) error {
	return nil
}

type mockBulk struct {
	err   error
	panic bool
}

func (m *mockBulk) UploadAllAndWait(ctx context.Context) error {
	if m.panic {
		panic(errors.New("bulk uploader crashed"))
	}
	return m.err
}

type nopStatus struct{}

func (nopStatus) ReportUploadError() {}

type nopDiag struct{}

func (nopDiag) Error(string, string, error) {}

// countingStarter wraps a Worker and counts Start calls per category.
type countingStarter struct {
	w *worker.Worker

	mu     sync.Mutex
	starts map[string]int
}

func (s *countingStarter) Start(ctx context.Context, inv worker.Invocation) *worker.Future {
	s.mu.Lock()
	s.starts[inv.Category()]++
	s.mu.Unlock()
	return s.w.Start(ctx, inv)
}

func (s *countingStarter) count(category string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts[category]
}

func newStarter(bulk *mockBulk) *countingStarter {
	w := worker.New(worker.Config{}, worker.Deps{
		Exceptions:         logstore.NewMemoryStore[logstore.ExceptionEntry](),
		PerformanceMetrics: logstore.NewMemoryStore[logstore.PerformanceMetricEntry](),
		Sink:               nopSink{},
		Events:             bulk,
		SyncStatus:         nopStatus{},
		Diagnostics:        nopDiag{},
	}, testLogger())
	return &countingStarter{w: w, starts: make(map[string]int)}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type resultLog struct {
	mu      sync.Mutex
	results map[string][]worker.Result
}

func (l *resultLog) record(category string, res worker.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results[category] = append(l.results[category], res)
}

func (l *resultLog) get(category string) []worker.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]worker.Result(nil), l.results[category]...)
}

// ---------------------------------------------------------------------------
// Config tests
// ---------------------------------------------------------------------------

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{Exception: time.Minute}
	cfg.ApplyDefaults()

	if cfg.Event != DefaultInterval || cfg.PerformanceMetric != DefaultInterval {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Exception != time.Minute {
		t.Errorf("Exception = %v, want 1m", cfg.Exception)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Event: 10 * time.Millisecond, Exception: time.Minute, PerformanceMetric: time.Minute}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for sub-second interval")
	}
}

// ---------------------------------------------------------------------------
// Host tests
// ---------------------------------------------------------------------------

func TestHost_RunsEveryCategoryImmediately(t *testing.T) {
	starter := newStarter(&mockBulk{})
	h := NewHost(Config{Event: time.Hour, Exception: time.Hour, PerformanceMetric: time.Hour}, starter, testLogger())
	log := &resultLog{results: make(map[string][]worker.Result)}
	h.SetOnResult(log.record)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		if len(log.get(worker.CategoryEvent)) == 1 &&
			len(log.get(worker.CategoryException)) == 1 &&
			len(log.get(worker.CategoryPerformanceMetric)) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("not every category ran")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() = %v, want nil", err)
	}

	for _, c := range worker.Categories {
		res := log.get(c)
		if len(res) != 1 || res[0].Outcome != worker.Success {
			t.Errorf("%s results = %+v, want one success", c, res)
		}
	}
}

func TestHost_RepeatsOnInterval(t *testing.T) {
	starter := newStarter(&mockBulk{err: errors.New("offline")})
	h := NewHost(Config{
		Event:             20 * time.Millisecond,
		Exception:         time.Hour,
		PerformanceMetric: time.Hour,
	}, starter, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if err := h.Run(ctx); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	if n := starter.count(worker.CategoryEvent); n < 3 {
		t.Errorf("event runs = %d, want >= 3", n)
	}
	if n := starter.count(worker.CategoryException); n != 1 {
		t.Errorf("exception runs = %d, want 1", n)
	}
}

func TestHost_FaultReported(t *testing.T) {
	starter := newStarter(&mockBulk{panic: true})
	h := NewHost(Config{Event: time.Hour, Exception: time.Hour, PerformanceMetric: time.Hour}, starter, testLogger())
	got := make(chan worker.Result, 1)
	h.SetOnResult(func(category string, res worker.Result) {
		if category == worker.CategoryEvent {
			got <- res
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	select {
	case res := <-got:
		if res.Outcome != worker.Fault || !errors.Is(res.Cause, worker.ErrOperationPanic) {
			t.Errorf("result = %+v, want fault", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event result")
	}

	cancel()
	<-done
}

func TestHost_StopsOnCancel(t *testing.T) {
	starter := newStarter(&mockBulk{})
	h := NewHost(Config{}, starter, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	for _, c := range worker.Categories {
		if n := starter.count(c); n != 0 {
			t.Errorf("%s started %d times on cancelled context", c, n)
		}
	}
}
