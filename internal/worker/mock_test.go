package worker

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/plexsphere/logsync/internal/api"
	"github.com/plexsphere/logsync/internal/logstore"
)

// mockStore is an ordered store that counts every call.
type mockStore[E any] struct {
	mu          sync.Mutex
	entries     []E
	listCalls   int
	removeCalls int
	listErr     error
	removeErr   error
}

func newMockStore[E any](entries ...E) *mockStore[E] {
	return &mockStore[E]{entries: entries}
}

func (m *mockStore[E]) ListPending(_ context.Context) ([]E, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]E, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *mockStore[E]) RemoveOldest(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeCalls++
	if m.removeErr != nil {
		return m.removeErr
	}
	if len(m.entries) == 0 {
		return logstore.ErrEmpty
	}
	m.entries = m.entries[1:]
	return nil
}

func (m *mockStore[E]) calls() (list, remove int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls, m.removeCalls
}

func (m *mockStore[E]) pending() []E {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]E, len(m.entries))
	copy(out, m.entries)
	return out
}

// mockSink records forwarded reports and fails or panics on configured IDs.
type mockSink struct {
	mu         sync.Mutex
	exceptions []string
	metrics    []string
	failOn     map[string]error
	panicOn    map[string]any

	// block, when set, makes every call wait until it is closed or ctx is done.
	block chan struct{}
}

func (m *mockSink) handle(ctx context.Context, id string, sent *[]string) error {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.panicOn[id]; ok {
		panic(v)
	}
	if err, ok := m.failOn[id]; ok {
		return err
	}
	*sent = append(*sent, id)
	return nil
}

func (m *mockSink) LogException(ctx context.Context, r api.ExceptionReport) error {
	return m.handle(ctx, r.ID, &m.exceptions)
}

func (m *mockSink) LogPerformanceMetric(ctx context.Context, r api.PerformanceMetricReport) error {
	return m.handle(ctx, r.ID, &m.metrics)
}

func (m *mockSink) sentExceptions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.exceptions...)
}

func (m *mockSink) sentMetrics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.metrics...)
}

func (m *mockSink) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.exceptions) + len(m.metrics)
}

type mockBulk struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *mockBulk) UploadAllAndWait(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.err
}

func (m *mockBulk) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockStatus struct {
	mu    sync.Mutex
	calls int
}

func (m *mockStatus) ReportUploadError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
}

func (m *mockStatus) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type diagRecord struct {
	Tag string
	Msg string
	Err error
}

type mockDiag struct {
	mu      sync.Mutex
	records []diagRecord
}

func (m *mockDiag) Error(tag, msg string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, diagRecord{Tag: tag, Msg: msg, Err: err})
}

func (m *mockDiag) all() []diagRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]diagRecord(nil), m.records...)
}

// harness wires a Worker to fresh mocks.
type harness struct {
	exceptions *mockStore[logstore.ExceptionEntry]
	metrics    *mockStore[logstore.PerformanceMetricEntry]
	sink       *mockSink
	bulk       *mockBulk
	status     *mockStatus
	diag       *mockDiag
	worker     *Worker
}

func newHarness(cfg Config) *harness {
	h := &harness{
		exceptions: newMockStore[logstore.ExceptionEntry](),
		metrics:    newMockStore[logstore.PerformanceMetricEntry](),
		sink:       &mockSink{},
		bulk:       &mockBulk{},
		status:     &mockStatus{},
		diag:       &mockDiag{},
	}
	h.worker = New(cfg, Deps{
		Exceptions:         h.exceptions,
		PerformanceMetrics: h.metrics,
		Sink:               h.sink,
		Events:             h.bulk,
		SyncStatus:         h.status,
		Diagnostics:        h.diag,
	}, discardLogger())
	return h
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func exceptionEntries(ids ...string) []logstore.ExceptionEntry {
	out := make([]logstore.ExceptionEntry, len(ids))
	for i, id := range ids {
		out[i] = logstore.ExceptionEntry{
			ID:         id,
			ClassName:  "java.lang.RuntimeException",
			Message:    "failure " + id,
			StackTrace: "at com.example.App.main(App.kt:10)",
		}
	}
	return out
}

func metricEntries(ids ...string) []logstore.PerformanceMetricEntry {
	out := make([]logstore.PerformanceMetricEntry, len(ids))
	for i, id := range ids {
		out[i] = logstore.PerformanceMetricEntry{ID: id, Name: "screen_load", Duration: 42}
	}
	return out
}

func exceptionIDs(entries []logstore.ExceptionEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func metricIDs(entries []logstore.PerformanceMetricEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
