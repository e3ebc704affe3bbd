package diag

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/plexsphere/logsync/internal/api"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log record %q: %v", buf.String(), err)
	}
	return rec
}

func TestSink_Error(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		level     string
		transient bool
	}{
		{"server error", fmt.Errorf("forward: %w", api.ErrServer), "WARN", true},
		{"network error", errors.New("connection refused"), "WARN", true},
		{"rejected", fmt.Errorf("forward: %w", api.ErrBadRequest), "ERROR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := New(slog.New(slog.NewJSONHandler(&buf, nil)))

			s.Error("exception_worker", "log upload failed", tt.err)

			rec := decode(t, &buf)
			if rec["level"] != tt.level {
				t.Errorf("level = %v, want %s", rec["level"], tt.level)
			}
			if rec["msg"] != "log upload failed" || rec["tag"] != "exception_worker" {
				t.Errorf("record = %v", rec)
			}
			if rec["component"] != "diag" {
				t.Errorf("component = %v", rec["component"])
			}
			if rec["transient"] != tt.transient {
				t.Errorf("transient = %v, want %v", rec["transient"], tt.transient)
			}
			if rec["error"] != tt.err.Error() {
				t.Errorf("error = %v", rec["error"])
			}
		})
	}
}
