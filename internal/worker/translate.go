package worker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/plexsphere/logsync/internal/api"
	"github.com/plexsphere/logsync/internal/logstore"
)

// maxCauseDepth bounds the cause chain carried into a report.
const maxCauseDepth = 16

var (
	// ErrMissingClassName is returned for an exception entry without a class.
	ErrMissingClassName = errors.New("worker: exception entry has no class name")
	// ErrMissingMetricName is returned for a performance metric entry without a name.
	ErrMissingMetricName = errors.New("worker: performance metric entry has no name")
)

func exceptionReport(e logstore.ExceptionEntry) (api.ExceptionReport, error) {
	t, err := throwable(&e, 0)
	if err != nil {
		return api.ExceptionReport{}, err
	}
	return api.ExceptionReport{
		ID:         e.ID,
		Timestamp:  e.CreatedAt,
		Exception:  *t,
		Thread:     e.Thread,
		Attributes: e.Attributes,
	}, nil
}

func throwable(e *logstore.ExceptionEntry, depth int) (*api.Throwable, error) {
	if e.ClassName == "" {
		return nil, ErrMissingClassName
	}
	frames, err := parseStackTrace(e.StackTrace)
	if err != nil {
		return nil, fmt.Errorf("worker: %s: %w", e.ClassName, err)
	}
	t := &api.Throwable{
		Class:   e.ClassName,
		Message: e.Message,
		Frames:  frames,
	}
	if e.Cause != nil && depth < maxCauseDepth {
		cause, err := throwable(e.Cause, depth+1)
		if err != nil {
			return nil, fmt.Errorf("cause: %w", err)
		}
		t.Cause = cause
	}
	return t, nil
}

// parseStackTrace splits a stored trace into frames. Each non-blank line is
// "function(location)" or a bare function, optionally prefixed with "at ".
// Text after the closing parenthesis, such as a "~[app.jar:?]" packaging
// hint, is ignored. The location is split into file and line at its last
// colon; a location without a numeric line is kept whole as the file.
func parseStackTrace(trace string) ([]api.StackFrame, error) {
	var frames []api.StackFrame
	for n, line := range strings.Split(trace, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "at ")

		if strings.IndexByte(line, '(') < 0 {
			frames = append(frames, api.StackFrame{Function: line})
			continue
		}
		closing := strings.LastIndexByte(line, ')')
		if closing < 0 {
			return nil, fmt.Errorf("stack trace line %d: malformed frame %q", n+1, line)
		}
		if rest := line[closing+1:]; rest != "" && rest[0] != ' ' {
			// "pkg.(*T).Method" without a location.
			frames = append(frames, api.StackFrame{Function: line})
			continue
		}
		open := strings.LastIndexByte(line[:closing], '(')
		if open <= 0 {
			return nil, fmt.Errorf("stack trace line %d: malformed frame %q", n+1, line)
		}

		frame := api.StackFrame{Function: line[:open], File: line[open+1 : closing]}
		if i := strings.LastIndexByte(frame.File, ':'); i >= 0 {
			if num, err := strconv.Atoi(frame.File[i+1:]); err == nil {
				frame.Line = num
				frame.File = frame.File[:i]
			}
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

func performanceMetricReport(e logstore.PerformanceMetricEntry) (api.PerformanceMetricReport, error) {
	if e.Name == "" {
		return api.PerformanceMetricReport{}, ErrMissingMetricName
	}
	return api.PerformanceMetricReport{
		ID:         e.ID,
		Timestamp:  e.CreatedAt,
		Name:       e.Name,
		DurationMs: float64(e.Duration) / 1e6,
		Attributes: e.Attributes,
	}, nil
}
