// Package logging provides leveled logging and step tracing for alignleap.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A TraceLogger for structured JSONL step traces (<dir>/trace.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nvandessel/alignleap/internal/dynamics"
)

// LevelTrace is a custom slog level below Debug for per-step logging.
const LevelTrace = slog.LevelDebug - 4

// TraceFile is the name of the JSONL trace inside the trace directory.
const TraceFile = "trace.jsonl"

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Label the custom trace level
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// TraceEntry is one line of the step trace. Telemetry fields are inlined.
type TraceEntry struct {
	RunID    string  `json:"run_id"`
	Step     int     `json:"step"`
	Pressure float64 `json:"pressure"`
	dynamics.Telemetry
	Time string `json:"time"`
}

// TraceLogger writes one JSONL line per simulation step.
// It is safe for concurrent use. A nil TraceLogger is safe to use;
// all methods are no-ops on nil receiver.
type TraceLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewTraceLogger creates a trace logger writing to dir/trace.jsonl.
// An empty dir returns nil, so no file is created.
// Returns nil if the file cannot be opened. All methods are nil-safe.
func NewTraceLogger(dir string) *TraceLogger {
	if dir == "" {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, TraceFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &TraceLogger{file: f}
}

// Log writes one step as a single JSONL line. The "time" field is set
// automatically. Safe to call on nil receiver.
func (tl *TraceLogger) Log(runID string, step int, pressure float64, tel dynamics.Telemetry) {
	if tl == nil {
		return
	}

	entry := TraceEntry{
		RunID:     runID,
		Step:      step,
		Pressure:  pressure,
		Telemetry: tel,
		Time:      time.Now().UTC().Format(time.RFC3339Nano),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	tl.mu.Lock()
	defer tl.mu.Unlock()
	if tl.file == nil {
		return
	}
	_, _ = tl.file.Write(data)
}

// Close closes the underlying file. Safe to call on nil receiver.
func (tl *TraceLogger) Close() {
	if tl == nil {
		return
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()
	if tl.file == nil {
		return
	}

	tl.file.Close()
	tl.file = nil
}
