package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// LogRecord represents a captured log record for testing
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// recordSink is shared by a handler and every handler derived from it.
type recordSink struct {
	mu      sync.Mutex
	records []LogRecord
}

// BufferedSlogHandler captures log records for testing
type BufferedSlogHandler struct {
	sink  *recordSink
	attrs []slog.Attr
	t     *testing.T
}

// NewBufferedSlogHandler creates a new buffered handler for testing
func NewBufferedSlogHandler(t *testing.T) *BufferedSlogHandler {
	return &BufferedSlogHandler{sink: &recordSink{}, t: t}
}

// NewTestLogger creates a logger with a buffered handler for testing
func NewTestLogger(t *testing.T) (*slog.Logger, *BufferedSlogHandler) {
	handler := NewBufferedSlogHandler(t)
	return slog.New(handler), handler
}

// Handle implements slog.Handler
func (h *BufferedSlogHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.sink.mu.Lock()
	h.sink.records = append(h.sink.records, LogRecord{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	h.sink.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// Enabled implements slog.Handler
func (h *BufferedSlogHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// WithAttrs implements slog.Handler
func (h *BufferedSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &BufferedSlogHandler{sink: h.sink, attrs: merged, t: h.t}
}

// WithGroup implements slog.Handler. Groups are flattened.
func (h *BufferedSlogHandler) WithGroup(_ string) slog.Handler {
	return h
}

// GetRecords returns a copy of all captured log records
func (h *BufferedSlogHandler) GetRecords() []LogRecord {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()

	records := make([]LogRecord, len(h.sink.records))
	copy(records, h.sink.records)
	return records
}

// GetRecordsByLevel returns log records filtered by level
func (h *BufferedSlogHandler) GetRecordsByLevel(level slog.Level) []LogRecord {
	var filtered []LogRecord
	for _, r := range h.GetRecords() {
		if r.Level == level {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// ContainsMessage checks if any log record contains the given message
func (h *BufferedSlogHandler) ContainsMessage(message string) bool {
	for _, r := range h.GetRecords() {
		if strings.Contains(r.Message, message) {
			return true
		}
	}
	return false
}

// ContainsAttr checks if any log record carries key=value
func (h *BufferedSlogHandler) ContainsAttr(key string, value any) bool {
	for _, r := range h.GetRecords() {
		if val, ok := r.Attrs[key]; ok && val == value {
			return true
		}
	}
	return false
}

// Clear removes all captured records
func (h *BufferedSlogHandler) Clear() {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	h.sink.records = h.sink.records[:0]
}

// Count returns the number of captured records
func (h *BufferedSlogHandler) Count() int {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	return len(h.sink.records)
}
