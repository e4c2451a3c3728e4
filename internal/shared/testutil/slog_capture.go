// Package testutil provides shared test helpers, including an slog handler
// that captures records so tests can assert on degradation warnings.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// LogRecord represents a captured log record for testing
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// CaptureHandler captures log records for testing
type CaptureHandler struct {
	mu      sync.Mutex
	records []LogRecord
}

// NewCaptureHandler creates a new capturing handler for tests
func NewCaptureHandler() *CaptureHandler {
	return &CaptureHandler{}
}

// Logger returns an slog.Logger backed by the capture handler
func (h *CaptureHandler) Logger() *slog.Logger {
	return slog.New(h)
}

// Handle implements slog.Handler
func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	attrs := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.records = append(h.records, LogRecord{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	return nil
}

// Enabled implements slog.Handler; all levels are captured in tests
func (h *CaptureHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// WithAttrs implements slog.Handler
func (h *CaptureHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

// WithGroup implements slog.Handler
func (h *CaptureHandler) WithGroup(_ string) slog.Handler {
	return h
}

// Records returns a copy of all captured log records
func (h *CaptureHandler) Records() []LogRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	records := make([]LogRecord, len(h.records))
	copy(records, h.records)
	return records
}

// ContainsMessage checks if any captured record contains the given message
func (h *CaptureHandler) ContainsMessage(message string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.records {
		if strings.Contains(r.Message, message) {
			return true
		}
	}
	return false
}
