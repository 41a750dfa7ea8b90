// Package testutil provides test helpers shared across packages,
// primarily a capturing slog handler for asserting on structured log
// output.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogRecord is one captured log entry.
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// CaptureHandler is a slog.Handler that buffers records for assertions.
type CaptureHandler struct {
	mu      sync.Mutex
	records []LogRecord
}

// NewTestLogger returns a logger whose output can be inspected through
// the returned handler.
func NewTestLogger() (*slog.Logger, *CaptureHandler) {
	handler := &CaptureHandler{}
	return slog.New(handler), handler
}

// Handle implements slog.Handler.
func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	h.records = append(h.records, LogRecord{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	h.mu.Unlock()
	return nil
}

// Enabled implements slog.Handler; tests capture every level.
func (h *CaptureHandler) Enabled(context.Context, slog.Level) bool { return true }

// WithAttrs implements slog.Handler. Records still land in the shared
// buffer; pre-bound attrs are not folded in, which is fine for message
// and per-call attr assertions.
func (h *CaptureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

// WithGroup implements slog.Handler.
func (h *CaptureHandler) WithGroup(string) slog.Handler { return h }

// Records returns a copy of the captured records.
func (h *CaptureHandler) Records() []LogRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]LogRecord, len(h.records))
	copy(out, h.records)
	return out
}

// ContainsMessage reports whether any record at the level contains the
// message substring.
func (h *CaptureHandler) ContainsMessage(level slog.Level, message string) bool {
	for _, r := range h.Records() {
		if r.Level == level && strings.Contains(r.Message, message) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any record carries the attribute.
func (h *CaptureHandler) ContainsAttr(key string, value any) bool {
	for _, r := range h.Records() {
		if v, ok := r.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

// AssertLogged fails the test when no record at the level contains the
// message substring.
func AssertLogged(t *testing.T, handler *CaptureHandler, level slog.Level, message string) {
	t.Helper()
	if handler.ContainsMessage(level, message) {
		return
	}
	t.Errorf("expected %s log containing %q", level, message)
	for _, r := range handler.Records() {
		if r.Level == level {
			t.Logf("  captured: %s", r.Message)
		}
	}
}
