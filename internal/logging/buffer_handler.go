package logging

import (
	"context"
	"log/slog"
	"strings"
)

// LogCallback is called when a new log entry is written.
// Used to publish log events without creating import cycles.
type LogCallback func(entry LogEntry)

// BufferHandler writes records to the package ring buffer and hands each
// stored entry to the LogCallback. Both are looked up per record, so handlers
// created before Initialize start buffering once it has run.
type BufferHandler struct {
	level slog.Leveler
	scope scope
}

// NewBufferHandler creates a handler gated by level.
func NewBufferHandler(level slog.Leveler) *BufferHandler {
	return &BufferHandler{level: level}
}

func (h *BufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle stores r. A top-level "module" attribute becomes the entry's
// Module; group members get dotted keys.
func (h *BufferHandler) Handle(_ context.Context, r slog.Record) error {
	mutex.RLock()
	buffer, callback := logBuffer, logCallback
	mutex.RUnlock()

	if buffer == nil {
		return nil
	}

	entry := LogEntry{
		Timestamp:  r.Time,
		Level:      levelName(r.Level),
		Module:     "app",
		Message:    r.Message,
		Attributes: make(map[string]any),
	}
	h.scope.each(r, func(path []string, v slog.Value) {
		if len(path) == 1 && path[0] == "module" {
			entry.Module = v.String()
			return
		}
		entry.Attributes[strings.Join(path, ".")] = plainValue(v)
	})

	entry.Seq = buffer.Write(entry)
	if callback != nil {
		callback(entry)
	}
	return nil
}

func (h *BufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &BufferHandler{level: h.level, scope: h.scope.withAttrs(attrs)}
}

func (h *BufferHandler) WithGroup(name string) slog.Handler {
	return &BufferHandler{level: h.level, scope: h.scope.withGroup(name)}
}
