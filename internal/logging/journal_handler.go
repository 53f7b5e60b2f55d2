package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
)

// SyslogIdentifier tags every journal entry written by this process.
const SyslogIdentifier = "m5node"

// JournalHandler sends records to the systemd journal as structured fields.
// Attribute keys become upper-case field names, groups joined with "_".
type JournalHandler struct {
	level slog.Leveler
	scope scope
}

// NewJournalHandler creates a journal handler gated by level.
func NewJournalHandler(level slog.Leveler) *JournalHandler {
	return &JournalHandler{level: level}
}

func (h *JournalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *JournalHandler) Handle(_ context.Context, r slog.Record) error {
	priority := journalPriority(r.Level)
	fields := h.fields(r)
	fields["PRIORITY"] = strconv.Itoa(int(priority))
	fields["SYSLOG_IDENTIFIER"] = SyslogIdentifier

	if err := journal.Send(r.Message, priority, fields); err != nil {
		return fmt.Errorf("journal send: %w", err)
	}
	return nil
}

// fields flattens the attributes of r into journal fields.
func (h *JournalHandler) fields(r slog.Record) map[string]string {
	fields := make(map[string]string)
	h.scope.each(r, func(path []string, v slog.Value) {
		key := strings.ToUpper(strings.Join(path, "_"))
		switch v.Kind() {
		case slog.KindFloat64:
			fields[key] = strconv.FormatFloat(v.Float64(), 'f', -1, 64)
		case slog.KindString:
			fields[key] = v.String()
		default:
			fields[key] = fmt.Sprint(plainValue(v))
		}
	})
	return fields
}

func (h *JournalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &JournalHandler{level: h.level, scope: h.scope.withAttrs(attrs)}
}

func (h *JournalHandler) WithGroup(name string) slog.Handler {
	return &JournalHandler{level: h.level, scope: h.scope.withGroup(name)}
}

func journalPriority(level slog.Level) journal.Priority {
	switch {
	case level >= slog.LevelError:
		return journal.PriErr
	case level >= slog.LevelWarn:
		return journal.PriWarning
	case level >= slog.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

// IsJournalAvailable reports whether the journal socket is reachable.
func IsJournalAvailable() bool {
	return journal.Enabled()
}
