package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/m5node/internal/events"
	"github.com/smazurov/m5node/internal/logging"
)

// LogStreamInput lets reconnecting clients skip entries they already have.
type LogStreamInput struct {
	Since uint64 `query:"since" doc:"Only send entries with a sequence number greater than this"`
}

// LogEvent converts a buffered log entry to its SSE event.
func LogEvent(entry logging.LogEntry) events.LogEntryEvent {
	return events.LogEntryEvent{
		Seq:        entry.Seq,
		Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
		Level:      entry.Level,
		Module:     entry.Module,
		Message:    entry.Message,
		Attributes: entry.Attributes,
	}
}

// registerLogRoutes registers the log streaming SSE endpoint.
func (s *Server) registerLogRoutes() {
	if s.eventBus == nil {
		return
	}

	sse.Register(s.api, huma.Operation{
		OperationID: "logs-stream",
		Method:      http.MethodGet,
		Path:        "/api/logs/stream",
		Summary:     "Log stream",
		Description: "Replays buffered log entries newer than since, then follows new entries.",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"message": events.LogEntryEvent{},
	}, func(ctx context.Context, input *LogStreamInput, send sse.Sender) {
		// Subscribe before replaying so nothing logged in between is lost
		ch, unsubscribe := subscribe[events.LogEntryEvent](s.eventBus, 100)
		defer unsubscribe()

		lastSeq := input.Since
		if buffer := logging.GetBuffer(); buffer != nil {
			for _, entry := range buffer.ReadSince(lastSeq) {
				if err := send.Data(LogEvent(entry)); err != nil {
					return
				}
				lastSeq = entry.Seq
			}
		}

		relay(ctx, ch, send, func(e events.LogEntryEvent) bool {
			return e.Seq <= lastSeq
		})
	})
}
