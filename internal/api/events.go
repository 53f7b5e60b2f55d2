package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/m5node/internal/events"
)

// subscribe feeds events of type T into a buffered channel. Slow SSE clients
// lose events rather than stall the dispatcher.
func subscribe[T events.Event](bus *events.Bus, size int) (<-chan T, func()) {
	ch := make(chan T, size)
	return ch, events.Feed(bus, ch)
}

// relay writes events to the client until it disconnects. Events matching
// skip are not sent.
func relay[T any](ctx context.Context, ch <-chan T, send sse.Sender, skip func(T) bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-ch:
			if skip != nil && skip(e) {
				continue
			}
			if err := send.Data(e); err != nil {
				return
			}
		}
	}
}

func (s *Server) registerSSERoutes() {
	if s.eventBus == nil {
		return
	}

	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Command events",
		Description: "One event per dispatched board command with its outcome and duration",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"command": events.CommandExecutedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		ch, unsubscribe := subscribe[events.CommandExecutedEvent](s.eventBus, 32)
		defer unsubscribe()
		relay(ctx, ch, send, nil)
	})
}
