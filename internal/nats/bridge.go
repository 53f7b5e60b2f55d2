package nats

import (
	"log/slog"
	"sync"

	"github.com/smazurov/m5node/internal/events"
)

// Bridge forwards command executed events from the event bus to NATS.
type Bridge struct {
	client      *Client
	node        string
	eventBus    *events.Bus
	unsubscribe func()
	logger      *slog.Logger
	mu          sync.Mutex
}

// NewBridge creates a bus-to-NATS bridge for node.
func NewBridge(client *Client, node string, eventBus *events.Bus, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	if node == "" {
		node = DefaultNode
	}
	return &Bridge{
		client:   client,
		node:     node,
		eventBus: eventBus,
		logger:   logger.With("component", "nats-bridge"),
	}
}

// Start subscribes to the event bus. Events are dropped while NATS is down.
func (b *Bridge) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.unsubscribe != nil {
		return
	}

	subject := SubjectCommandEvents(b.node)
	b.unsubscribe = b.eventBus.OnCommand(func(e events.CommandExecutedEvent) {
		data, err := NewCommandEventMessage(b.node, e).Marshal()
		if err != nil {
			b.logger.Warn("Failed to marshal command event", "error", err)
			return
		}
		b.client.Publish(subject, data)
	})
	b.logger.Info("NATS bridge publishing command events", "subject", subject)
}

// Stop unsubscribes from the event bus.
func (b *Bridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	b.logger.Info("NATS bridge stopped")
}
