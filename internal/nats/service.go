package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/smazurov/m5node/internal/dispatcher"
)

type handlerFunc func(ctx context.Context, data []byte) (dispatcher.Response, error)

// decode adapts a typed dispatcher method to a raw payload handler.
func decode[T any](fn func(context.Context, T) dispatcher.Response) handlerFunc {
	return func(ctx context.Context, data []byte) (dispatcher.Response, error) {
		var req T
		if len(data) > 0 {
			if err := json.Unmarshal(data, &req); err != nil {
				return dispatcher.Response{Result: false}, err
			}
		}
		return fn(ctx, req), nil
	}
}

// trigger adapts a parameterless dispatcher method; the payload is ignored.
func trigger(fn func(context.Context) dispatcher.Response) handlerFunc {
	return func(ctx context.Context, _ []byte) (dispatcher.Response, error) {
		return fn(ctx), nil
	}
}

func commandHandlers(d *dispatcher.Dispatcher) map[string]handlerFunc {
	return map[string]handlerFunc{
		dispatcher.OpSetDisplayColor:    decode(d.SetDisplayColor),
		dispatcher.OpSetDisplayColorRGB: decode(d.SetDisplayColorRGB),
		dispatcher.OpSetDisplayText:     decode(d.SetDisplayText),
		dispatcher.OpSetDisplayImage:    decode(d.SetDisplayImage),
		dispatcher.OpResetM5:            trigger(d.ResetM5),
		dispatcher.OpSetDout:            decode(d.SetDout),
		dispatcher.OpSetPwmout:          decode(d.SetPwmout),
		dispatcher.OpSetAllout:          decode(d.SetAllout),
		dispatcher.OpResetAllout:        trigger(d.ResetAllout),
	}
}

// Service answers command requests for one node.
type Service struct {
	client   *Client
	node     string
	handlers map[string]handlerFunc
	subs     []*nats.Subscription
	logger   *slog.Logger
	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewService creates a command service for node backed by d.
func NewService(client *Client, node string, d *dispatcher.Dispatcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if node == "" {
		node = DefaultNode
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		client:   client,
		node:     node,
		handlers: commandHandlers(d),
		logger:   logger.With("component", "nats-service", "node", node),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to every operation subject of the node.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn := s.client.Conn()
	if conn == nil {
		return ErrNotConnected
	}

	for _, op := range dispatcher.Operations() {
		handler := s.handlers[op]
		subject := SubjectCommand(s.node, op)
		sub, err := conn.QueueSubscribe(subject, QueueGroup(s.node), func(msg *nats.Msg) {
			s.handle(op, handler, msg)
		})
		if err != nil {
			s.unsubscribeLocked()
			return fmt.Errorf("subscribe %s: %w", subject, err)
		}
		s.subs = append(s.subs, sub)
	}

	s.logger.Info("NATS command service subscribed", "subjects", SubjectCommand(s.node, "*"))
	return nil
}

func (s *Service) handle(op string, handler handlerFunc, msg *nats.Msg) {
	resp, err := handler(s.ctx, msg.Data)
	if err != nil {
		s.logger.Warn("Malformed command payload", "operation", op, "error", err)
	}

	if msg.Reply == "" {
		return
	}
	if respErr := msg.Respond(MarshalResponse(resp)); respErr != nil {
		s.logger.Warn("Failed to send reply", "operation", op, "error", respErr)
	}
}

func (s *Service) unsubscribeLocked() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = nil
}

// Stop unsubscribes and cancels in-flight commands.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unsubscribeLocked()
	s.cancel()
	s.logger.Info("NATS command service stopped")
}
