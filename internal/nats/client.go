package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/smazurov/m5node/internal/dispatcher"
)

// ErrNotConnected is returned when an operation needs a live connection.
var ErrNotConnected = errors.New("nats: not connected")

// Client is the node's NATS connection. Publishing is a no-op while
// disconnected so the node keeps serving HTTP without a broker.
type Client struct {
	url       string
	name      string
	conn      *nats.Conn
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool
}

// NewClient creates a client for url; name identifies the connection on the server.
func NewClient(url, name string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:    url,
		name:   name,
		logger: logger.With("component", "nats-client"),
	}
}

// Connect establishes a connection to the NATS server. After a successful
// connect the client reconnects forever; subscriptions survive reconnects.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	opts := []nats.Option{
		nats.Name(c.name),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			c.setConnected(false)
			if err != nil {
				c.logger.Warn("NATS disconnected", "error", err)
			} else {
				c.logger.Debug("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			c.setConnected(true)
			c.logger.Info("NATS reconnected")
		}),
		nats.ConnectHandler(func(_ *nats.Conn) {
			c.logger.Debug("NATS connected")
		}),
	}

	conn, err := nats.Connect(c.url, opts...)
	if err != nil {
		c.logger.Warn("Failed to connect to NATS, running without it", "url", c.url, "error", err)
		return err
	}

	c.conn = conn
	c.connected = true
	c.logger.Info("Connected to NATS", "url", c.url)
	return nil
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

// Conn returns the underlying connection, or nil before Connect succeeds.
func (c *Client) Conn() *nats.Conn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

// Publish sends data on subject. No-op if not connected.
func (c *Client) Publish(subject string, data []byte) {
	c.mu.RLock()
	conn := c.conn
	connected := c.connected
	c.mu.RUnlock()

	if conn == nil || !connected {
		return
	}

	if err := conn.Publish(subject, data); err != nil {
		c.logger.Warn("Failed to publish", "subject", subject, "error", err)
	}
}

// IsConnected returns true if connected to NATS.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected && c.conn != nil
}

// Close drains pending replies and closes the connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		if err := c.conn.Drain(); err != nil {
			c.conn.Close()
		}
		c.conn = nil
	}
	c.connected = false
	c.logger.Debug("NATS client closed")
}

// Requester sends single command requests to a node.
type Requester struct {
	conn *nats.Conn
	node string
}

// NewRequester connects to url and targets node.
func NewRequester(url, node string) (*Requester, error) {
	if node == "" {
		node = DefaultNode
	}
	conn, err := nats.Connect(url,
		nats.Name("m5node-call"),
		nats.MaxReconnects(0),
	)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", url, err)
	}
	return &Requester{conn: conn, node: node}, nil
}

// Call sends payload to operation and waits for the reply until ctx is done.
func (r *Requester) Call(ctx context.Context, operation string, payload []byte) (dispatcher.Response, error) {
	if !slices.Contains(dispatcher.Operations(), operation) {
		return dispatcher.Response{}, fmt.Errorf("unknown operation %q", operation)
	}
	if r.conn == nil {
		return dispatcher.Response{}, ErrNotConnected
	}

	msg, err := r.conn.RequestWithContext(ctx, SubjectCommand(r.node, operation), payload)
	if err != nil {
		if errors.Is(err, nats.ErrNoResponders) {
			return dispatcher.Response{}, fmt.Errorf("no node %q is serving %s: %w", r.node, operation, err)
		}
		return dispatcher.Response{}, fmt.Errorf("request %s: %w", operation, err)
	}
	return UnmarshalResponse(msg.Data)
}

// Close closes the requester connection.
func (r *Requester) Close() {
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
}
