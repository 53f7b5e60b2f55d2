package nats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// ServerOptions configures the embedded NATS server. Zero fields take the
// values of DefaultServerOptions.
type ServerOptions struct {
	Host         string
	Port         int
	Name         string
	ReadyTimeout time.Duration
	Logger       *slog.Logger
}

// DefaultServerOptions listens on loopback only; remote nodes should run a
// standalone server.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{
		Host:         "127.0.0.1",
		Port:         4222,
		Name:         "m5node",
		ReadyTimeout: 5 * time.Second,
	}
}

// Server runs nats-server in-process so a single node needs no broker.
type Server struct {
	opts   ServerOptions
	ns     *server.Server
	logger *slog.Logger
}

// NewServer creates an embedded server. Nothing listens until Start.
func NewServer(opts ServerOptions) *Server {
	def := DefaultServerOptions()
	if opts.Host == "" {
		opts.Host = def.Host
	}
	if opts.Port == 0 {
		opts.Port = def.Port
	}
	if opts.Name == "" {
		opts.Name = def.Name
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = def.ReadyTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{opts: opts, logger: logger.With("component", "nats-server")}
}

// Start launches the server and blocks until it accepts connections.
func (s *Server) Start() error {
	ns, err := server.NewServer(&server.Options{
		Host:       s.opts.Host,
		Port:       s.opts.Port,
		ServerName: s.opts.Name,
		NoSigs:     true,
		// Text and image paths are the largest payloads
		MaxPayload: 64 * 1024,
	})
	if err != nil {
		return fmt.Errorf("failed to create NATS server: %w", err)
	}

	debug := s.logger.Enabled(context.Background(), slog.LevelDebug)
	ns.SetLoggerV2(serverLog{s.logger}, debug, false, false)

	go ns.Start()
	if !ns.ReadyForConnections(s.opts.ReadyTimeout) {
		ns.Shutdown()
		return fmt.Errorf("NATS server not ready after %s", s.opts.ReadyTimeout)
	}

	s.ns = ns
	s.logger.Info("NATS server started", "url", ns.ClientURL())
	return nil
}

// Stop shuts the server down and waits for it to exit. Safe to call twice.
func (s *Server) Stop() {
	if s.ns == nil {
		return
	}
	s.logger.Info("Stopping NATS server")
	s.ns.Shutdown()
	s.ns.WaitForShutdown()
	s.ns = nil
}

// ClientURL returns the URL clients should connect to.
func (s *Server) ClientURL() string {
	if s.ns != nil {
		return s.ns.ClientURL()
	}
	return fmt.Sprintf("nats://%s:%d", s.opts.Host, s.opts.Port)
}

// IsRunning reports whether the server is accepting connections.
func (s *Server) IsRunning() bool {
	return s.ns != nil && s.ns.Running()
}

// NumClients returns the number of connected clients.
func (s *Server) NumClients() int {
	if s.ns == nil {
		return 0
	}
	return s.ns.NumClients()
}

// serverLog adapts slog to the nats-server logger interface.
type serverLog struct {
	logger *slog.Logger
}

func (l serverLog) Noticef(format string, v ...any) { l.logger.Info(fmt.Sprintf(format, v...)) }
func (l serverLog) Warnf(format string, v ...any)   { l.logger.Warn(fmt.Sprintf(format, v...)) }
func (l serverLog) Errorf(format string, v ...any)  { l.logger.Error(fmt.Sprintf(format, v...)) }
func (l serverLog) Fatalf(format string, v ...any)  { l.logger.Error(fmt.Sprintf(format, v...)) }
func (l serverLog) Debugf(format string, v ...any)  { l.logger.Debug(fmt.Sprintf(format, v...)) }
func (l serverLog) Tracef(format string, v ...any)  { l.logger.Debug(fmt.Sprintf(format, v...)) }
