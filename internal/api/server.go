package api

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/m5node/internal/api/models"
	"github.com/smazurov/m5node/internal/device"
	"github.com/smazurov/m5node/internal/dispatcher"
	"github.com/smazurov/m5node/internal/events"
	"github.com/smazurov/m5node/internal/logging"
	"github.com/smazurov/m5node/internal/system"
	"github.com/smazurov/m5node/internal/version"
)

const authRealm = `Basic realm="m5node"`

// UnitManager controls the node's own systemd unit.
type UnitManager interface {
	Unit() string
	Status(ctx context.Context) (string, error)
	Restart(ctx context.Context) error
}

// Options configures the API server.
type Options struct {
	AuthUsername string
	AuthPassword string
	CORSOrigin   string

	Dispatcher *dispatcher.Dispatcher
	// Device is inspected for board state; it need not be the client the
	// dispatcher wraps.
	Device     device.Client
	DriverName string
	EventBus   *events.Bus

	PrometheusHandler http.Handler // Optional, served at /metrics without auth
	SystemInfo        func(ctx context.Context) (system.HostInfo, error)
	UnitManager       UnitManager
	NATSConnected     func() bool
}

// Server is the huma v2 HTTP API of the node.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	listener   net.Listener
	dispatcher *dispatcher.Dispatcher
	eventBus   *events.Bus
	options    *Options
	logger     *slog.Logger
}

// basicAuthMiddleware creates middleware for HTTP basic authentication
func (s *Server) basicAuthMiddleware(username, password string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		// Skip auth for operations without security requirements
		op := ctx.Operation()
		if op != nil && len(op.Security) == 0 {
			next(ctx)
			return
		}

		encoded := ""
		if authHeader := ctx.Header("Authorization"); authHeader != "" {
			const prefix = "Basic "
			if !strings.HasPrefix(authHeader, prefix) {
				s.unauthorized(ctx, "Invalid authentication type")
				return
			}
			encoded = authHeader[len(prefix):]
		} else {
			// EventSource cannot set headers, so SSE clients pass ?auth=
			encoded = ctx.Query("auth")
		}

		if encoded == "" {
			s.unauthorized(ctx, "Authentication required")
			return
		}

		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			s.unauthorized(ctx, "Invalid credentials format", err)
			return
		}

		user, pass, ok := strings.Cut(string(decoded), ":")
		if !ok {
			s.unauthorized(ctx, "Invalid credentials format")
			return
		}

		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
		if !userOK || !passOK {
			s.unauthorized(ctx, "Invalid credentials")
			return
		}

		next(ctx)
	}
}

func (s *Server) unauthorized(ctx huma.Context, msg string, errs ...error) {
	ctx.SetHeader("WWW-Authenticate", authRealm)
	huma.WriteErr(s.api, ctx, http.StatusUnauthorized, msg, errs...)
}

// NewServer creates the API server using Go 1.22+ native routing.
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	corsConfig := DefaultCORSConfig()
	if opts.CORSOrigin != "" {
		corsConfig.AllowOrigin = opts.CORSOrigin
	}
	AddCORSHandler(mux, corsConfig)

	config := huma.DefaultConfig("m5node API", version.Version)
	config.Info.Description = "Display and IO control for an attached M5Stack board"
	// Relative paths in the OpenAPI document work behind any host
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	api := humago.New(mux, config)

	if opts.SystemInfo == nil {
		opts.SystemInfo = system.Collect
	}

	server := &Server{
		api:        api,
		mux:        mux,
		dispatcher: opts.Dispatcher,
		eventBus:   opts.EventBus,
		options:    opts,
		logger:     logging.GetLogger("api"),
	}

	api.UseMiddleware(NewCORSMiddleware(corsConfig))
	api.UseMiddleware(HTTPLoggingMiddleware)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		api.UseMiddleware(server.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	server.registerRoutes()
	return server
}

// GetMux returns the underlying HTTP ServeMux for additional setup
func (s *Server) GetMux() *http.ServeMux {
	return s.mux
}

// GetAPI returns the Huma API instance
func (s *Server) GetAPI() huma.API {
	return s.api
}

// Listen binds addr. Requests are accepted once Serve runs.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.httpServer = &http.Server{Handler: s.mux}
	s.logger.Info("API listening", "addr", ln.Addr().String())
	s.logger.Info("OpenAPI documentation available", "url", "http://"+ln.Addr().String()+"/docs")
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve blocks serving HTTP until Stop. It returns nil after a clean stop.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("api: Serve called before Listen")
	}
	err := s.httpServer.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Start listens on addr and serves until Stop.
func (s *Server) Start(addr string) error {
	if err := s.Listen(addr); err != nil {
		return err
	}
	return s.Serve()
}

// Stop gracefully shuts down the server. SSE streams end when ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server")
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return s.httpServer.Close()
	}
	return nil
}

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
		Security:    []map[string][]string{}, // Empty security = no auth required
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		natsUp := false
		if s.options.NATSConnected != nil {
			natsUp = s.options.NATSConnected()
		}
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:  "ok",
				Message: "API is healthy",
				Driver:  s.options.DriverName,
				NATS:    natsUp,
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(ctx context.Context, input *struct{}) (*models.VersionResponse, error) {
		return &models.VersionResponse{Body: version.Get()}, nil
	})

	s.registerCommandRoutes()
	s.registerBoardRoutes()
	s.registerSystemRoutes()
	s.registerSystemdRoutes()
	s.registerSSERoutes()
	s.registerLogRoutes()
}

// withAuth returns security requirement for basic auth
func withAuth() []map[string][]string {
	return []map[string][]string{
		{"basicAuth": {}},
	}
}
