package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowOrigin is "*" or a single origin

	AllowOrigin  string
	AllowMethods []string
	AllowHeaders []string
	MaxAge       int
}

// DefaultCORSConfig allows any origin; the node only exposes GET and POST.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigin:  "*",
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Authorization", "Accept", "Origin", "Last-Event-ID"},
		MaxAge:       86400,
	}
}

type corsHeaders struct {
	origin, methods, headers, maxAge string
}

func (c CORSConfig) headers() corsHeaders {
	return corsHeaders{
		origin:  c.AllowOrigin,
		methods: strings.Join(c.AllowMethods, ", "),
		headers: strings.Join(c.AllowHeaders, ", "),
		maxAge:  strconv.Itoa(c.MaxAge),
	}
}

func (h corsHeaders) apply(set func(name, value string)) {
	set("Access-Control-Allow-Origin", h.origin)
	set("Access-Control-Allow-Methods", h.methods)
	set("Access-Control-Allow-Headers", h.headers)
	set("Access-Control-Max-Age", h.maxAge)
	if h.origin != "*" {
		set("Vary", "Origin")
	}
}

// NewCORSMiddleware creates CORS middleware with the given configuration
func NewCORSMiddleware(config CORSConfig) func(huma.Context, func(huma.Context)) {
	h := config.headers()

	return func(ctx huma.Context, next func(huma.Context)) {
		h.apply(ctx.SetHeader)

		// Handle preflight OPTIONS requests
		if ctx.Method() == http.MethodOptions {
			// For OPTIONS, we just return 204 No Content with headers
			ctx.SetStatus(http.StatusNoContent)
			return
		}

		// Continue to next middleware/handler
		next(ctx)
	}
}

// AddCORSHandler adds a CORS preflight handler to the mux for OPTIONS requests
// This is needed because Huma middleware doesn't intercept OPTIONS before routing
func AddCORSHandler(mux *http.ServeMux, config CORSConfig) {
	h := config.headers()

	mux.HandleFunc("OPTIONS /", func(w http.ResponseWriter, _ *http.Request) {
		h.apply(w.Header().Set)
		w.WriteHeader(http.StatusNoContent)
	})
}
