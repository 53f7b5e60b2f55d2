package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/m5node/internal/logging"
)

// requestLevel picks the log level for a finished request. Probes and
// preflights stay at debug so they don't drown board commands.
func requestLevel(method, path string, status int) slog.Level {
	switch {
	case method == http.MethodOptions, path == "/api/health":
		return slog.LevelDebug
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// HTTPLoggingMiddleware logs one line per request after it completes.
func HTTPLoggingMiddleware(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	next(ctx)

	u := ctx.URL()
	attrs := []slog.Attr{
		slog.String("method", ctx.Method()),
		slog.String("path", u.Path),
		slog.Int("status", ctx.Status()),
		slog.Duration("duration", time.Since(start)),
		slog.String("remote_addr", ctx.RemoteAddr()),
	}
	if op := ctx.Operation(); op != nil && op.OperationID != "" {
		attrs = append(attrs, slog.String("operation_id", op.OperationID))
	}
	if u.RawQuery != "" {
		attrs = append(attrs, slog.String("query", u.RawQuery))
	}
	if ua := ctx.Header("User-Agent"); ua != "" {
		attrs = append(attrs, slog.String("user_agent", ua))
	}

	level := requestLevel(ctx.Method(), u.Path, ctx.Status())
	logging.GetLogger("http").LogAttrs(ctx.Context(), level, "HTTP request completed", attrs...)
}
