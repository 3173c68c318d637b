package logging

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// ContextKey is a type for context keys
type ContextKey string

const (
	// LoggerContextKey is the key for the logger in the request context
	LoggerContextKey ContextKey = "logger"

	requestAttrsContextKey ContextKey = "request_attrs"
)

// requestAttrs collects fields that inner handlers learn while serving a
// request (e.g. the authenticated user) for the completion record.
type requestAttrs struct {
	mu   sync.Mutex
	args []any
}

// AddRequestAttrs appends key/value pairs to the "request completed" record
// of the request carried by ctx. Outside RequestLogger it does nothing.
func AddRequestAttrs(ctx context.Context, args ...any) {
	ra, ok := ctx.Value(requestAttrsContextKey).(*requestAttrs)
	if !ok {
		return
	}
	ra.mu.Lock()
	ra.args = append(ra.args, args...)
	ra.mu.Unlock()
}

// RequestLogger attaches a request-scoped logger to the context and logs
// one completion record per request, leveled by status class.
func RequestLogger(logger *Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := logger.WithFields(map[string]any{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"remote_ip":  r.RemoteAddr,
			})
			reqLogger.Debug("request started")

			attrs := &requestAttrs{}
			ctx := context.WithValue(WithLogger(r.Context(), reqLogger), requestAttrsContextKey, attrs)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				// Nothing was written; net/http answers 200.
				status = http.StatusOK
			}

			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			attrs.mu.Lock()
			args := append([]any{
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			}, attrs.args...)
			attrs.mu.Unlock()

			reqLogger.Log(r.Context(), level, "request completed", args...)
		})
	}
}

// WithLogger returns a copy of ctx carrying logger
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// GetLoggerFromContext retrieves the logger from the request context
func GetLoggerFromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return NewLogger(true)
}
