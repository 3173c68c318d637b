package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a structured logger shared by handlers, services and middleware.
type Logger struct {
	*slog.Logger
}

// NewLogger returns a debug-level text logger in development and an
// info-level JSON logger otherwise, both writing to stderr.
func NewLogger(development bool) *Logger {
	return newLogger(os.Stderr, development)
}

func newLogger(w io.Writer, development bool) *Logger {
	if development {
		return &Logger{slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	}
	return &Logger{slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))}
}

// Discard returns a logger that drops every record. Used by tests.
func Discard() *Logger {
	return &Logger{slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithFields returns a child logger that adds the given fields to every record
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{l.Logger.With(args...)}
}
