// Package logging provides structured logging configuration using log/slog.
//
// A run id can be stored in a context so that all entries of one
// translation run or glossary operation can be correlated.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type runIDKey struct{}

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "warn")
// Format values: "text", "json" (default: "text")
//
// Entries go to w, or to stderr when w is nil, so they do not mix with the
// menu output on stdout.
func Setup(level, format string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewRun returns a context carrying a fresh run id.
func NewRun(ctx context.Context) context.Context {
	return context.WithValue(ctx, runIDKey{}, uuid.NewString())
}

// RunID returns the run id stored in ctx, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// FromContext returns base enriched with the run id of ctx. A nil base
// means slog.Default().
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	if id := RunID(ctx); id != "" {
		base = base.With("run_id", id)
	}
	return base
}
