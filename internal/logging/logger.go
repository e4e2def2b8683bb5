// Package logging wraps log/slog with the field names used across purfectmux.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with hyperlink and surface helpers.
type Logger struct {
	*slog.Logger
}

// New wraps an existing slog.Logger. A nil logger yields NoopLogger.
func New(l *slog.Logger) *Logger {
	if l == nil {
		return NoopLogger()
	}
	return &Logger{Logger: l}
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable text to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that writes JSON records to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// WithRegistry adds a registry field to the logger.
func (l *Logger) WithRegistry(id uint64) *Logger {
	return &Logger{Logger: l.Logger.With("registry", id)}
}

// WithSurface adds surface dimensions to the logger.
func (l *Logger) WithSurface(cols, rows int) *Logger {
	return &Logger{Logger: l.Logger.With("cols", cols, "rows", rows)}
}

// LogPut logs a hyperlink put. created is false when an existing link was reused.
func (l *Logger) LogPut(ctx context.Context, registry uint64, handle uint32, created bool, live int) {
	if !created {
		l.DebugContext(ctx, "hyperlink reused",
			"registry", registry,
			"handle", handle,
		)
		return
	}
	l.DebugContext(ctx, "hyperlink stored",
		"registry", registry,
		"handle", handle,
		"live", live,
	)
}

// LogEvict logs the eviction of the oldest hyperlink.
func (l *Logger) LogEvict(ctx context.Context, registry uint64, handle uint32, live int) {
	l.DebugContext(ctx, "hyperlink evicted",
		"registry", registry,
		"handle", handle,
		"live", live,
	)
}

// LogReset logs a registry reset.
func (l *Logger) LogReset(ctx context.Context, registry uint64, removed, live int) {
	l.DebugContext(ctx, "hyperlinks reset",
		"registry", registry,
		"removed", removed,
		"live", live,
	)
}
