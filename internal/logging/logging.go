// Package logging sets up structured logging. The bridge talks MCP on
// stdout, so log output never goes there: it goes to stderr or to a rotating
// file.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/martinemde/implore/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey struct{}

// New builds the process logger and installs it as the slog default. The
// returned closer flushes and closes the log file, if any.
func New(cfg config.LogConfig, stderr io.Writer) (*slog.Logger, io.Closer) {
	var out io.Writer = stderr
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		out = rotating
		closer = rotating
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}))
	slog.SetDefault(logger)
	return logger, closer
}

// ParseLevel maps a config string to a slog level, defaulting to info
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID attaches a fresh request id to ctx
func WithRequestID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, contextKey{}, id), id
}

// RequestID returns the request id stored in ctx, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// Logger is a component-scoped logger that adds the request id of the
// context it is given.
type Logger struct {
	base      *slog.Logger
	component string
}

// Component returns a logger tagged with the component name. A nil base uses
// the slog default.
func Component(base *slog.Logger, name string) *Logger {
	if base == nil {
		base = slog.Default()
	}
	return &Logger{base: base, component: name}
}

func (l *Logger) Debug(ctx context.Context, msg string, attrs ...any) {
	l.log(ctx, slog.LevelDebug, msg, attrs...)
}

func (l *Logger) Info(ctx context.Context, msg string, attrs ...any) {
	l.log(ctx, slog.LevelInfo, msg, attrs...)
}

func (l *Logger) Warn(ctx context.Context, msg string, attrs ...any) {
	l.log(ctx, slog.LevelWarn, msg, attrs...)
}

func (l *Logger) Error(ctx context.Context, msg string, attrs ...any) {
	l.log(ctx, slog.LevelError, msg, attrs...)
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, attrs ...any) {
	args := make([]any, 0, len(attrs)+4)
	args = append(args, "component", l.component)
	if id := RequestID(ctx); id != "" {
		args = append(args, "request_id", id)
	}
	args = append(args, attrs...)
	l.base.Log(ctx, level, msg, args...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
