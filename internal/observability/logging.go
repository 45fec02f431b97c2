// Package observability wires structured logging for gall: logger
// construction and run-scoped attributes carried on a context.
package observability

import (
	"context"
	"io"
	"log/slog"
)

// LogContext holds structured logging context information.
type LogContext struct {
	RunID    string
	Artifact string
	Trigger  string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// Format selects a slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// NewLogger builds a logger writing to w with the given level and format.
// Unknown formats fall back to text.
func NewLogger(w io.Writer, level slog.Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// WithRunID adds a build run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	lc := extractLogContext(ctx)
	lc.RunID = runID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithArtifact adds the artifact being processed to the context.
func WithArtifact(ctx context.Context, name string) context.Context {
	lc := extractLogContext(ctx)
	lc.Artifact = name
	return context.WithValue(ctx, logContextKey, lc)
}

// WithTrigger records what started a build ("cli", or the changed path in watch mode).
func WithTrigger(ctx context.Context, trigger string) context.Context {
	lc := extractLogContext(ctx)
	lc.Trigger = trigger
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.RunID != "" {
		attrs = append(attrs, slog.String("run_id", lc.RunID))
	}
	if lc.Artifact != "" {
		attrs = append(attrs, slog.String("artifact", lc.Artifact))
	}
	if lc.Trigger != "" {
		attrs = append(attrs, slog.String("trigger", lc.Trigger))
	}

	return attrs
}

// Logger wraps a slog.Logger and prefixes every record with the context's attributes.
type Logger struct {
	l *slog.Logger
}

// New wraps l; a nil l uses slog.Default at call time.
func New(l *slog.Logger) Logger {
	return Logger{l: l}
}

func (lg Logger) base() *slog.Logger {
	if lg.l == nil {
		return slog.Default()
	}
	return lg.l
}

func (lg Logger) log(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	all := append(getLogAttrs(ctx), attrs...)
	lg.base().LogAttrs(ctx, level, msg, all...)
}

// Info logs at info level with context attributes.
func (lg Logger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	lg.log(ctx, slog.LevelInfo, msg, attrs)
}

// Warn logs at warn level with context attributes.
func (lg Logger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	lg.log(ctx, slog.LevelWarn, msg, attrs)
}

// Error logs at error level with context attributes.
func (lg Logger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	lg.log(ctx, slog.LevelError, msg, attrs)
}

// Debug logs at debug level with context attributes.
func (lg Logger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	lg.log(ctx, slog.LevelDebug, msg, attrs)
}

// WarnContext logs a warning message with context information on the default logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Logger{}.Warn(ctx, msg, attrs...)
}

// DebugContext logs a debug message with context information on the default logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Logger{}.Debug(ctx, msg, attrs...)
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}
