package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type traceKey struct{}

// WithTraceID returns a context carrying traceID. Loggers built by NewLogger
// attach it to every record logged with that context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// GetTraceID returns the trace ID stored in ctx, or "".
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// EnsureTraceID gives ctx a fresh trace ID unless it already has one. Batch
// runs use it so every record of one run shares an ID.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return WithTraceID(ctx, uuid.NewString())
}

// LoggerFromContext is the process logger tagged with ctx's trace ID.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if id := GetTraceID(ctx); id != "" {
		return GetLogger().With(slog.String("trace_id", id))
	}
	return GetLogger()
}

// WithComponent tags logger with the emitting component.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	return logger.With(slog.String("component", component))
}

// WithError tags logger with err; a nil err leaves it unchanged.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With(slog.String("error", err.Error()))
}
