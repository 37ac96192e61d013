package logging

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/devagent/internal/ctxutil"
)

type loggerKey struct{}

// WithLogger stores a logger on the context.
func WithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

// FromContext returns the context logger, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && log != nil {
		return log
	}
	return zap.NewNop()
}

// ContextFields extracts request-scoped fields for log entries.
func ContextFields(ctx context.Context) []zap.Field {
	return []zap.Field{zap.String("actor", ctxutil.ActorFromContext(ctx))}
}
