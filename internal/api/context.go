package api

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "reqid"
	ctxKeyLogger    ctxKey = "logger"
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

func WithLogger(ctx context.Context, log *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, log)
}

// LoggerFromContext returns the request logger, or fallback when none is attached.
func LoggerFromContext(ctx context.Context, fallback *zap.SugaredLogger) *zap.SugaredLogger {
	if l, ok := ctx.Value(ctxKeyLogger).(*zap.SugaredLogger); ok && l != nil {
		return l
	}
	return fallback
}
