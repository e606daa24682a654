package observability

import (
	"context"

	"go.uber.org/zap"
)

// Context keys used by the HTTP middleware. String keys are shared with the
// upstream clients, which forward the correlation id to IPMA.
const (
	ContextKeyCorrelationID = "correlation_id"
	ContextKeyLogger        = "logger"
)

// CorrelationIDFromContext returns the request correlation id, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	if v := ctx.Value(ContextKeyCorrelationID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// LoggerFromContext returns the request-scoped logger, or nil.
func LoggerFromContext(ctx context.Context) *zap.Logger {
	if v := ctx.Value(ContextKeyLogger); v != nil {
		if l, ok := v.(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return nil
}
