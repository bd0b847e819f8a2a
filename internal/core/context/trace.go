package appctx

import (
	"context"
)

// TraceContext holds request correlation identifiers.
type TraceContext struct {
	RequestID string
}

type traceKey struct{}

// WithTrace attaches trace info to context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceKey{}, trace)
}

// GetTrace returns trace info from context, or nil.
func GetTrace(ctx context.Context) *TraceContext {
	if t, ok := ctx.Value(traceKey{}).(*TraceContext); ok {
		return t
	}
	return nil
}
