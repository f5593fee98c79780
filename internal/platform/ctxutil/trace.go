package ctxutil

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type traceDataKey struct{}

type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// CorrelationID returns the request id attached by the HTTP layer, or a fresh
// uuid when the context carries none.
func CorrelationID(ctx context.Context) string {
	if td := GetTraceData(ctx); td != nil {
		if id := strings.TrimSpace(td.RequestID); id != "" {
			return id
		}
	}
	return uuid.New().String()
}
