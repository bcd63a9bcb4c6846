package contextx

import "context"

// TraceID связывает логи одного HTTP запроса и отдаётся клиенту как supportId.
type TraceID string

func (t TraceID) String() string {
	return string(t)
}

func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return withValue(ctx, traceID)
}

func TraceIDFromContext(ctx context.Context) (TraceID, error) {
	return valueFrom[TraceID](ctx, "trace id")
}
