package context

import "context"

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores the request id for downstream handlers and log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the id set by WithRequestID, or "".
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
