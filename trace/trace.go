package trace

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type (
	contextKey int
)

const (
	RequestIDKey contextKey = iota
)

// InjectRequestID returns a context which knows the request ID
func InjectRequestID(ctx context.Context, requestID string) context.Context {

	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	return ctx
}

// EnsureRequestID returns ctx unchanged when it already carries a request ID.
// Otherwise it injects a freshly generated one.
func EnsureRequestID(ctx context.Context) context.Context {

	if GetRequestIDFromContext(ctx) != "" {
		return ctx
	}

	return InjectRequestID(ctx, GenerateRequestID())
}

// GetRequestIDFromContext returns the request ID from the given context.
// If the context does not contain the request ID, it will return an empty string.
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GenerateRequestID generates a new request ID as a ULID
func GenerateRequestID() string {
	return ulid.Make().String()
}
