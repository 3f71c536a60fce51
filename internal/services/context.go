package services

import "context"

type contextKey string

const (
	requestIDKey  contextKey = "request_id"
	clientHostKey contextKey = "client_host"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithClientHost annotates context with the connecting client host.
func WithClientHost(ctx context.Context, host string) context.Context {
	if host == "" {
		return ctx
	}
	return context.WithValue(ctx, clientHostKey, host)
}

// ClientHostFromContext extracts the client host if present.
func ClientHostFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(clientHostKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
