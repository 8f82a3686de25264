package core

import "context"

// Context keys for run options
type contextKey string

const (
	runIDKey          contextKey = "runID"
	suppressHeaderKey contextKey = "suppressHeader"
)

// withRunID sets the dashboard run ID in the context
func withRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the dashboard run ID, or "" outside a run
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithSuppressHeader marks the context so Execute functions skip their stdout header
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}
