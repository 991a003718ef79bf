package services

import "context"

type contextKey string

const (
	cycleIDKey contextKey = "cycle_id"
	rootKey    contextKey = "root"
	itemKey    contextKey = "item"
)

// WithCycleID annotates context with the scan cycle identifier.
func WithCycleID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, cycleIDKey, id)
}

// CycleIDFromContext extracts the scan cycle identifier if present.
func CycleIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(cycleIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRoot annotates context with the watched root being processed.
func WithRoot(ctx context.Context, root string) context.Context {
	if root == "" {
		return ctx
	}
	return context.WithValue(ctx, rootKey, root)
}

// RootFromContext returns the watched root if present.
func RootFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(rootKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithItem annotates context with the path of the item being handled.
func WithItem(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, itemKey, path)
}

// ItemFromContext returns the item path if present.
func ItemFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(itemKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
