package logging

import (
	"context"
	"log/slog"

	"cubby/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCycleID is the standardized structured logging key for scan cycle identifiers.
	FieldCycleID = "cycle_id"
	// FieldRoot is the standardized structured logging key for the watched root being processed.
	FieldRoot = "root"
	// FieldItem is the standardized structured logging key for the item path being handled.
	FieldItem = "item"
	// FieldCategory is the standardized structured logging key for classifier category labels.
	FieldCategory = "category"
	// FieldGroup is the standardized structured logging key for grouper group names.
	FieldGroup = "group"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.CycleIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCycleID, id))
	}
	if root, ok := services.RootFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRoot, root))
	}
	if item, ok := services.ItemFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldItem, item))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
