// Package logging assembles structured slog loggers and formatting helpers
// used across cubby components.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so cycle code can automatically tag log
// lines with cycle IDs, watched roots, and item paths. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup to ensure new
// components emit data with the same shape and routing guarantees as the rest
// of the system.
package logging
