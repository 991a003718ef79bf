// Package services defines the shared error taxonomy used across cubby's
// subsystems together with context helpers that thread cycle metadata
// through long-running operations.
//
// Key responsibilities:
//   - Sentinel errors that classify failures (external tool, validation,
//     configuration, not found, transient).
//   - Wrap, which builds uniformly shaped errors while preserving both the
//     classification marker and the underlying cause for errors.Is checks.
//   - Context annotation helpers (cycle ID, root, item) consumed by the
//     logging package when emitting structured records.
package services
