// Package overlay implements the override tables and the per-operation
// resolution logic behind a test file system.
//
// The package has two pieces:
//
//   - [Store]: the immutable override tables (removed paths, redirect
//     targets, simulated permissions, fault-triggering paths), keyed by
//     normalized absolute path
//   - [Resolver]: decides, for a single operation, whether a path is
//     hidden, permission-restricted, fault-injected, or redirected, before
//     the caller delegates to the real file system
//
// # Design Notes
//
// Both types are read-only after construction, so concurrent use requires
// no locking. Resolution never touches the real file system; existence
// checks against real files belong to the caller (the facade or the
// builder), keeping this package free of I/O.
//
// This package intentionally does NOT include context.Context parameters.
// Every lookup is a map access or a bounded ancestor walk; there is
// nothing to cancel.
package overlay
