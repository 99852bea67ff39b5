// Package tasks runs group workflows against Twitter with real-time progress reporting.
//
// # Core Operations
//
// [GroupEngine] provides the operations behind the CLI and TUI:
//
//  1. [GroupEngine.Groups] : friends, followers and every list owned by a handle
//  2. [GroupEngine.Export] : fetch the membership of one group
//  3. [GroupEngine.Diff] : compare a group with a desired membership without touching it
//  4. [GroupEngine.Import] : converge a list to a desired membership (removals first, then additions)
//  5. [GroupEngine.BulkExport] : export every group of a handle concurrently with a manifest
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Sends use select with default so a slow or
// absent reader never blocks the engine.
//
// # Snapshots
//
// The optional [SnapshotRecorder] (repositories.SnapshotRepository) keeps every export, plus the membership
// a list had right before an import, so a bad import can be undone by importing the backup.
package tasks
