// Package repositories stores solotter's snapshot history in SQLite.
//
// [SnapshotRepository] keeps every exported and pre-import group membership. Rows are soft deleted through
// deleted_at and hidden from every query afterwards.
//
// Besides its UUID each snapshot gets a sequence number from [NextSequence] (snapshot #15), which the CLI
// accepts wherever it takes a snapshot reference.
package repositories
