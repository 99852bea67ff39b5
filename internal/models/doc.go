// Package models defines domain entities and persistence interfaces for solotter.
//
// The package contains two categories of types:
//
// 1. Value types shared by the reconciliation engine and its callers
//   - [Member] : One Twitter account as it appears in a group snapshot
//   - [GroupKey] : Structured identifier of a friends, followers or list group
//   - [MembershipDiff] : Added and removed members between two snapshots
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [PersistedSnapshot] : A recorded group membership (export or pre-import backup)
//
// Persistent entities implement [Sequenced]; their stores implement [Repository].
package models
