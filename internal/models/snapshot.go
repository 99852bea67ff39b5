package models

import (
	"errors"
	"time"
)

// SnapshotKind distinguishes why a membership was recorded.
type SnapshotKind string

const (
	SnapshotExport    SnapshotKind = "export"     // written by an export
	SnapshotPreImport SnapshotKind = "pre-import" // membership captured right before an import patched the group
)

// PersistedSnapshot is a group membership stored in the local history database.
//
// Content holds the canonical snapshot JSON so a recorded membership can be written back to disk and re-imported.
type PersistedSnapshot struct {
	id          string
	sequence    int
	key         GroupKey
	groupPath   string
	kind        SnapshotKind
	memberCount int
	content     []byte
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewPersistedSnapshot creates a snapshot record for the group at path.
func NewPersistedSnapshot(sequence int, key GroupKey, path string, kind SnapshotKind, memberCount int, content []byte) *PersistedSnapshot {
	now := time.Now()
	return &PersistedSnapshot{
		sequence:    sequence,
		key:         key,
		groupPath:   path,
		kind:        kind,
		memberCount: memberCount,
		content:     content,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (s *PersistedSnapshot) ID() string                { return s.id }
func (s *PersistedSnapshot) Sequence() int             { return s.sequence }
func (s *PersistedSnapshot) Key() GroupKey             { return s.key }
func (s *PersistedSnapshot) GroupPath() string         { return s.groupPath }
func (s *PersistedSnapshot) Kind() SnapshotKind        { return s.kind }
func (s *PersistedSnapshot) MemberCount() int          { return s.memberCount }
func (s *PersistedSnapshot) Content() []byte           { return s.content }
func (s *PersistedSnapshot) CreatedAt() time.Time      { return s.createdAt }
func (s *PersistedSnapshot) UpdatedAt() time.Time      { return s.updatedAt }
func (s *PersistedSnapshot) DeletedAt() *time.Time     { return s.deletedAt }
func (s *PersistedSnapshot) IsDeleted() bool           { return s.deletedAt != nil }
func (s *PersistedSnapshot) SetID(id string)           { s.id = id }
func (s *PersistedSnapshot) SetSequence(seq int)       { s.sequence = seq }
func (s *PersistedSnapshot) SetCreatedAt(t time.Time)  { s.createdAt = t }
func (s *PersistedSnapshot) SetUpdatedAt(t time.Time)  { s.updatedAt = t }
func (s *PersistedSnapshot) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// SetContent replaces the stored membership.
func (s *PersistedSnapshot) SetContent(content []byte, memberCount int) {
	s.content = content
	s.memberCount = memberCount
}

// Validate checks required fields.
func (s *PersistedSnapshot) Validate() error {
	switch {
	case s.groupPath == "":
		return errors.New("group path is required")
	case s.key.OwnerHandle == "" || s.key.Slug == "":
		return errors.New("group key is incomplete")
	case s.kind != SnapshotExport && s.kind != SnapshotPreImport:
		return errors.New("unknown snapshot kind: " + string(s.kind))
	case s.memberCount < 0:
		return errors.New("member count cannot be negative")
	}
	return nil
}
