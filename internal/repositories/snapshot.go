package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/solotter/internal/formatter"
	"github.com/desertthunder/solotter/internal/models"
	"github.com/desertthunder/solotter/internal/shared"
)

const snapshotColumns = `id, sequence, group_path, group_type, owner_handle, slug, kind, member_count, content, created_at, updated_at, deleted_at`

// SnapshotRepository implements models.Repository[*models.PersistedSnapshot] for the local snapshot history.
type SnapshotRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.PersistedSnapshot] = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a new SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create inserts a new snapshot into the database with generated ID and sequence
func (r *SnapshotRepository) Create(snapshot *models.PersistedSnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "snapshots")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO snapshots (id, sequence, group_path, group_type, owner_handle, slug, kind, member_count, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	key := snapshot.Key()
	_, err = r.db.Exec(query,
		id,
		sequence,
		snapshot.GroupPath(),
		key.Type.String(),
		key.OwnerHandle,
		key.Slug,
		string(snapshot.Kind()),
		snapshot.MemberCount(),
		string(snapshot.Content()),
		snapshot.CreatedAt(),
		snapshot.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	snapshot.SetID(id)
	snapshot.SetSequence(sequence)
	return nil
}

// Record stores members of export as a new snapshot of the given kind.
func (r *SnapshotRepository) Record(kind models.SnapshotKind, export *models.GroupExport) (*models.PersistedSnapshot, error) {
	content, err := formatter.MarshalSnapshot(export.Members)
	if err != nil {
		return nil, err
	}

	snapshot := models.NewPersistedSnapshot(0, export.Key, export.Path, kind, len(export.Members), content)
	if !export.ExportedAt.IsZero() {
		snapshot.SetCreatedAt(export.ExportedAt)
		snapshot.SetUpdatedAt(export.ExportedAt)
	}

	if err := r.Create(snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Get retrieves a snapshot by ID, excluding soft-deleted snapshots
func (r *SnapshotRepository) Get(id string) (*models.PersistedSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetBySequence retrieves a snapshot by its sequence number
func (r *SnapshotRepository) GetBySequence(sequence int) (*models.PersistedSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE sequence = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, sequence))
}

// Find resolves ref as a sequence number when it is numeric and as an ID otherwise.
func (r *SnapshotRepository) Find(ref string) (*models.PersistedSnapshot, error) {
	if seq, err := strconv.Atoi(ref); err == nil {
		return r.GetBySequence(seq)
	}
	return r.Get(ref)
}

// Latest returns the most recent snapshot of a group, optionally restricted to one kind.
func (r *SnapshotRepository) Latest(groupPath string, kind models.SnapshotKind) (*models.PersistedSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE group_path = ? AND deleted_at IS NULL`
	args := []any{groupPath}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, string(kind))
	}
	query += " ORDER BY sequence DESC LIMIT 1"

	return r.scanOne(r.db.QueryRow(query, args...))
}

// Members decodes the membership stored in snapshot.
func (r *SnapshotRepository) Members(snapshot *models.PersistedSnapshot) ([]models.Member, error) {
	return formatter.ParseSnapshot(snapshot.Content())
}

// Update replaces the stored content of an existing snapshot
func (r *SnapshotRepository) Update(snapshot *models.PersistedSnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	snapshot.SetUpdatedAt(now)

	query := `
		UPDATE snapshots
		SET member_count = ?, content = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, snapshot.MemberCount(), string(snapshot.Content()), now, snapshot.ID())
	if err != nil {
		return fmt.Errorf("failed to update snapshot: %w", err)
	}

	return expectOneRow(result, snapshot.ID())
}

// Delete soft-deletes a snapshot by ID
func (r *SnapshotRepository) Delete(id string) error {
	query := `
		UPDATE snapshots
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return expectOneRow(result, id)
}

// List retrieves snapshots matching the given criteria, excluding soft-deleted snapshots.
//
// Supported criteria: "group_path" (string), "kind" (string or [models.SnapshotKind]), "limit" (int).
func (r *SnapshotRepository) List(criteria map[string]any) ([]*models.PersistedSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE deleted_at IS NULL`
	args := []any{}

	if path, ok := criteria["group_path"].(string); ok && path != "" {
		query += " AND group_path = ?"
		args = append(args, path)
	}

	switch kind := criteria["kind"].(type) {
	case string:
		if kind != "" {
			query += " AND kind = ?"
			args = append(args, kind)
		}
	case models.SnapshotKind:
		if kind != "" {
			query += " AND kind = ?"
			args = append(args, string(kind))
		}
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.PersistedSnapshot
	for rows.Next() {
		snapshot, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return snapshots, nil
}

// scanOne scans a single row into a [models.PersistedSnapshot]
func (r *SnapshotRepository) scanOne(row *sql.Row) (*models.PersistedSnapshot, error) {
	snapshot, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSnapshotNotFound
	}
	return snapshot, err
}

type scanner interface {
	Scan(dest ...any) error
}

// scan reads one row from either [sql.Row] or [sql.Rows]
func (r *SnapshotRepository) scan(row scanner) (*models.PersistedSnapshot, error) {
	var (
		id          string
		sequence    int
		groupPath   string
		groupType   string
		ownerHandle string
		slug        string
		kind        string
		memberCount int
		content     string
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &groupPath, &groupType, &ownerHandle, &slug, &kind, &memberCount, &content, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	gt, ok := models.ParseGroupType(groupType)
	if !ok {
		return nil, fmt.Errorf("%w: %q in snapshot %s", shared.ErrInvalidGroupType, groupType, id)
	}

	key := models.GroupKey{Type: gt, OwnerHandle: ownerHandle, Slug: slug}
	snapshot := models.NewPersistedSnapshot(sequence, key, groupPath, models.SnapshotKind(kind), memberCount, []byte(content))
	snapshot.SetID(id)
	snapshot.SetCreatedAt(createdAt)
	snapshot.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		snapshot.SetDeletedAt(&deletedAt.Time)
	}

	return snapshot, nil
}

func expectOneRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSnapshotNotFound, id)
	}
	return nil
}
