package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/solotter/internal/groups"
	"github.com/desertthunder/solotter/internal/models"
	"github.com/desertthunder/solotter/internal/shared"
)

// SnapshotRecorder persists group memberships (implemented by repositories.SnapshotRepository).
type SnapshotRecorder interface {
	Record(kind models.SnapshotKind, export *models.GroupExport) (*models.PersistedSnapshot, error)
}

// DiffResult is the dry-run outcome of comparing a group's current membership with a desired one.
type DiffResult struct {
	Current *models.GroupExport
	Diff    models.MembershipDiff
}

// ImportResult describes an import, including a partially applied one.
type ImportResult struct {
	Path    string
	Diff    models.MembershipDiff
	Removed int                       // members removed from the list
	Added   int                       // members added to the list
	Backup  *models.PersistedSnapshot // pre-import membership, when a recorder is configured
}

// Complete reports whether the whole diff was applied.
func (r *ImportResult) Complete() bool {
	return r.Removed == len(r.Diff.Removed) && r.Added == len(r.Diff.Added)
}

// GroupEngine runs group workflows against a Twitter client.
type GroupEngine struct {
	client    groups.Client
	handle    string
	groupOpts []groups.Option
	snapshots SnapshotRecorder
	logger    *log.Logger
	now       func() time.Time
}

// EngineOption configures a [GroupEngine].
type EngineOption func(*GroupEngine)

// WithSnapshots records exports and pre-import memberships in rec.
func WithSnapshots(rec SnapshotRecorder) EngineOption {
	return func(e *GroupEngine) { e.snapshots = rec }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *GroupEngine) { e.logger = l }
}

// WithGroupOptions forwards page and chunk sizes to every group the engine builds.
func WithGroupOptions(opts ...groups.Option) EngineOption {
	return func(e *GroupEngine) { e.groupOpts = append(e.groupOpts, opts...) }
}

// NewGroupEngine creates an engine. handle is the default owner for paths without an @handle prefix.
func NewGroupEngine(client groups.Client, handle string, opts ...EngineOption) *GroupEngine {
	e := &GroupEngine{
		client: client,
		handle: handle,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle returns the default owner handle.
func (e *GroupEngine) Handle() string { return e.handle }

// sendProgress sends a progress update through the channel without blocking.
func (e *GroupEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *GroupEngine) ready() error {
	if e.client == nil {
		return fmt.Errorf("%w: twitter client not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

// group resolves path against the default handle. A bare slug needs one.
func (e *GroupEngine) group(path string) (groups.Group, error) {
	key, err := groups.Parse(path, e.handle)
	if err != nil {
		return nil, err
	}
	if key.OwnerHandle == "" {
		return nil, fmt.Errorf("%w: screen name for %q (write @handle/%s or set credentials.twitter.screen_name)",
			shared.ErrMissingArgument, path, key.Slug)
	}
	return groups.FromKey(key, e.client, e.groupOpts...)
}

// Groups returns every group owned by handle (the default handle when empty):
// friends, followers, then owned lists in the order Twitter reports them.
func (e *GroupEngine) Groups(ctx context.Context, handle string, progress chan<- ProgressUpdate) ([]groups.Group, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if handle == "" {
		handle = e.handle
	}
	if handle == "" {
		return nil, fmt.Errorf("%w: screen name", shared.ErrMissingArgument)
	}

	e.sendProgress(progress, fetchGroupsUpdate(handle))
	slugs, err := groups.OwnedListSlugs(ctx, e.client, handle)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("fetched owned lists", "handle", handle, "count", len(slugs))
	return groups.All(handle, slugs, e.client, e.groupOpts...), nil
}

// Export fetches the membership of the group at path. When a recorder is configured the export is also
// kept in the snapshot history.
func (e *GroupEngine) Export(ctx context.Context, path string, progress chan<- ProgressUpdate) (*models.GroupExport, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	g, err := e.group(path)
	if err != nil {
		return nil, err
	}

	export, err := e.fetch(ctx, g, 1, 1, progress)
	if err != nil {
		return nil, err
	}

	if e.snapshots != nil {
		if snapshot, err := e.snapshots.Record(models.SnapshotExport, export); err != nil {
			e.logger.Warn("failed to record snapshot", "group", export.Path, "error", err)
		} else {
			e.logger.Debug("recorded snapshot", "group", export.Path, "sequence", snapshot.Sequence())
		}
	}
	return export, nil
}

func (e *GroupEngine) fetch(ctx context.Context, g groups.Group, step, total int, progress chan<- ProgressUpdate) (*models.GroupExport, error) {
	e.sendProgress(progress, fetchMembersUpdate(step, total, g.Path()))

	members, err := g.FetchMembers(ctx)
	if err != nil {
		return nil, err
	}
	export := newExport(g, members, e.now())
	e.sendProgress(progress, fetchedMembersUpdate(step, total, export))
	return export, nil
}

// Diff compares the current membership of the group at path with desired without changing anything.
func (e *GroupEngine) Diff(ctx context.Context, path string, desired []models.Member, progress chan<- ProgressUpdate) (*DiffResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	g, err := e.group(path)
	if err != nil {
		return nil, err
	}

	current, err := e.fetch(ctx, g, 1, 1, progress)
	if err != nil {
		return nil, err
	}

	diff := groups.Diff(current.Members, desired)
	e.sendProgress(progress, compareUpdate(diff))
	return &DiffResult{Current: current, Diff: diff}, nil
}

// Import converges the list at path to desired: it fetches the current membership, diffs it against desired
// and patches the list with the result. Friends and followers are rejected before any request is made.
//
// With a recorder configured, the membership before the patch is saved first so it can be imported back by hand.
// A failed patch still returns the result alongside the error, with Removed and Added counting what was applied.
func (e *GroupEngine) Import(ctx context.Context, path string, desired []models.Member, progress chan<- ProgressUpdate) (*ImportResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	g, err := e.group(path)
	if err != nil {
		return nil, err
	}
	if !groups.Mutable(g) {
		return nil, fmt.Errorf("%w: cannot import into %s", shared.ErrUnsupportedOperation, g.Path())
	}

	current, err := e.fetch(ctx, g, 1, 1, progress)
	if err != nil {
		return nil, err
	}

	diff := groups.Diff(current.Members, desired)
	e.sendProgress(progress, compareUpdate(diff))

	result := &ImportResult{Path: g.Path(), Diff: diff}
	if diff.Empty() {
		e.logger.Info("group already matches snapshot", "group", g.Path())
		return result, nil
	}

	if e.snapshots != nil {
		backup, err := e.snapshots.Record(models.SnapshotPreImport, current)
		if err != nil {
			return result, fmt.Errorf("failed to save pre-import snapshot: %w", err)
		}
		result.Backup = backup
		e.sendProgress(progress, backupUpdate(backup))
	}

	e.sendProgress(progress, patchUpdate(diff, g.Path()))
	if err := g.Patch(ctx, diff); err != nil {
		var patchErr *groups.PatchError
		if errors.As(err, &patchErr) {
			result.Removed, result.Added = patchErr.Removed, patchErr.Added
		}
		e.logger.Error("import stopped", "group", g.Path(), "removed", result.Removed, "added", result.Added, "error", err)
		return result, err
	}

	result.Removed, result.Added = len(diff.Removed), len(diff.Added)
	e.logger.Info("import complete", "group", g.Path(), "removed", result.Removed, "added", result.Added)
	return result, nil
}

func newExport(g groups.Group, members []models.Member, at time.Time) *models.GroupExport {
	if members == nil {
		members = []models.Member{}
	}
	return &models.GroupExport{Key: g.Key(), Path: g.Path(), Members: members, ExportedAt: at}
}
