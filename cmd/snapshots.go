package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solotter/internal/formatter"
	"github.com/desertthunder/solotter/internal/models"
	"github.com/desertthunder/solotter/internal/shared"
)

type snapshotView struct {
	Sequence    int       `json:"sequence"`
	ID          string    `json:"id"`
	Group       string    `json:"group"`
	Kind        string    `json:"kind"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SnapshotsList prints the recorded snapshots, oldest first.
func (r *Runner) SnapshotsList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.snapshotStore(ctx)
	if err != nil {
		return err
	}

	snapshots, err := store.List(map[string]any{
		"group_path": cmd.String("group"),
		"kind":       cmd.String("kind"),
		"limit":      cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	views := make([]snapshotView, len(snapshots))
	for i, s := range snapshots {
		views[i] = snapshotView{
			Sequence:    s.Sequence(),
			ID:          s.ID(),
			Group:       s.GroupPath(),
			Kind:        string(s.Kind()),
			MemberCount: s.MemberCount(),
			CreatedAt:   s.CreatedAt(),
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(views, true)
	}

	if len(views) == 0 {
		return r.writePlain("No snapshots recorded yet. Run 'solotter groups export' to create one.\n")
	}
	for _, v := range views {
		r.writePlain("#%-5d %s  %-10s %-40s %d members\n", v.Sequence, v.CreatedAt.Local().Format("2006-01-02 15:04"), v.Kind, v.Group, v.MemberCount)
	}
	return nil
}

// SnapshotsShow renders a recorded snapshot in the requested format.
func (r *Runner) SnapshotsShow(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	snapshot, members, err := r.findSnapshot(ctx, cmd.StringArg("ref"))
	if err != nil {
		return err
	}

	data, err := formatter.Render(&models.GroupExport{
		Key:        snapshot.Key(),
		Path:       snapshot.GroupPath(),
		Members:    members,
		ExportedAt: snapshot.CreatedAt(),
	}, format)
	if err != nil {
		return err
	}

	_, err = r.output.Write(data)
	return err
}

// SnapshotsDelete removes a snapshot from the history.
func (r *Runner) SnapshotsDelete(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("ref")
	if ref == "" {
		return fmt.Errorf("%w: snapshot sequence number or id", shared.ErrMissingArgument)
	}

	store, err := r.snapshotStore(ctx)
	if err != nil {
		return err
	}
	snapshot, err := store.Find(ref)
	if err != nil {
		return err
	}
	if err := store.Delete(snapshot.ID()); err != nil {
		return err
	}

	r.logger.Info("snapshot deleted", "sequence", snapshot.Sequence(), "id", snapshot.ID())
	return r.writePlain("✓ Deleted snapshot #%d (%s)\n", snapshot.Sequence(), snapshot.GroupPath())
}

// SnapshotsRestore imports a recorded snapshot into its own list or the one given with --to.
func (r *Runner) SnapshotsRestore(ctx context.Context, cmd *cli.Command) error {
	snapshot, members, err := r.findSnapshot(ctx, cmd.StringArg("ref"))
	if err != nil {
		return err
	}

	target := cmd.String("to")
	if target == "" {
		target = snapshot.GroupPath()
	}

	r.writePlain("Restoring snapshot #%d (%d members) into %s\n", snapshot.Sequence(), len(members), target)
	return r.importMembers(ctx, target, members, cmd.Bool("dry-run"), true)
}

func (r *Runner) findSnapshot(ctx context.Context, ref string) (*models.PersistedSnapshot, []models.Member, error) {
	if ref == "" {
		return nil, nil, fmt.Errorf("%w: snapshot sequence number or id", shared.ErrMissingArgument)
	}

	store, err := r.snapshotStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	snapshot, err := store.Find(ref)
	if err != nil {
		return nil, nil, err
	}
	members, err := store.Members(snapshot)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot #%d: %w", snapshot.Sequence(), err)
	}
	return snapshot, members, nil
}
