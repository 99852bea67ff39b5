package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solotter/internal/formatter"
	"github.com/desertthunder/solotter/internal/groups"
	"github.com/desertthunder/solotter/internal/models"
	"github.com/desertthunder/solotter/internal/shared"
	"github.com/desertthunder/solotter/internal/tasks"
)

type groupView struct {
	Path    string `json:"path"`
	Type    string `json:"type"`
	Mutable bool   `json:"mutable"`
}

// GroupsList prints the friends, followers and lists owned by a user.
func (r *Runner) GroupsList(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.engine(ctx, false)
	if err != nil {
		return err
	}

	all, err := engine.Groups(ctx, cmd.String("handle"), nil)
	if err != nil {
		return err
	}

	views := make([]groupView, len(all))
	for i, g := range all {
		views[i] = groupView{Path: g.Path(), Type: g.Key().Type.String(), Mutable: groups.Mutable(g)}
	}

	if cmd.Bool("json") {
		return r.writeJSON(views, true)
	}

	for _, v := range views {
		access := "read-only"
		if v.Mutable {
			access = "editable"
		}
		r.writePlain("%-40s %-10s %s\n", v.Path, v.Type, access)
	}
	return nil
}

// GroupsExport prints or saves the members of one group.
func (r *Runner) GroupsExport(ctx context.Context, cmd *cli.Command) error {
	path, err := requirePath(cmd.StringArg("path"))
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	engine, err := r.engine(ctx, !cmd.Bool("no-history"))
	if err != nil {
		return err
	}

	export, err := engine.Export(ctx, path, nil)
	if err != nil {
		return err
	}

	data, err := formatter.Render(export, format)
	if err != nil {
		return err
	}

	outputFile := cmd.String("output")
	if outputFile == "" || outputFile == "-" {
		_, err := r.output.Write(data)
		return err
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	r.logger.Infof("group exported to %v with %v members", outputFile, len(export.Members))

	r.writePlain("✓ Group exported to %s\n", outputFile)
	r.writePlain("  Group: %s\n", export.Path)
	r.writePlain("  Members: %d\n", len(export.Members))
	return nil
}

// GroupsDiff compares a group with a snapshot file without changing the group.
func (r *Runner) GroupsDiff(ctx context.Context, cmd *cli.Command) error {
	path, err := requirePath(cmd.StringArg("path"))
	if err != nil {
		return err
	}
	members, err := readSnapshot(cmd.String("from"))
	if err != nil {
		return err
	}

	engine, err := r.engine(ctx, false)
	if err != nil {
		return err
	}

	result, err := engine.Diff(ctx, path, members, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Diff, true)
	}
	r.printDiff(result.Current, result.Diff)
	return nil
}

// GroupsImport makes a list's members match a snapshot file.
func (r *Runner) GroupsImport(ctx context.Context, cmd *cli.Command) error {
	path, err := requirePath(cmd.StringArg("path"))
	if err != nil {
		return err
	}
	members, err := readSnapshot(cmd.String("from"))
	if err != nil {
		return err
	}

	return r.importMembers(ctx, path, members, cmd.Bool("dry-run"), !cmd.Bool("no-history"))
}

// importMembers is shared by groups import and snapshots restore.
func (r *Runner) importMembers(ctx context.Context, path string, members []models.Member, dryRun, withHistory bool) error {
	engine, err := r.engine(ctx, withHistory && !dryRun)
	if err != nil {
		return err
	}

	if dryRun {
		result, err := engine.Diff(ctx, path, members, nil)
		if err != nil {
			return err
		}
		r.printDiff(result.Current, result.Diff)
		return r.writePlain("\nDry run: nothing was changed.\n")
	}

	r.logger.Info("starting import", "group", path, "members", len(members))

	progress, stop := r.streamProgress()
	result, err := engine.Import(ctx, path, members, progress)
	stop()

	if result != nil {
		r.printImport(result)
	}
	return err
}

// GroupsBulkExport exports every group of a user into a directory.
func (r *Runner) GroupsBulkExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	engine, err := r.engine(ctx, false)
	if err != nil {
		return err
	}

	progress, stop := r.streamProgress()
	result, err := engine.BulkExport(ctx, progress, cmd.String("handle"), tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	stop()
	if err != nil {
		return err
	}

	m := result.Manifest
	r.writePlain("\n")
	r.writePlainHeader("Bulk Export Complete")
	r.writePlain("Handle: @%s\n", m.Handle)
	r.writePlain("Exported: %d/%d groups\n", m.Succeeded, len(m.Groups))
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)

	if m.Failed > 0 {
		r.writePlain("\nFailed to export %d groups:\n", m.Failed)
		for _, entry := range m.Groups {
			if entry.Error != "" {
				r.writePlain("  - %s: %s\n", entry.Path, entry.Error)
			}
		}
	}
	return nil
}

func (r *Runner) printDiff(current *models.GroupExport, diff models.MembershipDiff) {
	r.writePlain("Group: %s (%d members)\n", current.Path, len(current.Members))
	if diff.Empty() {
		r.writePlain("✓ No changes: the group already matches the snapshot\n")
		return
	}

	r.writePlain("%d to remove, %d to add\n\n", len(diff.Removed), len(diff.Added))
	r.output.Write(formatter.DiffToText(diff))
}

func (r *Runner) printImport(result *tasks.ImportResult) {
	if result.Diff.Empty() {
		r.writePlain("✓ No changes: %s already matches the snapshot\n", result.Path)
		return
	}

	r.writePlain("\n")
	if result.Complete() {
		r.writePlainHeader("Import Complete")
	} else {
		r.writePlainHeader("Import Incomplete")
	}
	r.writePlain("Group: %s\n", result.Path)
	r.writePlain("Removed: %d/%d\n", result.Removed, len(result.Diff.Removed))
	r.writePlain("Added: %d/%d\n", result.Added, len(result.Diff.Added))

	if result.Backup != nil {
		r.writePlain("\nPrevious members saved as snapshot #%d.\n", result.Backup.Sequence())
		r.writePlain("Undo with: solotter snapshots restore %d\n", result.Backup.Sequence())
	}
}

func requirePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: group path (e.g. @handle/_friends or my-list)", shared.ErrMissingArgument)
	}
	return path, nil
}

func readSnapshot(file string) ([]models.Member, error) {
	data, err := shared.VerifyAndReadFile(file)
	if err != nil {
		return nil, err
	}
	members, err := formatter.ParseSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return members, nil
}
