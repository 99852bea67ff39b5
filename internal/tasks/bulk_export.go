package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/desertthunder/solotter/internal/formatter"
	"github.com/desertthunder/solotter/internal/groups"
)

// ManifestName is the file written alongside a bulk export.
const ManifestName = "export_manifest.json"

// BulkExportOpts contains configuration for bulk group exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format: json, csv, markdown, txt
	OutputDir  string           // Base output directory (default: {handle}_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 3)
	RateLimit  float64          // Group fetches per second (default: 1)
}

// BulkExportResult contains the outcome of a bulk export.
type BulkExportResult struct {
	OutputDirectory string
	ManifestPath    string
	Manifest        *formatter.Manifest
}

// BulkExport exports every group owned by handle into opts.OutputDir, one file per group, plus a manifest.
//
// Groups are fetched by a bounded worker pool sharing a single rate limiter. A group that fails to export is
// recorded in the manifest and does not stop the others.
func (e *GroupEngine) BulkExport(ctx context.Context, progress chan<- ProgressUpdate, handle string, opts BulkExportOpts) (*BulkExportResult, error) {
	format, err := formatter.ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	opts.Format = format
	if handle == "" {
		handle = e.handle
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("%s_export_%d", handle, e.now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 1.0
	}

	all, err := e.Groups(ctx, handle, progress)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manifest := &formatter.Manifest{
		Handle:     handle,
		Format:     opts.Format,
		ExportedAt: e.now(),
		Groups:     make([]formatter.ManifestEntry, len(all)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	total := len(all)

	var (
		mu        sync.Mutex
		completed int
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.NumWorkers)

	for i, g := range all {
		eg.Go(func() error {
			if err := limiter.Wait(egCtx); err != nil {
				return err
			}

			entry, err := e.exportOne(egCtx, g, opts)

			mu.Lock()
			defer mu.Unlock()
			completed++
			manifest.Groups[i] = entry
			if err != nil {
				manifest.Failed++
				e.logger.Warn("group export failed", "group", g.Path(), "error", err)
				e.sendProgress(progress, exportFailedUpdate(completed, total, g.Path(), err))
				return nil
			}
			manifest.Succeeded++
			e.sendProgress(progress, exportCompletedUpdate(completed, total, g.Path(), entry.MemberCount))
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("bulk export interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("bulk export interrupted: %w", err)
	}

	result := &BulkExportResult{OutputDirectory: opts.OutputDir, Manifest: manifest}
	manifestPath := filepath.Join(opts.OutputDir, ManifestName)
	if err := formatter.WriteManifest(manifest, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but %w", err)
	}
	result.ManifestPath = manifestPath

	e.logger.Info("bulk export complete", "handle", handle, "succeeded", manifest.Succeeded, "failed", manifest.Failed)
	return result, nil
}

// exportOne fetches and writes a single group.
func (e *GroupEngine) exportOne(ctx context.Context, g groups.Group, opts BulkExportOpts) (formatter.ManifestEntry, error) {
	entry := formatter.ManifestEntry{Path: g.Path(), Type: g.Key().Type.String()}

	members, err := g.FetchMembers(ctx)
	if err != nil {
		entry.Error = err.Error()
		return entry, err
	}
	entry.MemberCount = len(members)

	export := newExport(g, members, e.now())
	file, err := formatter.WriteExport(export, opts.Format, opts.OutputDir)
	if err != nil {
		entry.Error = err.Error()
		return entry, err
	}
	entry.File = filepath.Base(file)
	return entry, nil
}
