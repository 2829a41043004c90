package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gnana997/uidocgen/pkg/docgen"
)

// Generate discovers the files under root and documents them in parallel.
// Results are sorted by path. Per-file failures are reported in the
// results; the returned error covers discovery only.
func Generate(ctx context.Context, gen *docgen.Generator, root string, opts Options, progress ProgressCallback, logger *slog.Logger) ([]Result, *Stats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	files, err := Discover(root, opts.Include, opts.Exclude)
	if err != nil {
		return nil, nil, fmt.Errorf("file discovery failed: %w", err)
	}
	logger.Info("file discovery complete", "root", root, "files_found", len(files))

	results, stats := Run(ctx, gen, files, opts, progress, logger)
	stats.FilesDiscovered = len(files)
	stats.Duration = time.Since(start)

	logger.Info("workspace documented",
		"files_documented", stats.FilesDocumented,
		"files_failed", stats.FilesFailed,
		"definitions", stats.Definitions,
		"duration_ms", stats.Duration.Milliseconds())
	return results, stats, nil
}

// Run documents files in parallel. Files not yet started when ctx is
// cancelled have no result.
func Run(ctx context.Context, gen *docgen.Generator, files []string, opts Options, progress ProgressCallback, logger *slog.Logger) ([]Result, *Stats) {
	pool := NewWorkerPool(opts.Workers, gen, opts, logger)
	pool.Start(ctx)

	// Submit from a separate goroutine so a full queue cannot stall the
	// collector below.
	go func() {
		defer pool.Stop()
		for _, path := range files {
			if err := pool.Submit(path); err != nil {
				return
			}
		}
	}()

	stats := &Stats{WorkerCount: pool.numWorkers}
	results := make([]Result, 0, len(files))
	for r := range pool.Results() {
		if r.Err != nil {
			stats.FilesFailed++
		} else {
			stats.FilesDocumented++
			stats.Definitions += len(r.Docs)
		}
		results = append(results, r)
		if progress != nil {
			progress(len(results), len(files), r.Path)
		}
	}
	stats.Cancelled = ctx.Err() != nil

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, stats
}
