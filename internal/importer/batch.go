package importer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pagebridge/pagebridge/internal/extract"
	"github.com/pagebridge/pagebridge/internal/model"
	"golang.org/x/sync/errgroup"
)

// Batch imports multiple export files concurrently, each through its own
// Importer instance.
//
// Design decision: Batch lives beside Importer rather than inside it
// because an Importer carries per-run creator counters that are not
// synchronized. The factory hands each worker a fresh instance, so no
// state leaks between concurrent runs.
type Batch struct {
	// importerFactory creates a fresh Importer for each source file.
	importerFactory func() *Importer

	// provider reads export files into hierarchies.
	provider extract.Provider

	// concurrency is the maximum number of simultaneous imports.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results collects per-file results. Access is synchronized via mutex.
	results []*model.ImportResult
	mu      sync.Mutex
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) {
		b.logger = logger
	}
}

// WithBatchConcurrency sets the maximum number of simultaneous imports.
// Default is 4 if not specified.
func WithBatchConcurrency(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatch creates a Batch over the given importer factory and provider.
func NewBatch(importerFactory func() *Importer, provider extract.Provider, opts ...BatchOption) *Batch {
	b := &Batch{
		importerFactory: importerFactory,
		provider:        provider,
		concurrency:     4,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Run imports each source file concurrently within the concurrency
// limit. The per-file options are derived from opts with SourcePath
// replaced per file. Results keep the order of the input paths.
//
// A failed file does not stop the others; its failure is captured in its
// result. The error return reports cancellation only.
func (b *Batch) Run(ctx context.Context, paths []string, opts Options) ([]*model.ImportResult, error) {
	b.logger.Info("starting batch import",
		"total_files", len(paths),
		"concurrency", b.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate to keep result order aligned with input order.
	b.results = make([]*model.ImportResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result := b.importOne(ctx, path, opts)

			b.mu.Lock()
			b.results[i] = result
			b.mu.Unlock()

			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}

	err := g.Wait()

	b.logger.Info("batch import complete",
		"total_files", len(paths),
		"elapsed", time.Since(startTime),
	)

	return b.results, err
}

// importOne extracts and imports a single file. Extraction failures are
// folded into a failed result so the batch output stays uniform.
func (b *Batch) importOne(ctx context.Context, path string, opts Options) *model.ImportResult {
	fileOpts := opts
	fileOpts.SourcePath = path

	notebooks, err := b.provider.Extract(ctx, path)
	if err != nil {
		b.logger.Warn("extraction failed",
			"source", path,
			"error", err,
		)
		now := time.Now()
		return &model.ImportResult{
			Success:    false,
			ErrorCount: 1,
			Errors:     []string{err.Error()},
			Message:    "extraction failed: " + err.Error(),
			SourcePath: path,
			DryRun:     fileOpts.DryRun,
			StartedAt:  now,
			FinishedAt: now,
		}
	}

	imp := b.importerFactory()
	result, err := imp.Import(ctx, notebooks, fileOpts, nil)
	if err != nil {
		// Fatal failures are already reflected in the result; the batch
		// keeps going with the remaining files.
		b.logger.Warn("import failed",
			"source", path,
			"error", err,
		)
	}
	return result
}
