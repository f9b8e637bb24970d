package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pagebridge/pagebridge/internal/convert"
	"github.com/pagebridge/pagebridge/internal/model"
	"github.com/pagebridge/pagebridge/internal/notion"
)

// emitter delivers progress snapshots built from the current run state.
// A nil callback makes every emit a no-op, so steps never guard.
type emitter struct {
	fn model.ProgressFunc
}

// emit builds and delivers a snapshot. Percent is clamped to 0-100.
func (e *emitter) emit(run *Run, status model.ImportStatus, step string, percent float64) {
	if e.fn == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	e.fn(model.ImportProgress{
		Status:         status,
		CurrentStep:    step,
		Progress:       percent,
		TotalPages:     run.TotalPages,
		ProcessedPages: run.ProcessedPages,
		SuccessCount:   run.SuccessCount,
		ErrorCount:     run.ErrorCount,
		Errors:         run.snapshotErrors(),
	})
}

// Importer orchestrates one import run end to end: selection filtering,
// hierarchy mapping, validation and remote page creation, assembled as a
// step pipeline over shared run state.
//
// An Importer is single-use per Import call but not safe for concurrent
// calls; Batch hands each worker its own instance.
type Importer struct {
	// api issues the remote calls. Ignored on dry runs.
	api notion.API

	// converter turns source page bodies into remote-ready content.
	converter convert.Converter

	// creatorOpts configure the retrying page creator.
	creatorOpts []notion.CreatorOption

	// logger for structured logging.
	logger *slog.Logger

	// readStats reads the current run's creator counters; set per run.
	readStats func() notion.Stats

	// stats holds the network counters of the last completed run.
	stats notion.Stats
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithConverter sets the content converter. Defaults to the Markdown
// converter.
func WithConverter(c convert.Converter) ImporterOption {
	return func(imp *Importer) {
		imp.converter = c
	}
}

// WithCreatorOptions passes options through to the page creator, such as
// the retry bound and backoff.
func WithCreatorOptions(opts ...notion.CreatorOption) ImporterOption {
	return func(imp *Importer) {
		imp.creatorOpts = append(imp.creatorOpts, opts...)
	}
}

// WithLogger sets a custom logger for the importer.
func WithLogger(logger *slog.Logger) ImporterOption {
	return func(imp *Importer) {
		imp.logger = logger
	}
}

// New creates an Importer over the given API.
func New(api notion.API, opts ...ImporterOption) *Importer {
	imp := &Importer{api: api}

	for _, opt := range opts {
		opt(imp)
	}

	if imp.converter == nil {
		imp.converter = convert.NewMarkdownConverter()
	}
	if imp.logger == nil {
		imp.logger = slog.Default()
	}

	return imp
}

// Import runs one import of the given hierarchy and returns its result.
//
// The returned result is never nil. The error is non-nil only for fatal
// failures (empty selection, connectivity, validation, cancellation); the
// same failure is also reflected in the result, so callers that only
// report can ignore the error. Per-page failures never produce an error
// here, they are aggregated into the result.
func (imp *Importer) Import(ctx context.Context, notebooks []model.Notebook, opts Options, onProgress model.ProgressFunc) (*model.ImportResult, error) {
	run := NewRun(notebooks, opts)
	em := &emitter{fn: onProgress}
	imp.readStats = nil

	if !opts.DryRun && opts.DatabaseID == "" {
		return imp.fail(run, ErrMissingDatabase, em), ErrMissingDatabase
	}

	pipe := NewPipeline(WithPipelineLogger(imp.logger))
	pipe.AddSteps(imp.buildSteps(opts, em)...)

	imp.logger.Info("starting import",
		"source", opts.SourcePath,
		"workspace", opts.WorkspaceID,
		"dry_run", opts.DryRun,
		"steps", pipe.StepNames(),
	)

	if err := pipe.Execute(ctx, run); err != nil {
		return imp.fail(run, err, em), err
	}

	result := imp.complete(run, em)
	return result, nil
}

// buildSteps assembles the pipeline for the run. Dry runs skip
// authentication and the network walk entirely; mapping and validation
// are skipped with them since their only consumer is the walk.
func (imp *Importer) buildSteps(opts Options, em *emitter) []Step {
	if opts.DryRun {
		return []Step{
			NewFilterStep(em),
			NewDryRunStep(em),
		}
	}

	creator := notion.NewPageCreator(imp.api,
		append([]notion.CreatorOption{notion.WithCreatorLogger(imp.logger)}, imp.creatorOpts...)...)
	imp.trackStats(creator)

	return []Step{
		NewFilterStep(em),
		NewAuthStep(imp.api, em),
		NewMapStep(em, opts.MaxDepth, imp.logger),
		NewValidateStep(em),
		NewCreateStep(creator, imp.converter, em, imp.logger),
	}
}

// trackStats lets the importer read the creator's counters after the run
// without threading them through the steps. The creator mutates its
// counters during the walk, so the read happens in buildResult.
func (imp *Importer) trackStats(creator *notion.PageCreator) {
	imp.readStats = func() notion.Stats { return creator.Stats() }
}

// complete finalizes a run that executed every step.
func (imp *Importer) complete(run *Run, em *emitter) *model.ImportResult {
	result := imp.buildResult(run)
	result.Success = run.ErrorCount == 0
	result.Message = summarize(run)

	em.emit(run, model.StatusCompleted, "Import completed", 100)

	imp.logger.Info("import finished",
		"success", result.Success,
		"created", result.SuccessCount,
		"errors", result.ErrorCount,
		"duration", result.Duration(),
	)
	return result
}

// fail finalizes a fatally aborted run. The fatal message joins the
// per-item errors recorded before the abort.
func (imp *Importer) fail(run *Run, fatal error, em *emitter) *model.ImportResult {
	run.RecordError(fatal.Error())

	result := imp.buildResult(run)
	result.Success = false
	result.Message = fmt.Sprintf("import failed: %v", fatal)

	em.emit(run, model.StatusError, result.Message, 0)

	imp.logger.Error("import aborted",
		"source", run.Options.SourcePath,
		"error", fatal,
	)
	return result
}

// buildResult copies the run's terminal state into a result.
func (imp *Importer) buildResult(run *Run) *model.ImportResult {
	if imp.readStats != nil {
		imp.stats = imp.readStats()
	}

	return &model.ImportResult{
		TotalPages:   run.TotalPages,
		SuccessCount: run.SuccessCount,
		ErrorCount:   run.ErrorCount,
		Errors:       run.snapshotErrors(),
		SourcePath:   run.Options.SourcePath,
		WorkspaceID:  run.Options.WorkspaceID,
		DatabaseID:   run.Options.DatabaseID,
		DryRun:       run.Options.DryRun,
		StartedAt:    run.StartedAt,
		FinishedAt:   time.Now(),
	}
}

// Stats returns the network counters of the most recent run. Zero for
// dry runs.
func (imp *Importer) Stats() notion.Stats {
	return imp.stats
}

// summarize builds the one-line result message.
func summarize(run *Run) string {
	if run.Options.DryRun {
		return fmt.Sprintf("dry run: %d pages would be imported", run.TotalPages)
	}
	if run.ErrorCount > 0 {
		return fmt.Sprintf("imported %d of %d pages with %d errors",
			run.SuccessCount, run.TotalPages, run.ErrorCount)
	}
	return fmt.Sprintf("imported %d pages", run.SuccessCount)
}
