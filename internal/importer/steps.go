package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pagebridge/pagebridge/internal/convert"
	"github.com/pagebridge/pagebridge/internal/hierarchy"
	"github.com/pagebridge/pagebridge/internal/model"
	"github.com/pagebridge/pagebridge/internal/notion"
)

// Progress sub-ranges reserved for each stage of the overall bar.
// Filtering ends at 10, mapping reports into 10-25, validation lands at
// 30, and the creation walk interpolates across 30-90. The final 100 is
// emitted by the orchestrator on completion.
const (
	progressFiltered   = 10.0
	progressMapBase    = 10.0
	progressMapSpan    = 15.0
	progressValidated  = 30.0
	progressImportBase = 30.0
	progressImportSpan = 60.0
)

// FilterStep applies the selection filter and counts the leaf pages that
// form the progress denominator. An empty selection result is fatal.
type FilterStep struct {
	emitter *emitter
}

// NewFilterStep creates a FilterStep.
func NewFilterStep(emitter *emitter) *FilterStep {
	return &FilterStep{emitter: emitter}
}

// Name returns the step name.
func (s *FilterStep) Name() string { return "filter_selection" }

// Do executes the selection filter.
func (s *FilterStep) Do(_ context.Context, run *Run) error {
	s.emitter.emit(run, model.StatusProcessing, "Resolving selection", 0)

	run.Filtered = hierarchy.Filter(run.Source, run.Options.SelectedIDs)
	if len(run.Filtered) == 0 {
		return ErrNoSelection
	}

	run.TotalPages = model.CountPages(run.Filtered)

	// Index leaf pages for content conversion during the creation walk.
	for _, nb := range run.Filtered {
		for _, sec := range nb.Sections {
			for _, page := range sec.Pages {
				run.sourcePages[page.ID] = page
			}
		}
	}

	s.emitter.emit(run, model.StatusProcessing,
		fmt.Sprintf("Selected %d pages", run.TotalPages), progressFiltered)
	return nil
}

// AuthStep verifies the API token and connectivity before anything is
// created. A failure here is fatal; aborting before the walk loses no
// work. The orchestrator omits this step on dry runs.
type AuthStep struct {
	api     notion.API
	emitter *emitter
}

// NewAuthStep creates an AuthStep.
func NewAuthStep(api notion.API, emitter *emitter) *AuthStep {
	return &AuthStep{api: api, emitter: emitter}
}

// Name returns the step name.
func (s *AuthStep) Name() string { return "authenticate" }

// Do verifies remote connectivity.
func (s *AuthStep) Do(ctx context.Context, run *Run) error {
	s.emitter.emit(run, model.StatusProcessing, "Verifying workspace access", progressFiltered)

	if err := s.api.Authenticate(ctx); err != nil {
		return &ConnectivityError{Err: err}
	}
	return nil
}

// MapStep transforms the filtered hierarchy into the target page forest,
// reporting per-notebook progress into the mapping window.
type MapStep struct {
	emitter  *emitter
	maxDepth int
	logger   *slog.Logger
}

// NewMapStep creates a MapStep. A maxDepth of zero maps the full
// hierarchy.
func NewMapStep(emitter *emitter, maxDepth int, logger *slog.Logger) *MapStep {
	if maxDepth <= 0 {
		maxDepth = hierarchy.DefaultMaxDepth
	}
	return &MapStep{emitter: emitter, maxDepth: maxDepth, logger: logger}
}

// Name returns the step name.
func (s *MapStep) Name() string { return "map_hierarchy" }

// Do maps the filtered hierarchy.
func (s *MapStep) Do(_ context.Context, run *Run) error {
	mapper := hierarchy.NewMapper(
		hierarchy.WithMaxDepth(s.maxDepth),
		hierarchy.WithMapperLogger(s.logger),
		hierarchy.WithProgressWindow(progressMapBase, progressMapSpan),
		hierarchy.WithProgress(func(percent float64, notebook string) {
			s.emitter.emit(run, model.StatusProcessing, "Mapping "+notebook, percent)
		}),
	)

	run.Mapped = mapper.Map(run.Filtered)
	return nil
}

// ValidateStep checks the referential integrity of the mapped forest.
// The mapper must always produce a valid tree, so a failure here means a
// mapper defect and is fatal.
type ValidateStep struct {
	emitter *emitter
}

// NewValidateStep creates a ValidateStep.
func NewValidateStep(emitter *emitter) *ValidateStep {
	return &ValidateStep{emitter: emitter}
}

// Name returns the step name.
func (s *ValidateStep) Name() string { return "validate_tree" }

// Do validates the mapped forest.
func (s *ValidateStep) Do(_ context.Context, run *Run) error {
	result := hierarchy.Validate(run.Mapped)
	if !result.IsValid {
		return &ValidationError{Problems: result.Errors}
	}

	s.emitter.emit(run, model.StatusProcessing, "Validated page tree", progressValidated)
	return nil
}

// DryRunStep stands in for the creation walk on dry runs: it reports
// every selected page as a would-be success without touching the network.
type DryRunStep struct {
	emitter *emitter
}

// NewDryRunStep creates a DryRunStep.
func NewDryRunStep(emitter *emitter) *DryRunStep {
	return &DryRunStep{emitter: emitter}
}

// Name returns the step name.
func (s *DryRunStep) Name() string { return "dry_run" }

// Do marks all selected pages as would-be successes.
func (s *DryRunStep) Do(_ context.Context, run *Run) error {
	run.SuccessCount = run.TotalPages
	run.ProcessedPages = run.TotalPages

	s.emitter.emit(run, model.StatusImporting, "Dry run, skipping page creation",
		progressImportBase+progressImportSpan)
	return nil
}

// CreateStep walks the mapped forest in pre-order, creating each page on
// the remote workspace. Pre-order guarantees a parent's remote id exists
// before any child references it; children of a failed container are
// skipped rather than misparented.
//
// Per-item failures (conversion or creation) are recorded on the run and
// the walk continues; only cancellation is fatal here.
type CreateStep struct {
	creator   *notion.PageCreator
	converter convert.Converter
	emitter   *emitter
	logger    *slog.Logger
}

// NewCreateStep creates a CreateStep.
func NewCreateStep(creator *notion.PageCreator, converter convert.Converter, emitter *emitter, logger *slog.Logger) *CreateStep {
	return &CreateStep{
		creator:   creator,
		converter: converter,
		emitter:   emitter,
		logger:    logger,
	}
}

// Name returns the step name.
func (s *CreateStep) Name() string { return "create_pages" }

// Do executes the creation walk.
func (s *CreateStep) Do(ctx context.Context, run *Run) error {
	for _, page := range model.FlattenAll(run.Mapped) {
		// Stop promptly between items; counts stay consistent because
		// nothing for this page has been recorded yet.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		parent, ok := s.resolveParent(run, page)
		if !ok {
			s.recordFailure(run, page, fmt.Sprintf("skipped %q: parent was not created", page.Title))
			continue
		}

		if !s.preparePage(run, page) {
			continue
		}

		ref, err := s.creator.Create(ctx, parent, page)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.recordFailure(run, page, fmt.Sprintf("failed to create %q: %v", page.Title, err))
			continue
		}

		run.remoteIDs[page.ID] = ref.ID
		if page.IsLeaf() {
			run.ProcessedPages++
			run.SuccessCount++
		}

		s.logger.Debug("created page",
			"title", page.Title,
			"remote_id", ref.ID,
		)
		s.emitImportProgress(run, "Created "+page.Title)
	}

	return nil
}

// resolveParent determines where the page is created remotely: hierarchy
// roots go under the target database, everything else under its parent's
// remote page. Returns ok=false when the parent was never created.
func (s *CreateStep) resolveParent(run *Run, page *model.TargetPage) (notion.Parent, bool) {
	if page.ParentID == "" {
		return notion.Parent{DatabaseID: run.Options.DatabaseID}, true
	}
	remoteID, ok := run.remoteIDs[page.ParentID]
	if !ok {
		return notion.Parent{}, false
	}
	return notion.Parent{PageID: remoteID}, true
}

// preparePage converts leaf page content ahead of creation. Returns
// false when conversion failed and the page was recorded as failed.
func (s *CreateStep) preparePage(run *Run, page *model.TargetPage) bool {
	src, ok := run.sourcePages[page.ID]
	if !ok {
		// Container pages have no source body to convert.
		return true
	}

	result, err := s.converter.Convert(src, convert.Options{
		IncludeMetadata: run.Options.IncludeMetadata,
	})
	if err != nil {
		s.recordFailure(run, page, fmt.Sprintf("failed to convert %q: %v", page.Title, err))
		return false
	}

	page.Content = result.Content
	for key, value := range result.Properties {
		page.Properties[key] = value
	}
	return true
}

// recordFailure records a per-item failure, advances the leaf counters
// when applicable and emits a progress snapshot.
func (s *CreateStep) recordFailure(run *Run, page *model.TargetPage, msg string) {
	if page.IsLeaf() {
		run.ProcessedPages++
	}
	run.RecordError(msg)

	s.logger.Warn("page import failed",
		"title", page.Title,
		"error", msg,
	)
	s.emitImportProgress(run, msg)
}

// emitImportProgress emits an importing snapshot interpolated across the
// creation window by processed leaf pages.
func (s *CreateStep) emitImportProgress(run *Run, step string) {
	percent := progressImportBase
	if run.TotalPages > 0 {
		percent += float64(run.ProcessedPages) / float64(run.TotalPages) * progressImportSpan
	}
	s.emitter.emit(run, model.StatusImporting, step, percent)
}
