package importer

import (
	"time"

	"github.com/pagebridge/pagebridge/internal/model"
)

// Options configures one import run.
type Options struct {
	// SourcePath is the export file the hierarchy came from.
	// Informational; recorded on the result.
	SourcePath string

	// WorkspaceID is the remote workspace to import into.
	WorkspaceID string

	// DatabaseID is the remote database that receives the hierarchy
	// roots. Required unless DryRun is set.
	DatabaseID string

	// SelectedIDs is the user's selection of notebook, section and page
	// ids. Must not be empty; the filter never defaults to select-all.
	SelectedIDs []string

	// DryRun performs selection and counting but no network calls.
	DryRun bool

	// MaxDepth limits mapping depth; zero means the full hierarchy.
	MaxDepth int

	// IncludeMetadata copies source author/timestamps onto created pages.
	IncludeMetadata bool
}

// Run is the mutable state of one import run, threaded through the
// pipeline steps. Each step reads what earlier steps produced and adds
// its own contribution, mirroring how a scan report accumulates.
//
// All counters are updated synchronously within the single sequential
// walk; the run is never shared between goroutines.
type Run struct {
	// Options is the caller-supplied configuration.
	Options Options

	// Source is the full input hierarchy.
	Source []model.Notebook

	// Filtered is the hierarchy after selection filtering.
	Filtered []model.Notebook

	// TotalPages is the leaf page count of the filtered hierarchy,
	// the progress denominator.
	TotalPages int

	// Mapped is the target page forest produced by the mapper.
	Mapped []*model.TargetPage

	// ProcessedPages counts leaf pages handled: created, failed or skipped.
	ProcessedPages int

	// SuccessCount counts leaf pages created remotely.
	SuccessCount int

	// ErrorCount counts recorded errors.
	ErrorCount int

	// Errors holds recorded error messages in occurrence order.
	Errors []string

	// StartedAt is when the run began.
	StartedAt time.Time

	// sourcePages indexes leaf source pages by id for content conversion
	// during the creation walk.
	sourcePages map[string]model.Page

	// remoteIDs maps target page ids to their created remote ids, so a
	// child can reference its parent's remote identity. A missing entry
	// means the parent was never created and the subtree is skipped.
	remoteIDs map[string]string
}

// NewRun creates the state for one import of the given hierarchy.
func NewRun(source []model.Notebook, opts Options) *Run {
	return &Run{
		Options:     opts,
		Source:      source,
		StartedAt:   time.Now(),
		sourcePages: make(map[string]model.Page),
		remoteIDs:   make(map[string]string),
	}
}

// RecordError appends a per-item error message and bumps the counter.
func (r *Run) RecordError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.ErrorCount++
}

// snapshotErrors returns a copy of the error list safe to hand to a
// progress callback; the run keeps appending to its own slice.
func (r *Run) snapshotErrors() []string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make([]string, len(r.Errors))
	copy(out, r.Errors)
	return out
}
