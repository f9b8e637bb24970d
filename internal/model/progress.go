package model

// ImportStatus represents the state of an import run.
// The state machine is: idle → processing → importing → completed,
// with error as a parallel terminal state reachable from any non-terminal
// state on a fatal failure. Per-page creation failures never move the run
// to StatusError; they are recorded and the run still completes.
type ImportStatus int

const (
	// StatusIdle means the import has not started yet.
	StatusIdle ImportStatus = iota

	// StatusProcessing covers the pre-network stages: selection filtering,
	// page counting, mapping and validation.
	StatusProcessing

	// StatusImporting means remote pages are being created.
	StatusImporting

	// StatusCompleted means the run finished. The run may still carry
	// per-page errors; check ImportResult.Success.
	StatusCompleted

	// StatusError means a fatal error aborted the run before completion.
	StatusError
)

// String returns the lowercase status name used in progress output.
func (s ImportStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusProcessing:
		return "processing"
	case StatusImporting:
		return "importing"
	case StatusCompleted:
		return "completed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is a terminal state.
func (s ImportStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// ImportProgress is a point-in-time snapshot of an import run, delivered
// to the caller's progress callback at each stage boundary and after each
// page creation.
//
// Design decision: Progress is delivered through an explicit callback
// parameter rather than an optional field on an options struct. A required,
// strongly-typed callback makes the reporting contract visible at the call
// site; callers that don't care pass a no-op.
type ImportProgress struct {
	// Status is the current state of the run.
	Status ImportStatus `json:"status"`

	// CurrentStep is a human-readable description of the current stage.
	CurrentStep string `json:"current_step"`

	// Progress is the overall completion percentage, 0-100. Each stage
	// reports into a reserved sub-range of the bar (mapping into 10-25,
	// page creation into 30-90, and so on).
	Progress float64 `json:"progress"`

	// TotalPages is the number of leaf pages selected for import.
	TotalPages int `json:"total_pages"`

	// ProcessedPages is the number of leaf pages handled so far,
	// whether created, failed or skipped.
	ProcessedPages int `json:"processed_pages"`

	// SuccessCount is the number of leaf pages created remotely.
	SuccessCount int `json:"success_count"`

	// ErrorCount is the number of errors recorded so far.
	ErrorCount int `json:"error_count"`

	// Errors contains the error messages recorded so far.
	Errors []string `json:"errors,omitempty"`
}

// ProgressFunc receives progress snapshots during an import run.
// The snapshot is owned by the callee; the importer does not mutate a
// snapshot after delivering it.
type ProgressFunc func(ImportProgress)
