package model

import "time"

// ImportResult is the final outcome of an import run.
// Exactly one result is returned per run, fatal or not: a fatally aborted
// run yields a result with Success=false and the fatal error message, and
// a completed run yields the aggregated per-page outcome.
type ImportResult struct {
	// Success is true when the run completed with no errors.
	Success bool `json:"success"`

	// TotalPages is the number of leaf pages selected for import.
	TotalPages int `json:"total_pages"`

	// SuccessCount is the number of leaf pages created remotely.
	SuccessCount int `json:"success_count"`

	// ErrorCount is the number of errors recorded during the run.
	ErrorCount int `json:"error_count"`

	// Errors contains all recorded error messages in occurrence order.
	Errors []string `json:"errors,omitempty"`

	// Message is a one-line human-readable summary of the run.
	Message string `json:"message"`

	// SourcePath is the export file the hierarchy was read from.
	// Empty when the hierarchy was supplied directly by the caller.
	SourcePath string `json:"source_path,omitempty"`

	// WorkspaceID is the remote workspace the run targeted.
	WorkspaceID string `json:"workspace_id,omitempty"`

	// DatabaseID is the remote database the run targeted.
	DatabaseID string `json:"database_id,omitempty"`

	// DryRun is true when no remote objects were created.
	DryRun bool `json:"dry_run"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run reached a terminal state.
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns how long the run took.
func (r *ImportResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
