package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoSource is returned when no export file is specified.
	ErrNoSource = errors.New("no source specified: provide at least one export file")

	// ErrNoSelection is returned when no notebooks, sections or pages are
	// selected. An empty selection is never treated as select-all.
	ErrNoSelection = errors.New("no selection specified: use --select to choose notebooks, sections or pages")

	// ErrNoToken is returned when a real import is started without an API
	// token. Dry runs do not require one.
	ErrNoToken = errors.New("no API token specified: use --token, the config file, or the PAGEBRIDGE_TOKEN environment variable")

	// ErrNoDatabase is returned when a real import is started without a
	// target database id. Dry runs do not require one.
	ErrNoDatabase = errors.New("no target database specified: use --database or the config file")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxDepth is returned when the mapping depth is below 1.
	// Depth 1 imports notebooks only; there is no meaningful depth 0 import.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be at least 1")

	// ErrInvalidMaxAttempts is returned when the retry bound is below 1.
	// The first creation attempt counts, so at least one is required.
	ErrInvalidMaxAttempts = errors.New("invalid max attempts: must be at least 1")

	// ErrInvalidRetryDelay is returned when the retry delay is negative.
	// Use 0 to retry immediately after a rate limit.
	ErrInvalidRetryDelay = errors.New("invalid retry delay: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent imports, effectively
	// stopping the import process.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
