package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The retry and timeout defaults follow the workspace API's published
// limits; the rest are chosen for typical export sizes.
const (
	// DefaultTimeout is the per-request timeout for workspace API calls.
	// 30 seconds is generous for a single page creation while still
	// failing fast on a dead connection.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxDepth maps the full three-level hierarchy: notebooks,
	// sections and pages. Lower values import containers only.
	DefaultMaxDepth = 3

	// DefaultMaxAttempts bounds creation attempts per page when the API
	// rate-limits. The first call counts, so 3 means at most 2 retries.
	DefaultMaxAttempts = 3

	// DefaultRetryDelay is the base wait between rate-limited attempts
	// when the server does not suggest its own delay. The workspace API
	// allows roughly 3 requests per second, so 1 second is safe.
	DefaultRetryDelay = 1 * time.Second

	// DefaultBatchSize of 4 concurrent file imports balances throughput
	// against the API rate limit; each worker issues its own requests.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "pagebridge"
)

// Config holds all configuration options for PageBridge.
// This struct is designed to be populated from CLI flags and the config
// file, then passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., APIConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Token is the workspace API integration token.
	// Required for real imports; dry runs never touch the network.
	Token string

	// WorkspaceID is the remote workspace to import into.
	// Informational; recorded on results and history entries.
	WorkspaceID string

	// DatabaseID is the remote database that receives hierarchy roots.
	// Required unless DryRun is set.
	DatabaseID string

	// APIBaseURL overrides the workspace API endpoint.
	// Empty means the production endpoint. Mainly used for self-hosted
	// deployments and tests.
	APIBaseURL string

	// Timeout is the per-request timeout for workspace API calls.
	// This bounds one network call; the retry backoff spaces calls apart.
	Timeout time.Duration

	// MaxDepth limits how deep the source hierarchy is mapped.
	// 1 imports notebooks only, 2 adds sections, 3 the full hierarchy.
	MaxDepth int

	// MaxAttempts bounds creation attempts per page on rate limits.
	MaxAttempts int

	// RetryDelay is the base wait between rate-limited attempts.
	RetryDelay time.Duration

	// BatchSize is the number of concurrent file imports when multiple
	// export files are given.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// DryRun resolves the selection and counts pages without creating
	// anything remotely.
	DryRun bool

	// IncludeMetadata copies source author and timestamps onto created
	// pages as properties.
	IncludeMetadata bool

	// SelectedItems is the user's selection of notebook, section and
	// page ids. Must not be empty; an empty selection never means all.
	SelectedItems []string

	// SourcePaths is the list of export files to import.
	SourcePaths []string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .pagebridge in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// Workspaces holds per-workspace configuration loaded from the
	// config file. Populated by LoadConfigFile.
	Workspaces *File

	// JSONReport enables JSON report output instead of the
	// human-readable format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite history database.
	// When set, import results are saved for later inspection.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save import results to the database.
	// Automatically set to true when DBDir is configured.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, retry
// bounds). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		MaxDepth:    DefaultMaxDepth,
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  DefaultRetryDelay,
		BatchSize:   DefaultBatchSize,
	}
}

// XDGDataDir returns the XDG data directory for PageBridge.
// On Linux: ~/.local/share/pagebridge
// On macOS: ~/Library/Application Support/pagebridge
// On Windows: %LOCALAPPDATA%\pagebridge
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for PageBridge.
// On Linux: ~/.config/pagebridge
// On macOS: ~/Library/Application Support/pagebridge
// On Windows: %APPDATA%\pagebridge
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any import begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.SourcePaths) == 0 {
		return ErrNoSource
	}

	if len(c.SelectedItems) == 0 {
		return ErrNoSelection
	}

	// Dry runs never touch the network, so credentials are optional.
	if !c.DryRun {
		if c.Token == "" {
			return ErrNoToken
		}
		if c.DatabaseID == "" {
			return ErrNoDatabase
		}
	}

	// Timeout must be positive; zero would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxDepth < 1 {
		return ErrInvalidMaxDepth
	}

	if c.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.RetryDelay < 0 {
		return ErrInvalidRetryDelay
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
