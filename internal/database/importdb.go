package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pagebridge/pagebridge/internal/model"
)

// ImportDB provides SQLite-based storage for import run history.
// It manages connection pooling and provides methods for saving and
// querying past runs.
//
// Design decision: We use a single database file for all workspaces
// rather than one file per workspace. This simplifies history queries
// across workspaces and backup/restore operations.
type ImportDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ImportDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an ImportDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ImportDB, error) {
	dbPath := filepath.Join(dbDir, "pagebridge.db")

	// Check if we should create the database or require it to exist
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		// Ensure directory exists
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	// SQLite doesn't benefit from multiple connections for writes,
	// but multiple readers can improve performance
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	idb := &ImportDB{
		db:     db,
		dbPath: dbPath,
	}

	// Enable WAL mode if requested
	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Create tables
	if err := idb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return idb, nil
}

// Close closes the database connection.
func (idb *ImportDB) Close() error {
	return idb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (idb *ImportDB) createTables() error {
	schema := `
	-- Import runs store one row per completed or aborted run.
	-- The full result is kept as JSON; the summary columns exist so
	-- history listings never parse the JSON.
	CREATE TABLE IF NOT EXISTS import_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_path TEXT NOT NULL,
		workspace_id TEXT,
		database_id TEXT,
		success INTEGER NOT NULL,
		dry_run INTEGER NOT NULL,
		total_pages INTEGER NOT NULL,
		success_count INTEGER NOT NULL,
		error_count INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source ON import_runs(source_path);
	CREATE INDEX IF NOT EXISTS idx_runs_workspace ON import_runs(workspace_id);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON import_runs(timestamp);
	`

	_, err := idb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveResult saves a completed import result and returns its row id.
func (idb *ImportDB) SaveResult(ctx context.Context, result *model.ImportResult) (int64, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize result: %w", err)
	}

	query := `
	INSERT INTO import_runs (source_path, workspace_id, database_id, success, dry_run,
		total_pages, success_count, error_count, result_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := idb.db.ExecContext(ctx, query,
		result.SourcePath,
		result.WorkspaceID,
		result.DatabaseID,
		boolToInt(result.Success),
		boolToInt(result.DryRun),
		result.TotalPages,
		result.SuccessCount,
		result.ErrorCount,
		string(resultJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save import result: %w", err)
	}

	return res.LastInsertId()
}

// RunMetadata contains summary information about a stored import run.
// This is used for displaying history without loading the full result.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// SourcePath is the export file the run imported.
	SourcePath string

	// WorkspaceID is the remote workspace the run targeted.
	WorkspaceID string

	// Success is whether the run completed without errors.
	Success bool

	// DryRun is whether the run created anything remotely.
	DryRun bool

	// TotalPages is the number of leaf pages selected.
	TotalPages int

	// SuccessCount is the number of leaf pages created.
	SuccessCount int

	// ErrorCount is the number of recorded errors.
	ErrorCount int

	// Timestamp is when the run was saved.
	Timestamp time.Time
}

// ListRuns retrieves run metadata, most recent first. When workspaceID is
// non-empty, only runs targeting that workspace are returned. A limit of
// 0 returns all runs.
func (idb *ImportDB) ListRuns(ctx context.Context, workspaceID string, limit int) ([]RunMetadata, error) {
	query := `
	SELECT id, source_path, workspace_id, success, dry_run,
		total_pages, success_count, error_count, timestamp
	FROM import_runs
	WHERE 1=1
	`
	args := make([]any, 0)

	if workspaceID != "" {
		query += " AND workspace_id = ?"
		args = append(args, workspaceID)
	}

	query += " ORDER BY timestamp DESC, id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := idb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var success, dryRun int
		var timestamp string

		err := rows.Scan(
			&meta.ID,
			&meta.SourcePath,
			&meta.WorkspaceID,
			&success,
			&dryRun,
			&meta.TotalPages,
			&meta.SuccessCount,
			&meta.ErrorCount,
			&timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run metadata: %w", err)
		}

		meta.Success = success != 0
		meta.DryRun = dryRun != 0
		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetRunByID retrieves a full import result by its database id.
// Returns nil without error when no such run exists.
func (idb *ImportDB) GetRunByID(ctx context.Context, id int64) (*model.ImportResult, error) {
	query := `
	SELECT result_json FROM import_runs
	WHERE id = ?
	`

	var resultJSON string
	err := idb.db.QueryRowContext(ctx, query, id).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import run: %w", err)
	}

	var result model.ImportResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse result: %w", err)
	}

	return &result, nil
}

// GetLatestRun retrieves the most recent result for a source file.
// Returns nil without error when the file was never imported.
func (idb *ImportDB) GetLatestRun(ctx context.Context, sourcePath string) (*model.ImportResult, error) {
	query := `
	SELECT result_json FROM import_runs
	WHERE source_path = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var resultJSON string
	err := idb.db.QueryRowContext(ctx, query, sourcePath).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import run: %w", err)
	}

	var result model.ImportResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse result: %w", err)
	}

	return &result, nil
}

// ListSources returns the distinct source files with stored runs.
func (idb *ImportDB) ListSources(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT source_path FROM import_runs
	ORDER BY source_path
	`

	rows, err := idb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// boolToInt converts a bool to the 0/1 representation SQLite stores.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	// Return zero time if no format matches
	return time.Time{}
}
