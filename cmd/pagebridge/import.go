package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pagebridge/pagebridge/internal/config"
	"github.com/pagebridge/pagebridge/internal/database"
	"github.com/pagebridge/pagebridge/internal/extract"
	"github.com/pagebridge/pagebridge/internal/importer"
	"github.com/pagebridge/pagebridge/internal/log"
	"github.com/pagebridge/pagebridge/internal/model"
	"github.com/pagebridge/pagebridge/internal/notion"
	"github.com/pagebridge/pagebridge/internal/report"
	"github.com/spf13/cobra"
)

// tokenEnvVar is the environment variable consulted when no token is
// given via flag or config file. Keeps the token out of shell history.
const tokenEnvVar = "PAGEBRIDGE_TOKEN"

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [export-file...]",
		Short: "Import exported notebooks into a remote workspace",
		Long: `Import reads notebook export files and recreates the selected hierarchy
as pages in a remote workspace database.

The selection is required and never defaults to everything: pass the ids
of the notebooks, sections or pages to import with --select. Selecting a
container includes everything beneath it. Parents are always created
before their children, so the remote tree mirrors the source.

Examples:
  # Preview what a selection would import, no credentials needed
  pagebridge import --select nb-work --dry-run export.json

  # Import one notebook into a workspace database
  pagebridge import --select nb-work --database db-123 --token ntn_abc export.json

  # Use a named workspace from the .pagebridge config file
  pagebridge import --select nb-work --use team export.json

  # Import several export files concurrently
  pagebridge import --select nb-work --use team week1.json week2.json week3.json

  # Write a Markdown report to a file
  pagebridge import --select nb-work --use team --markdown -o report.md export.json

Configuration file (.pagebridge) example:
  defaults:
    includeMetadata: true
  workspaces:
    team:
      token: "ntn_abc123"
      databaseId: "db-123"`,
		Args: cobra.ArbitraryArgs,
		RunE: runImportCmd,
	}

	// Workspace connection flags
	cmd.Flags().StringP("token", "t", "",
		"Workspace API integration token (or set "+tokenEnvVar+")")
	cmd.Flags().StringP("workspace", "w", "",
		"Remote workspace identifier recorded on results")
	cmd.Flags().StringP("database", "d", "",
		"Remote database that receives imported hierarchy roots")
	cmd.Flags().String("api-url", "",
		"Override the workspace API endpoint (self-hosted deployments)")
	cmd.Flags().DurationP("timeout", "T", config.DefaultTimeout,
		"Per-request timeout for workspace API calls")

	// Selection flags
	cmd.Flags().StringSliceP("select", "s", nil,
		"Notebook, section or page ids to import (repeatable or comma-separated)")
	cmd.Flags().Int("depth", config.DefaultMaxDepth,
		"Hierarchy mapping depth: 1 notebooks only, 2 adds sections, 3 full")
	cmd.Flags().Bool("include-metadata", false,
		"Copy source author and timestamps onto created pages")

	// Import behavior flags
	cmd.Flags().BoolP("dry-run", "n", false,
		"Resolve the selection and count pages without creating anything")
	cmd.Flags().Int("max-attempts", config.DefaultMaxAttempts,
		"Creation attempts per page when the API rate-limits")
	cmd.Flags().Duration("retry-delay", config.DefaultRetryDelay,
		"Base wait between rate-limited attempts")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent imports when multiple export files are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pagebridge in current or home directory)")
	cmd.Flags().StringP("use", "u", "",
		"Workspace alias from the configuration file")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runImportCmd executes the import command.
func runImportCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with token sanitization
	verbose := getVerboseFlag(cmd)
	cfg.Verbose = verbose
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runImport(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.Token, err = cmd.Flags().GetString("token")
	if err != nil {
		return nil, err
	}

	cfg.WorkspaceID, err = cmd.Flags().GetString("workspace")
	if err != nil {
		return nil, err
	}

	cfg.DatabaseID, err = cmd.Flags().GetString("database")
	if err != nil {
		return nil, err
	}

	cfg.APIBaseURL, err = cmd.Flags().GetString("api-url")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.SelectedItems, err = cmd.Flags().GetStringSlice("select")
	if err != nil {
		return nil, err
	}

	cfg.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.IncludeMetadata, err = cmd.Flags().GetBool("include-metadata")
	if err != nil {
		return nil, err
	}

	cfg.DryRun, err = cmd.Flags().GetBool("dry-run")
	if err != nil {
		return nil, err
	}

	cfg.MaxAttempts, err = cmd.Flags().GetInt("max-attempts")
	if err != nil {
		return nil, err
	}

	cfg.RetryDelay, err = cmd.Flags().GetDuration("retry-delay")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load workspace configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Workspaces, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.Workspaces = &config.File{
			Workspaces: make(map[string]config.WorkspaceConfig),
		}
	}

	// Apply the workspace alias (or the file defaults when no alias is
	// given). Flags win over the config file.
	alias, err := cmd.Flags().GetString("use")
	if err != nil {
		return nil, err
	}
	if alias != "" {
		if _, ok := cfg.Workspaces.Workspaces[alias]; !ok {
			return nil, fmt.Errorf("workspace alias %q not found in configuration file", alias)
		}
	}
	applyWorkspaceConfig(cfg, cfg.Workspaces.GetWorkspaceConfig(alias))

	// Environment fallback for the token
	if cfg.Token == "" {
		cfg.Token = os.Getenv(tokenEnvVar)
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Always save history using XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	// Get positional arguments (export file paths)
	cfg.SourcePaths = args

	return cfg, nil
}

// applyWorkspaceConfig fills gaps in cfg from a config file entry.
// Values already set through flags are kept.
func applyWorkspaceConfig(cfg *config.Config, ws config.WorkspaceConfig) {
	if cfg.Token == "" {
		cfg.Token = ws.Token
	}
	if cfg.WorkspaceID == "" {
		cfg.WorkspaceID = ws.WorkspaceID
	}
	if cfg.DatabaseID == "" {
		cfg.DatabaseID = ws.DatabaseID
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = ws.BaseURL
	}
	if ws.IncludeMetadata {
		cfg.IncludeMetadata = true
	}
}

// runImport executes the import.
func runImport(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting import",
		"sources", cfg.SourcePaths,
		"workspace", cfg.WorkspaceID,
		"dryRun", cfg.DryRun,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open history database if saving is enabled
	var db *database.ImportDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("history database opened", "dir", cfg.DBDir)
	}

	// Dry runs never touch the network, so no client is built for them
	var api notion.API
	if !cfg.DryRun {
		client, err := buildClient(cfg, logger)
		if err != nil {
			return err
		}
		api = client
	}

	// Each run gets its own Importer; the factory also serves the batch
	// path where workers must not share creator counters.
	factory := func() *importer.Importer {
		return importer.New(api,
			importer.WithLogger(logger),
			importer.WithCreatorOptions(
				notion.WithMaxAttempts(cfg.MaxAttempts),
				notion.WithBackoff(cfg.RetryDelay),
			),
		)
	}

	opts := importer.Options{
		WorkspaceID:     cfg.WorkspaceID,
		DatabaseID:      cfg.DatabaseID,
		SelectedIDs:     cfg.SelectedItems,
		DryRun:          cfg.DryRun,
		MaxDepth:        cfg.MaxDepth,
		IncludeMetadata: cfg.IncludeMetadata,
	}

	provider := extract.NewJSONProvider()

	// Use the batch importer for parallel runs if multiple files
	if len(cfg.SourcePaths) > 1 && cfg.BatchSize > 1 {
		return runBatchImport(ctx, cfg, factory, provider, opts, db, logger)
	}

	// Single file or sequential imports
	return runSequentialImport(ctx, cfg, factory, provider, opts, db, logger)
}

// buildClient creates the workspace API client from the configuration.
func buildClient(cfg *config.Config, logger *slog.Logger) (*notion.Client, error) {
	clientOpts := []notion.ClientOption{
		notion.WithTimeout(cfg.Timeout),
		notion.WithClientLogger(logger),
	}
	if cfg.APIBaseURL != "" {
		clientOpts = append(clientOpts, notion.WithBaseURL(cfg.APIBaseURL))
	}

	client, err := notion.NewClient(cfg.Token, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace client: %w", err)
	}
	return client, nil
}

// runSequentialImport imports export files one at a time with live
// progress output.
func runSequentialImport(ctx context.Context, cfg *config.Config, factory func() *importer.Importer, provider extract.Provider, opts importer.Options, db *database.ImportDB, logger *slog.Logger) error {
	for _, path := range cfg.SourcePaths {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("Importing %s...\n", path)
		startTime := time.Now()

		notebooks, err := provider.Extract(ctx, path)
		if err != nil {
			logger.Error("extraction failed", "source", path, "error", err)
			fmt.Fprintf(os.Stderr, "Extraction error for %s: %v\n", path, err)
			continue
		}

		fileOpts := opts
		fileOpts.SourcePath = path

		imp := factory()
		printer := newProgressPrinter(os.Stdout)

		// The result reflects fatal failures too, so reporting and
		// history saving happen either way.
		result, err := imp.Import(ctx, notebooks, fileOpts, printer.Print)
		if err != nil {
			logger.Error("import failed", "source", path, "error", err)
			fmt.Fprintf(os.Stderr, "Import error for %s: %v\n", path, err)
		} else {
			elapsed := time.Since(startTime)
			fmt.Printf("Import completed in %s\n", elapsed.Round(time.Millisecond))
		}
		fmt.Println()
		formatResultSummary(os.Stdout, result, imp.Stats())

		// Generate and output report
		if err := outputReport(cfg, result); err != nil {
			logger.Error("report failed", "source", path, "error", err)
		}

		// Save to history database if enabled
		if err := saveImportResult(ctx, db, result, logger); err != nil {
			logger.Error("failed to save import result", "source", path, "error", err)
		}
	}

	return nil
}

// runBatchImport imports multiple export files concurrently.
func runBatchImport(ctx context.Context, cfg *config.Config, factory func() *importer.Importer, provider extract.Provider, opts importer.Options, db *database.ImportDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch import of %d files (concurrency: %d)...\n\n",
		len(cfg.SourcePaths), cfg.BatchSize)

	startTime := time.Now()

	batch := importer.NewBatch(factory, provider,
		importer.WithBatchConcurrency(cfg.BatchSize),
		importer.WithBatchLogger(logger),
	)

	results, err := batch.Run(ctx, cfg.SourcePaths, opts)

	for i, result := range results {
		if result == nil {
			// Cancelled before this file was picked up
			continue
		}

		fmt.Printf("[%d/%d] %s: %s\n", i+1, len(results), result.SourcePath, result.Message)

		if rErr := outputReport(cfg, result); rErr != nil {
			logger.Error("report failed", "source", result.SourcePath, "error", rErr)
		}
		if sErr := saveImportResult(ctx, db, result, logger); sErr != nil {
			logger.Error("failed to save import result", "source", result.SourcePath, "error", sErr)
		}
	}

	fmt.Println()
	formatBatchSummary(os.Stdout, results)
	fmt.Printf("\nBatch import completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	return err
}

// outputReport outputs the import report in the requested format.
func outputReport(cfg *config.Config, result *model.ImportResult) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with secure permissions (0600).
		// Reports carry workspace and database identifiers that should only
		// be readable by the owner.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (full result wrapped with tool version)
	if cfg.JSONReport {
		_, err := report.NewFullJSONWriter(output, getVersion()).Write(result)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		_, err := report.NewMarkdownWriter(output).Write(result)
		return err
	}

	// Human-readable report (default)
	_, err := report.NewSimpleWriter(output).Write(result)
	return err
}

// saveImportResult saves the import result to the history database.
// If db is nil, this function is a no-op.
func saveImportResult(ctx context.Context, db *database.ImportDB, result *model.ImportResult, logger *slog.Logger) error {
	if db == nil || result == nil {
		return nil
	}

	id, err := db.SaveResult(ctx, result)
	if err != nil {
		return fmt.Errorf("failed to save import result: %w", err)
	}

	logger.Info("import result saved", "id", id, "source", result.SourcePath)
	return nil
}
