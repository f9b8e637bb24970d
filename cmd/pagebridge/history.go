package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pagebridge/pagebridge/internal/config"
	"github.com/pagebridge/pagebridge/internal/database"
	"github.com/pagebridge/pagebridge/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command inspects import runs stored in the local database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past import runs",
		Long: `History lists import runs stored in the local database.

Every import and dry run is recorded automatically. This command shows:
- A table of past runs with their outcome
- The full stored report for a single run
- The distinct export files that have been imported

Examples:
  # List the 20 most recent runs
  pagebridge history

  # List runs targeting a specific workspace
  pagebridge history --workspace ws-team

  # Show the full stored report for run 5
  pagebridge history --show 5

  # Show the stored report as JSON
  pagebridge history --show 5 --json

  # List every imported export file
  pagebridge history --sources`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("workspace", "w", "",
		"Only list runs targeting this workspace")
	cmd.Flags().IntP("limit", "l", 20,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().Int64P("show", "s", 0,
		"Show the full stored report for a run id (use the list to see ids)")
	cmd.Flags().BoolP("sources", "S", false,
		"List the distinct export files with stored runs")
	cmd.Flags().BoolP("json", "j", false,
		"Output the stored report in JSON format (with --show)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	workspaceID, err := cmd.Flags().GetString("workspace")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	listSources, err := cmd.Flags().GetBool("sources")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Use XDG data directory for database
	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listSources {
		return listImportSources(ctx, db)
	}
	if showID > 0 {
		return showImportRun(ctx, db, showID, jsonOutput)
	}
	return listImportRuns(ctx, db, workspaceID, limit)
}

// listImportSources lists the distinct export files with stored runs.
func listImportSources(ctx context.Context, db *database.ImportDB) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		fmt.Println("No import history found in the database.")
		fmt.Println("\nUse 'pagebridge import <export-file>' to import a hierarchy.")
		return nil
	}

	fmt.Printf("Imported export files (%d):\n\n", len(sources))
	for _, source := range sources {
		fmt.Printf("  • %s\n", source)
	}
	fmt.Println("\nUse 'pagebridge history' to see the run history.")

	return nil
}

// showImportRun outputs the full stored report for one run.
func showImportRun(ctx context.Context, db *database.ImportDB, id int64, jsonOutput bool) error {
	result, err := db.GetRunByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get run %d: %w", id, err)
	}
	if result == nil {
		return fmt.Errorf("run with ID %d not found (use 'pagebridge history' to see available IDs)", id)
	}

	if jsonOutput {
		_, err := report.NewJSONWriter(os.Stdout, report.WithPrettyPrint()).Write(result)
		return err
	}
	_, err = report.NewSimpleWriter(os.Stdout).Write(result)
	return err
}

// listImportRuns prints the run history table.
func listImportRuns(ctx context.Context, db *database.ImportDB, workspaceID string, limit int) error {
	runs, err := db.ListRuns(ctx, workspaceID, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No import history found in the database.")
		fmt.Println("\nUse 'pagebridge import <export-file>' to import a hierarchy.")
		return nil
	}

	fmt.Printf("Import history (%d runs):\n\n", len(runs))
	fmt.Printf("  %-6s  %-20s  %-30s  %s\n", "ID", "Date", "Source", "Result")
	fmt.Println("  " + strings.Repeat("-", 76))

	for _, meta := range runs {
		fmt.Printf("  %-6d  %-20s  %-30s  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			truncatePath(meta.SourcePath, 30),
			formatRunOutcome(meta),
		)
	}

	fmt.Println("\nUse 'pagebridge history --show <id>' to see the full report for a run.")

	return nil
}

// formatRunOutcome summarizes one run for the history table.
func formatRunOutcome(meta database.RunMetadata) string {
	if meta.DryRun {
		return fmt.Sprintf("dry run, %d pages", meta.TotalPages)
	}
	if meta.Success {
		return fmt.Sprintf("ok, %d/%d pages", meta.SuccessCount, meta.TotalPages)
	}
	return fmt.Sprintf("failed, %d/%d pages, %d errors",
		meta.SuccessCount, meta.TotalPages, meta.ErrorCount)
}

// truncatePath shortens long paths from the left so the file name stays
// visible in the fixed-width table.
func truncatePath(path string, max int) string {
	if len(path) <= max {
		return path
	}
	return "..." + path[len(path)-max+3:]
}
