// Package main provides the entry point for the PageBridge CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for PageBridge.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagebridge",
		Short: "Import notebook exports into a remote workspace",
		Long: `PageBridge imports exported notebook hierarchies into a remote workspace.
It maps notebooks, sections and pages onto workspace pages, creating
parents before children so the remote tree mirrors the source.

Every run is recorded locally; use 'pagebridge history' to inspect
past imports. Use --dry-run to preview a selection without creating
anything remotely.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
