package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pagebridge/pagebridge/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. The CLI layer adds color separately where the terminal supports it
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether the error section is shown when empty.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result in human-readable format.
func (w *SimpleWriter) Write(result *model.ImportResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeSummary(&sb, result)
	w.writeErrors(&sb, result)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.ImportResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        PAGEBRIDGE IMPORT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	if result.SourcePath != "" {
		sb.WriteString(fmt.Sprintf("Source:       %s\n", result.SourcePath))
	}
	if result.WorkspaceID != "" {
		sb.WriteString(fmt.Sprintf("Workspace:    %s\n", result.WorkspaceID))
	}
	if result.DatabaseID != "" {
		sb.WriteString(fmt.Sprintf("Database:     %s\n", result.DatabaseID))
	}
	sb.WriteString(fmt.Sprintf("Started:      %s\n", result.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:     %s\n", result.Duration().Round(10*time.Millisecond)))

	switch {
	case result.DryRun:
		sb.WriteString("Status:       DRY RUN (nothing created)\n")
	case result.Success:
		sb.WriteString("Status:       Complete\n")
	default:
		sb.WriteString("Status:       COMPLETED WITH ERRORS\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the page count summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, result *model.ImportResult) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  SELECTED: %d pages\n", result.TotalPages))
	sb.WriteString(fmt.Sprintf("  CREATED:  %d\n", result.SuccessCount))
	sb.WriteString(fmt.Sprintf("  ERRORS:   %d\n", result.ErrorCount))
	sb.WriteString("\n")

	if result.Message != "" {
		sb.WriteString(fmt.Sprintf("  %s\n", result.Message))
		sb.WriteString("\n")
	}
}

// writeErrors writes the recorded errors, if any.
func (w *SimpleWriter) writeErrors(sb *strings.Builder, result *model.ImportResult) {
	if len(result.Errors) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ERRORS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(result.Errors) == 0 {
		sb.WriteString("  No errors\n")
	} else {
		for _, msg := range result.Errors {
			sb.WriteString(fmt.Sprintf("  * %s\n", msg))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by PageBridge\n")
	sb.WriteString("https://github.com/pagebridge/pagebridge\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
