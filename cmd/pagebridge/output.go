package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/pagebridge/pagebridge/internal/model"
	"github.com/pagebridge/pagebridge/internal/notion"
)

var (
	// titleStyle for summary box headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success counters
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for error counters
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for summary boxes with rounded border
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

// progressPrinter renders import progress as one line per step change.
// The creation step re-emits the same step name for every page; those
// updates are dropped so the output stays one line per stage.
type progressPrinter struct {
	w        io.Writer
	lastStep string
}

// newProgressPrinter creates a printer writing to w.
func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w}
}

// Print is a model.ProgressFunc.
func (p *progressPrinter) Print(prog model.ImportProgress) {
	if prog.CurrentStep == p.lastStep {
		return
	}
	p.lastStep = prog.CurrentStep

	percent := dimStyle.Render(fmt.Sprintf("[%3.0f%%]", prog.Progress))
	fmt.Fprintf(p.w, "%s %s\n", percent, prog.CurrentStep)
}

// formatResultSummary renders the per-file summary box.
func formatResultSummary(w io.Writer, result *model.ImportResult, stats notion.Stats) {
	var status string
	switch {
	case result.DryRun:
		status = dimStyle.Render("DRY RUN")
	case result.Success:
		status = successStyle.Render("OK")
	default:
		status = errorStyle.Render("ERRORS")
	}

	line1 := fmt.Sprintf("%s %d  %s %s  %s %s  %s",
		dimStyle.Render("Selected:"), result.TotalPages,
		dimStyle.Render("Created:"), successStyle.Render(fmt.Sprintf("%d", result.SuccessCount)),
		dimStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("%d", result.ErrorCount)),
		status,
	)

	line2 := fmt.Sprintf("%s %.1fs  %s %d requests, %d rate limited",
		dimStyle.Render("Duration:"), result.Duration().Seconds(),
		dimStyle.Render("Network:"), stats.Requests, stats.RateLimitHits,
	)

	content := titleStyle.Render("Import Summary") + "\n" + line1 + "\n" + line2
	fmt.Fprintln(w, boxStyle.Render(content))
}

// formatBatchSummary renders the aggregate box after a batch run.
func formatBatchSummary(w io.Writer, results []*model.ImportResult) {
	var files, created, errs int
	for _, r := range results {
		if r == nil {
			continue
		}
		files++
		created += r.SuccessCount
		errs += r.ErrorCount
	}

	line := fmt.Sprintf("%s %d  %s %s  %s %s",
		dimStyle.Render("Files:"), files,
		dimStyle.Render("Created:"), successStyle.Render(fmt.Sprintf("%d", created)),
		dimStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("%d", errs)),
	)

	content := titleStyle.Render("Batch Summary") + "\n" + line
	fmt.Fprintln(w, boxStyle.Render(content))
}
