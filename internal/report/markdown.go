package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/pagebridge/pagebridge/internal/model"
)

// MarkdownWriter outputs results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *model.ImportResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeSummary(md, result)
	w.writeErrors(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.ImportResult) {
	md.H1("PageBridge Import Report")
	md.PlainText("")

	rows := [][]string{
		{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
		{"Duration", result.Duration().String()},
		{"Status", w.getStatusText(result)},
	}
	if result.SourcePath != "" {
		rows = append([][]string{{"Source", "`" + result.SourcePath + "`"}}, rows...)
	}
	if result.WorkspaceID != "" {
		rows = append(rows, []string{"Workspace", "`" + result.WorkspaceID + "`"})
	}
	if result.DatabaseID != "" {
		rows = append(rows, []string{"Database", "`" + result.DatabaseID + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// getStatusText returns the status text based on the result state.
func (w *MarkdownWriter) getStatusText(result *model.ImportResult) string {
	switch {
	case result.DryRun:
		return "🔍 Dry Run (nothing created)"
	case result.Success:
		return "✅ Complete"
	default:
		return "⚠️ Completed with errors"
	}
}

// writeSummary writes the page count summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.ImportResult) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Pages", "Count"},
		Rows: [][]string{
			{"Selected", strconv.Itoa(result.TotalPages)},
			{"🟢 Created", strconv.Itoa(result.SuccessCount)},
			{"🔴 Errors", strconv.Itoa(result.ErrorCount)},
		},
	})
	md.PlainText("")

	// Add pie chart when there is a mixed outcome to visualize
	if result.SuccessCount > 0 && result.ErrorCount > 0 {
		w.writePieChart(md, result)
	}

	w.writeAlert(md, result)
}

// writePieChart writes a mermaid pie chart for the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, result *model.ImportResult) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Import Outcome"),
		piechart.WithShowData(true),
	)

	chart.LabelAndIntValue("Created", uint64(result.SuccessCount))
	chart.LabelAndIntValue("Errors", uint64(result.ErrorCount))

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.ImportResult) {
	switch {
	case result.DryRun:
		md.Note(fmt.Sprintf("Dry run: %d page(s) would be imported. No remote objects were created.", result.TotalPages))
	case result.ErrorCount > 0 && result.SuccessCount == 0:
		md.Cautionf("Import failed: none of the %d selected page(s) were created.", result.TotalPages)
	case result.ErrorCount > 0:
		md.Warningf("%d page(s) failed to import and should be retried.", result.ErrorCount)
	default:
		md.Tip(fmt.Sprintf("All %d page(s) imported successfully.", result.SuccessCount))
	}
	md.PlainText("")
}

// writeErrors writes the recorded errors, if any.
func (w *MarkdownWriter) writeErrors(md *markdown.Markdown, result *model.ImportResult) {
	md.H2("Errors")
	md.PlainText("")

	if len(result.Errors) == 0 {
		md.PlainText("No errors recorded.")
		md.PlainText("")
		return
	}

	md.BulletList(result.Errors...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [PageBridge](https://github.com/pagebridge/pagebridge)*")
}
