// Package convert turns exported source page bodies into the content
// shape the remote workspace expects.
//
// The Converter interface is the boundary the import orchestrator calls
// through; MarkdownConverter is the production implementation, rendering
// HTML fragments as Markdown and passing plain text through unchanged.
// Conversion failures are per-item errors, never fatal to a run.
package convert
