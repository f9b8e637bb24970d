package convert

import (
	"github.com/pagebridge/pagebridge/internal/model"
)

// Options controls content conversion.
type Options struct {
	// IncludeMetadata copies the source author and timestamps into the
	// returned properties.
	IncludeMetadata bool
}

// Result is the converted page body plus any properties derived from the
// source page. The orchestrator merges the properties into the mapped
// target page before creating it remotely.
type Result struct {
	// Content is the converted page body.
	Content string

	// Properties holds metadata derived during conversion.
	Properties map[string]any
}

// Converter turns a source page body into the content shape the remote
// workspace expects. A conversion failure is a per-item error: the
// orchestrator records it and continues with the next page.
type Converter interface {
	// Convert converts one source page.
	Convert(page model.Page, opts Options) (Result, error)
}
