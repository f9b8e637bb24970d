package extract

import (
	"context"

	"github.com/pagebridge/pagebridge/internal/model"
)

// Provider reads a source hierarchy from an export file.
// Implementations own the on-disk format; the rest of the tool only ever
// sees the model types.
type Provider interface {
	// Extract reads the export at path and returns the full hierarchy.
	Extract(ctx context.Context, path string) ([]model.Notebook, error)
}
