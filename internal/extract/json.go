package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/pagebridge/pagebridge/internal/model"
)

// Export file errors.
var (
	// ErrEmptyExport is returned when the export file contains no notebooks.
	ErrEmptyExport = errors.New("export contains no notebooks")
)

// exportFile is the on-disk shape of a JSON export: a format marker plus
// the notebook hierarchy.
type exportFile struct {
	// Format identifies the export format; currently always "pagebridge/v1".
	Format string `json:"format,omitempty"`

	// Notebooks is the exported hierarchy.
	Notebooks []model.Notebook `json:"notebooks"`
}

// JSONProvider reads hierarchies from JSON export files produced by the
// companion exporter.
//
// Design decision: The extractor validates identifier uniqueness at the
// boundary rather than trusting the exporter. Every downstream stage
// (selection, mapping, validation, remote parent linking) keys on ids, so
// a duplicate caught here fails with a clear file-level message instead of
// a confusing validation error later.
type JSONProvider struct{}

// NewJSONProvider creates a JSONProvider.
func NewJSONProvider() *JSONProvider {
	return &JSONProvider{}
}

// Extract implements Provider.
func (p *JSONProvider) Extract(ctx context.Context, path string) ([]model.Notebook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-provided export path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}

	var export exportFile
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse export file %s: %w", path, err)
	}

	if len(export.Notebooks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyExport, path)
	}

	if err := checkUniqueIDs(export.Notebooks); err != nil {
		return nil, fmt.Errorf("invalid export file %s: %w", path, err)
	}

	return export.Notebooks, nil
}

// checkUniqueIDs verifies every id appears once across the hierarchy and
// no id is empty.
func checkUniqueIDs(notebooks []model.Notebook) error {
	seen := make(map[string]string)

	record := func(id, kind string) error {
		if id == "" {
			return fmt.Errorf("%s with empty id", kind)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("duplicate id %q (%s and %s)", id, prev, kind)
		}
		seen[id] = kind
		return nil
	}

	for _, nb := range notebooks {
		if err := record(nb.ID, "notebook"); err != nil {
			return err
		}
		for _, sec := range nb.Sections {
			if err := record(sec.ID, "section"); err != nil {
				return err
			}
			for _, page := range sec.Pages {
				if err := record(page.ID, "page"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
