package hierarchy

import (
	"log/slog"
	"time"

	"github.com/pagebridge/pagebridge/internal/model"
)

// DefaultMaxDepth maps the full three-level hierarchy:
// notebooks, their sections and their pages.
const DefaultMaxDepth = 3

// MapProgressFunc receives mapping progress: the overall percentage within
// the mapper's reporting window and the name of the notebook just mapped.
type MapProgressFunc func(percent float64, notebook string)

// Mapper transforms a (pruned) source hierarchy into a target page tree.
// Each notebook becomes a root TargetPage tagged "Notebook", each section
// a child tagged "Section", each page a leaf tagged "Page" carrying the
// source author and timestamps as properties.
//
// Recursion is depth-limited: the depth budget is decremented once per
// level, and when it reaches zero the source subtree below that point is
// skipped entirely. Truncation is a deliberate policy for callers that
// only want containers, not a defect.
type Mapper struct {
	// maxDepth is the depth budget. 1 maps notebooks only, 2 adds
	// sections, 3 (the default) maps the whole hierarchy.
	maxDepth int

	// progressBase and progressSpan define the window of the overall
	// progress bar this stage reports into. Mapping is one stage of a
	// larger run, so it reports base..base+span rather than 0..100.
	progressBase float64
	progressSpan float64

	// onProgress is invoked once per notebook mapped.
	onProgress MapProgressFunc

	// logger for structured logging.
	logger *slog.Logger
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithMaxDepth sets the mapping depth budget.
// Values below 1 map nothing.
func WithMaxDepth(depth int) MapperOption {
	return func(m *Mapper) {
		m.maxDepth = depth
	}
}

// WithProgress sets the per-notebook progress callback.
func WithProgress(fn MapProgressFunc) MapperOption {
	return func(m *Mapper) {
		m.onProgress = fn
	}
}

// WithProgressWindow sets the sub-range of the overall progress bar this
// stage reports into. After notebook i of n, the reported percentage is
// base + (i/n)*span.
func WithProgressWindow(base, span float64) MapperOption {
	return func(m *Mapper) {
		m.progressBase = base
		m.progressSpan = span
	}
}

// WithMapperLogger sets a custom logger for the mapper.
func WithMapperLogger(logger *slog.Logger) MapperOption {
	return func(m *Mapper) {
		m.logger = logger
	}
}

// NewMapper creates a Mapper with the given options.
func NewMapper(opts ...MapperOption) *Mapper {
	m := &Mapper{
		maxDepth:     DefaultMaxDepth,
		progressBase: 0,
		progressSpan: 100,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Map transforms the notebooks into target page trees, one root per
// notebook. The output satisfies the referential invariants checked by
// Validate: unique ids, resolvable parent references, no cycles, and an
// id set mirroring the source ids within the depth budget.
func (m *Mapper) Map(notebooks []model.Notebook) []*model.TargetPage {
	if m.maxDepth < 1 {
		return nil
	}

	roots := make([]*model.TargetPage, 0, len(notebooks))
	total := len(notebooks)
	for i, nb := range notebooks {
		roots = append(roots, m.mapNotebook(nb))

		m.logger.Debug("mapped notebook",
			"notebook", nb.Name,
			"sections", len(nb.Sections),
		)

		if m.onProgress != nil {
			percent := m.progressBase + float64(i+1)/float64(total)*m.progressSpan
			m.onProgress(percent, nb.Name)
		}
	}
	return roots
}

// mapNotebook maps one notebook and, depth permitting, its sections.
func (m *Mapper) mapNotebook(nb model.Notebook) *model.TargetPage {
	page := &model.TargetPage{
		ID:    nb.ID,
		Title: nb.Name,
		Properties: map[string]any{
			model.PropertyType: model.TypeNotebook,
		},
	}

	if m.maxDepth > 1 {
		for _, sec := range nb.Sections {
			page.Children = append(page.Children, m.mapSection(sec, nb.ID, m.maxDepth-1))
		}
	}
	return page
}

// mapSection maps one section and, depth permitting, its pages.
func (m *Mapper) mapSection(sec model.Section, parentID string, depth int) *model.TargetPage {
	page := &model.TargetPage{
		ID:       sec.ID,
		Title:    sec.Name,
		ParentID: parentID,
		Properties: map[string]any{
			model.PropertyType: model.TypeSection,
		},
	}

	if depth > 1 {
		for _, p := range sec.Pages {
			page.Children = append(page.Children, mapPage(p, sec.ID))
		}
	}
	return page
}

// mapPage maps one leaf page, copying source metadata into properties.
func mapPage(p model.Page, parentID string) *model.TargetPage {
	props := map[string]any{
		model.PropertyType: model.TypePage,
	}
	if p.Metadata.Author != "" {
		props[model.PropertyAuthor] = p.Metadata.Author
	}
	if !p.Metadata.CreatedAt.IsZero() {
		props[model.PropertyCreated] = p.Metadata.CreatedAt.Format(time.RFC3339)
	}
	if !p.Metadata.UpdatedAt.IsZero() {
		props[model.PropertyUpdated] = p.Metadata.UpdatedAt.Format(time.RFC3339)
	}

	return &model.TargetPage{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		ParentID:   parentID,
		Properties: props,
	}
}
