package model

// Property keys and type tags used on target pages.
// The "Type" property records which hierarchy level a target page was
// mapped from, so the remote workspace can distinguish container pages
// from content pages.
const (
	// PropertyType is the property key holding the page's type tag.
	PropertyType = "Type"

	// PropertyAuthor is the property key for the source author.
	PropertyAuthor = "Author"

	// PropertyCreated is the property key for the source creation time.
	PropertyCreated = "Created"

	// PropertyUpdated is the property key for the source modification time.
	PropertyUpdated = "Updated"

	// TypeNotebook tags a target page mapped from a notebook.
	TypeNotebook = "Notebook"

	// TypeSection tags a target page mapped from a section.
	TypeSection = "Section"

	// TypePage tags a target page mapped from a leaf page.
	TypePage = "Page"
)

// TargetPage is a flat-addressable page in the remote object model.
// It is produced by the hierarchy mapper and consumed by the validator
// and the import orchestrator.
//
// Design decision: ParentID is a string reference resolved through a
// lookup map, never a pointer to the parent. Id references sidestep
// cyclic-ownership problems and make cycle detection a bounded graph
// walk over the flattened set. Children is an owned list used during
// mapping and pre-order traversal; after flattening, ParentID alone
// carries the structure.
type TargetPage struct {
	// ID is the page identifier, reused from the source node that
	// produced it. Unique within one mapped tree.
	ID string `json:"id"`

	// Title is the page title shown in the remote workspace.
	Title string `json:"title"`

	// Content is the page body. Empty for container pages.
	Content string `json:"content,omitempty"`

	// Properties holds type-tagged metadata (see Property* constants).
	Properties map[string]any `json:"properties,omitempty"`

	// ParentID references the parent page's ID, or is empty for roots.
	ParentID string `json:"parent_id,omitempty"`

	// Children are the pages mapped from this node's source children.
	Children []*TargetPage `json:"children,omitempty"`
}

// Type returns the page's type tag, or an empty string if untagged.
func (p *TargetPage) Type() string {
	if t, ok := p.Properties[PropertyType].(string); ok {
		return t
	}
	return ""
}

// IsLeaf reports whether the page was mapped from a leaf source page
// rather than a notebook or section container.
func (p *TargetPage) IsLeaf() bool {
	return p.Type() == TypePage
}

// Flatten returns the page and all of its descendants in pre-order:
// the page itself first, then each child subtree in order. Pre-order
// guarantees every parent precedes its children, which the import
// orchestrator relies on for remote parent linking.
func (p *TargetPage) Flatten() []*TargetPage {
	pages := []*TargetPage{p}
	for _, child := range p.Children {
		pages = append(pages, child.Flatten()...)
	}
	return pages
}

// FlattenAll flattens a forest of target pages in pre-order.
func FlattenAll(roots []*TargetPage) []*TargetPage {
	var pages []*TargetPage
	for _, root := range roots {
		pages = append(pages, root.Flatten()...)
	}
	return pages
}
