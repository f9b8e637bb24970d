package model

import "time"

// Notebook is the root of the source hierarchy.
// A notebook owns its sections exclusively; no section is shared between
// notebooks, and all identifiers are unique across one exported hierarchy.
//
// Design decision: We model the three hierarchy levels as distinct structs
// rather than a single generic node with a type field. The source format
// has exactly three levels with different payloads, and distinct types let
// traversal code switch on the level at compile time instead of checking a
// discriminant at runtime.
type Notebook struct {
	// ID is the opaque source identifier of the notebook.
	ID string `json:"id"`

	// Name is the display name of the notebook.
	Name string `json:"name"`

	// Sections contains the notebook's sections in export order.
	Sections []Section `json:"sections,omitempty"`
}

// Section is the middle level of the source hierarchy.
// It groups pages under a notebook.
type Section struct {
	// ID is the opaque source identifier of the section.
	ID string `json:"id"`

	// Name is the display name of the section.
	Name string `json:"name"`

	// Pages contains the section's pages in export order.
	Pages []Page `json:"pages,omitempty"`
}

// Page is a leaf of the source hierarchy: a single note page.
type Page struct {
	// ID is the opaque source identifier of the page.
	ID string `json:"id"`

	// Title is the page title.
	Title string `json:"title"`

	// Content is the raw page body as exported. Depending on the exporter
	// this is either plain text or an HTML fragment; the content converter
	// decides how to treat it.
	Content string `json:"content,omitempty"`

	// Metadata carries source metadata copied onto the target page.
	Metadata PageMetadata `json:"metadata,omitempty"`
}

// PageMetadata holds source metadata that survives the migration as
// target page properties.
type PageMetadata struct {
	// Author is the last editor recorded by the source application.
	Author string `json:"author,omitempty"`

	// CreatedAt is when the page was created in the source application.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// UpdatedAt is when the page was last modified in the source application.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// CountPages returns the number of leaf pages in the hierarchy.
// This is the denominator for import progress reporting: containers
// (notebooks and sections) are created remotely too, but users think in
// pages, so progress is expressed in pages.
func CountPages(notebooks []Notebook) int {
	total := 0
	for _, nb := range notebooks {
		for _, sec := range nb.Sections {
			total += len(sec.Pages)
		}
	}
	return total
}

// CountNodes returns the total number of nodes in the hierarchy:
// notebooks, sections and pages combined.
func CountNodes(notebooks []Notebook) int {
	total := 0
	for _, nb := range notebooks {
		total++
		for _, sec := range nb.Sections {
			total++
			total += len(sec.Pages)
		}
	}
	return total
}
