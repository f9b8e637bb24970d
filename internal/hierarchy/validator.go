package hierarchy

import (
	"fmt"

	"github.com/pagebridge/pagebridge/internal/model"
)

// ValidationResult holds the outcome of validating a mapped page tree.
type ValidationResult struct {
	// IsValid is true when no referential problems were found.
	IsValid bool

	// Errors describes each dangling reference or cycle found.
	Errors []string
}

// Validate checks the referential integrity of a mapped page forest.
//
// The check runs in three phases:
//  1. Flatten every root and its descendants into one pre-order list.
//  2. For every node with a parent reference, require the referenced id
//     to exist in the flattened set (dangling-reference check).
//  3. For every node, walk the parent chain with a per-walk visited set;
//     revisiting an id within one walk is a cycle.
//
// The parent walk is additionally bounded by the flattened node count, so
// validation terminates even on malformed input where the visited set
// alone would not catch a problem.
//
// Mapper output must always pass validation; a failure here indicates a
// mapper defect, not bad source data.
func Validate(roots []*model.TargetPage) ValidationResult {
	flat := model.FlattenAll(roots)

	byID := make(map[string]*model.TargetPage, len(flat))
	for _, page := range flat {
		byID[page.ID] = page
	}

	var errs []string

	// Dangling-reference check.
	for _, page := range flat {
		if page.ParentID == "" {
			continue
		}
		if _, ok := byID[page.ParentID]; !ok {
			errs = append(errs, fmt.Sprintf("Page %s references non-existent parent %s", page.ID, page.ParentID))
		}
	}

	// Cycle check: walk each node's parent chain.
	for _, page := range flat {
		visited := make(map[string]bool)
		current := page

		// One extra step beyond the node count so a full-circle walk
		// lands back on a visited id before the bound cuts it off.
		for steps := 0; steps <= len(flat); steps++ {
			if visited[current.ID] {
				errs = append(errs, fmt.Sprintf("Circular reference detected involving page %s", page.ID))
				break
			}
			visited[current.ID] = true

			if current.ParentID == "" {
				break
			}
			parent, ok := byID[current.ParentID]
			if !ok {
				// Dangling reference, already reported above.
				break
			}
			current = parent
		}
	}

	return ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
