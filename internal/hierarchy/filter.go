package hierarchy

import "github.com/pagebridge/pagebridge/internal/model"

// Filter prunes a full source hierarchy down to the subset reachable from
// the selected identifiers, preserving ancestor consistency: a selected
// page keeps its section and notebook, but not its sibling pages.
//
// Selection rules:
//   - A notebook whose id is selected is included wholesale.
//   - Otherwise, a section whose id is selected is included wholesale.
//   - Otherwise, a section is included with only its selected pages.
//   - A notebook or section with no qualifying descendant is dropped.
//
// An empty selection yields an empty result. The orchestrator treats that
// as a fatal precondition failure rather than silently selecting all.
//
// Design decision: Filter returns fresh notebook/section values instead of
// mutating the input. The source hierarchy is an immutable input shared
// with the caller; pruning in place would corrupt it for retries.
func Filter(notebooks []model.Notebook, selectedIDs []string) []model.Notebook {
	selected := make(map[string]struct{}, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = struct{}{}
	}

	var filtered []model.Notebook
	for _, nb := range notebooks {
		if _, ok := selected[nb.ID]; ok {
			filtered = append(filtered, nb)
			continue
		}

		pruned := filterSections(nb.Sections, selected)
		if len(pruned) == 0 {
			continue
		}

		nb.Sections = pruned
		filtered = append(filtered, nb)
	}
	return filtered
}

// filterSections returns the sections that qualify under the selection,
// pruning unselected pages from partially-included sections.
func filterSections(sections []model.Section, selected map[string]struct{}) []model.Section {
	var filtered []model.Section
	for _, sec := range sections {
		if _, ok := selected[sec.ID]; ok {
			filtered = append(filtered, sec)
			continue
		}

		var pages []model.Page
		for _, page := range sec.Pages {
			if _, ok := selected[page.ID]; ok {
				pages = append(pages, page)
			}
		}
		if len(pages) == 0 {
			continue
		}

		sec.Pages = pages
		filtered = append(filtered, sec)
	}
	return filtered
}
