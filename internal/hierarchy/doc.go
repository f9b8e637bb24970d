// Package hierarchy implements the source-to-target tree transformations
// at the heart of PageBridge: selection filtering, depth-limited mapping
// into the remote page model, and referential-integrity validation.
//
// The three entry points compose in order:
//   - Filter prunes a full hierarchy to a user selection while keeping
//     ancestors consistent.
//   - Mapper turns the pruned hierarchy into TargetPage trees annotated
//     with type-tagged properties.
//   - Validate flattens the mapped trees and checks that every parent
//     reference resolves and no node is its own ancestor.
//
// Design decision: These live in one package rather than three because
// they share the invariant that mapper output must always validate; tests
// exercise the pipeline end to end across randomly generated hierarchies.
package hierarchy
