// Package importer orchestrates import runs from a local content
// hierarchy into a remote workspace.
//
// A run moves through fixed stages: selection filtering, hierarchy
// mapping, referential validation and remote page creation. Each stage
// is a Step executed by a Pipeline over shared Run state, and each
// stage boundary emits a progress snapshot into its reserved sub-range
// of the overall bar.
//
// Design decision: Fatal errors and per-page failures take different
// paths on purpose. Preconditions (empty selection, unreachable
// workspace, invalid mapped tree) abort the run, because continuing
// would waste work or corrupt the remote hierarchy. Once page creation
// has started, an individual failure is recorded and the walk moves on;
// a single bad page should not discard an otherwise successful import.
//
// The package supports dry runs, which count what would be imported
// without any network calls, and batch imports of multiple export files
// with concurrency control using errgroup.
package importer
