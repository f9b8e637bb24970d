// Package model defines the core data structures used throughout PageBridge.
//
// This package contains the following main types:
//   - Notebook, Section, Page: the three-level source hierarchy
//   - TargetPage: a node of the mapped remote page tree
//   - ImportProgress, ImportResult: progress snapshots and run outcomes
//
// Design decision: We separate models into their own package to avoid
// circular dependencies. Multiple packages (hierarchy, importer, report,
// database) need to use these types, so centralizing them prevents import
// cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
