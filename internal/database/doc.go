// Package database provides SQLite-based storage for PageBridge.
//
// This package implements the ImportDB, which stores one row per import
// run: the full result as JSON plus summary columns for fast history
// listings without parsing.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
