// Package main provides the entry point for the PageBridge CLI.
//
// PageBridge imports exported notebook hierarchies into a remote
// workspace. It reads notebook exports, filters them down to the user's
// selection, and recreates the hierarchy as pages in a workspace database.
//
// Usage:
//
//	pagebridge import --select <id> <export-file>
//	pagebridge history
//
// See --help for all available options.
package main

// main is the entry point for PageBridge.
func main() {
	Execute()
}
