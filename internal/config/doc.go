// Package config provides configuration structures and utilities for
// PageBridge. It defines the main options for import runs, workspace
// credentials, retry behavior, and report generation preferences.
package config
