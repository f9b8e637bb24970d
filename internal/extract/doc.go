// Package extract reads source hierarchies from export files.
//
// The Provider interface is the boundary between on-disk export formats
// and the import pipeline; JSONProvider handles the JSON export format.
// Extraction validates identifier uniqueness so downstream id-keyed
// stages can rely on it.
package extract
