// Package organizer runs one organize pass over a source directory.
//
// The pass lists the immediate children of the source root once, keeps regular
// files (and symlinks resolving to regular files), and processes them in
// lexical name order: ignore check, classification, relocation. A failure on
// one file is recorded in the summary and never stops the run; only a source
// root that cannot be listed aborts it.
package organizer
