// Package filesystem provides filesystem implementations for tidydl.
//
// This package contains implementations of the types.FS interface,
// the OS filesystem used by the CLI and an afero-backed filesystem used by tests.
// On Linux the OS filesystem also implements types.NoReplaceRenamer, so a move
// never replaces a file that appeared after the conflict check.
package filesystem
