// Package testutil provides utilities for testing tidydl components.
//
// Key components:
//   - TestEnvironment: a source directory backed by an in-memory or a real
//     temporary filesystem, with helpers to seed and inspect files
//   - FaultyFS: a types.FS wrapper that injects errors for chosen operations
//
// Most tests should use EnvMemoryOnly. Tests that exercise real rename
// semantics (symlinks, atomic no-replace rename) use EnvIsolated.
package testutil
