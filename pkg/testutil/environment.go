package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/tidydl/pkg/filesystem"
	"github.com/arthur-debert/tidydl/pkg/types"
	"github.com/stretchr/testify/require"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment is a source directory ready to be organized
type TestEnvironment struct {
	// SourceRoot is the directory being organized
	SourceRoot string

	FS   types.FS
	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{Type: envType, t: t}
	switch envType {
	case EnvIsolated:
		env.SourceRoot = filepath.Join(t.TempDir(), "Downloads")
		env.FS = filesystem.NewOS()
	default:
		env.SourceRoot = "/home/test/Downloads"
		env.FS = filesystem.NewMemoryFS()
	}

	require.NoError(t, env.FS.MkdirAll(env.SourceRoot, 0755))
	return env
}

// Path joins rel onto the source root
func (e *TestEnvironment) Path(rel ...string) string {
	return filepath.Join(append([]string{e.SourceRoot}, rel...)...)
}

// AddFile writes content to rel below the source root, creating parents
func (e *TestEnvironment) AddFile(rel, content string) string {
	e.t.Helper()
	path := e.Path(rel)
	require.NoError(e.t, e.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, e.FS.WriteFile(path, []byte(content), 0644))
	return path
}

// AddFiles writes every rel -> content pair
func (e *TestEnvironment) AddFiles(files map[string]string) {
	e.t.Helper()
	for rel, content := range files {
		e.AddFile(rel, content)
	}
}

// AddDir creates rel below the source root
func (e *TestEnvironment) AddDir(rel string) string {
	e.t.Helper()
	path := e.Path(rel)
	require.NoError(e.t, e.FS.MkdirAll(path, 0755))
	return path
}

// AddSymlink creates a symlink at rel pointing to target. Only supported in
// isolated environments.
func (e *TestEnvironment) AddSymlink(target, rel string) string {
	e.t.Helper()
	require.Equal(e.t, EnvIsolated, e.Type, "symlinks need a real filesystem")
	path := e.Path(rel)
	require.NoError(e.t, os.Symlink(target, path))
	return path
}

// File returns a types.File for rel, sized from the filesystem
func (e *TestEnvironment) File(rel string) types.File {
	e.t.Helper()
	path := e.Path(rel)
	info, err := e.FS.Stat(path)
	require.NoError(e.t, err)
	return types.NewFile(path, info.Size())
}

// ReadFile returns the content at rel, failing the test if it is missing
func (e *TestEnvironment) ReadFile(rel string) string {
	e.t.Helper()
	data, err := e.FS.ReadFile(e.Path(rel))
	require.NoError(e.t, err)
	return string(data)
}

// Exists reports whether rel exists below the source root
func (e *TestEnvironment) Exists(rel string) bool {
	_, err := e.FS.Lstat(e.Path(rel))
	return err == nil
}
