package types

import (
	"io/fs"
)

// FS is the filesystem interface required for tidydl operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Remove(name string) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Rename moves oldpath to newpath, replacing newpath if the platform allows it
	Rename(oldpath, newpath string) error

	// Optional operations - implementations should check for support
	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}

// NoReplaceRenamer is implemented by filesystems that can move a file in one
// step that fails when the target already exists.
//
// RenameNoReplace returns an error satisfying errors.Is(err, fs.ErrExist) when
// newpath is occupied, and errors.ErrUnsupported when the running platform or
// the underlying filesystem cannot perform the operation.
type NoReplaceRenamer interface {
	RenameNoReplace(oldpath, newpath string) error
}
