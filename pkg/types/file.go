package types

import (
	"path/filepath"
	"strings"
)

// File is an immutable reference to a regular file found in the source directory
type File struct {
	// Path is the full path of the file
	Path string `json:"path"`

	// Name is the base name
	Name string `json:"name"`

	// Ext is the normalized extension: lower case, without the leading dot
	Ext string `json:"ext,omitempty"`

	// Size in bytes at discovery time
	Size int64 `json:"size"`
}

// NewFile creates a File for path
func NewFile(path string, size int64) File {
	name := filepath.Base(path)
	return File{
		Path: path,
		Name: name,
		Ext:  Extension(name),
		Size: size,
	}
}

// Extension returns the normalized extension of a base name.
//
// Only the final suffix counts ("archive.tar.gz" is "gz"). Leading dots are
// part of the stem, so ".bashrc" has no extension, and neither does a name
// ending in a dot.
func Extension(name string) string {
	stem := strings.TrimLeft(name, ".")
	ext := filepath.Ext(stem)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
