//go:build !linux

package filesystem

import (
	"errors"
	"os"
)

func renameNoReplace(oldpath, newpath string) error {
	return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: errors.ErrUnsupported}
}
