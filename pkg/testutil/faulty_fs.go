package testutil

import (
	"io/fs"
	"sync"

	"github.com/arthur-debert/tidydl/pkg/types"
)

// Op names a filesystem operation FaultyFS can fail
type Op string

const (
	OpReadDir  Op = "readdir"
	OpMkdirAll Op = "mkdirall"
	OpRename   Op = "rename"
	OpLstat    Op = "lstat"
	OpStat     Op = "stat"
)

// FaultyFS wraps a types.FS and fails chosen operations on chosen paths
type FaultyFS struct {
	types.FS

	mu     sync.Mutex
	faults map[Op]map[string]error
	calls  map[Op]int
}

// NewFaultyFS wraps inner
func NewFaultyFS(inner types.FS) *FaultyFS {
	return &FaultyFS{
		FS:     inner,
		faults: make(map[Op]map[string]error),
		calls:  make(map[Op]int),
	}
}

// Fail makes op on path return err. For rename, path is the source path.
func (f *FaultyFS) Fail(op Op, path string, err error) *FaultyFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.faults[op] == nil {
		f.faults[op] = make(map[string]error)
	}
	f.faults[op][path] = err
	return f
}

// Calls returns how many times op was invoked
func (f *FaultyFS) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FaultyFS) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.faults[op][path]
}

func (f *FaultyFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.check(OpReadDir, name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}

func (f *FaultyFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if err := f.check(OpRename, oldpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultyFS) Lstat(name string) (fs.FileInfo, error) {
	if err := f.check(OpLstat, name); err != nil {
		return nil, err
	}
	return f.FS.Lstat(name)
}

func (f *FaultyFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check(OpStat, name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}
