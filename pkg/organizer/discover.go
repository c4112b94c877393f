package organizer

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/tidydl/pkg/errors"
	"github.com/arthur-debert/tidydl/pkg/types"
	"github.com/rs/zerolog"
)

// Discover lists the regular files directly inside root, sorted by name.
// Directories, symlinks to directories and special files are skipped.
func Discover(fsys types.FS, root string, logger zerolog.Logger) ([]types.File, error) {
	entries, err := fsys.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrEnumerate, "cannot list %s", root).
			WithDetail("root", root)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var files []types.File
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())

		size, ok := regularFileSize(fsys, path, entry)
		if !ok {
			logger.Trace().
				Str("entry", entry.Name()).
				Str("type", entry.Type().String()).
				Msg("Skipping non-regular entry")
			continue
		}

		files = append(files, types.NewFile(path, size))
	}

	logger.Debug().
		Int("entries", len(entries)).
		Int("files", len(files)).
		Msg("Discovered files")

	return files, nil
}

// regularFileSize reports whether entry is a regular file, following a
// symlink one level, and returns its size
func regularFileSize(fsys types.FS, path string, entry fs.DirEntry) (int64, bool) {
	switch {
	case entry.Type().IsRegular():
		info, err := entry.Info()
		if err != nil {
			// Vanished between listing and inspection
			return 0, false
		}
		return info.Size(), true
	case entry.Type()&fs.ModeSymlink != 0:
		info, err := fsys.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return 0, false
		}
		return info.Size(), true
	default:
		return 0, false
	}
}
