// Package mover relocates classified files into their destination folders.
//
// A move never replaces an existing file. When the filesystem supports an
// atomic no-replace rename the existence check and the move are a single
// operation; otherwise the target is checked right before a plain rename.
package mover

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/tidydl/pkg/errors"
	"github.com/arthur-debert/tidydl/pkg/logging"
	"github.com/arthur-debert/tidydl/pkg/types"
	"github.com/rs/zerolog"
)

// ConflictPolicy decides what happens when the target path is occupied
type ConflictPolicy string

const (
	// ConflictSkip leaves the source file in place and reports a conflict
	ConflictSkip ConflictPolicy = "skip"

	// ConflictSuffix moves the file under the first free "name - dupN.ext"
	ConflictSuffix ConflictPolicy = "suffix"
)

// ParseConflictPolicy parses a policy name, empty means skip
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch ConflictPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ConflictSkip:
		return ConflictSkip, nil
	case ConflictSuffix:
		return ConflictSuffix, nil
	default:
		return "", errors.Newf(errors.ErrConfigValid, "unknown conflict policy %q (want skip or suffix)", s)
	}
}

// dirPerm is the mode for newly created destination directories
const dirPerm fs.FileMode = 0755

// maxSuffix bounds the search for a free duplicate name
const maxSuffix = 10000

// Mover moves files into label directories below a source root.
// A Mover is meant for one run and is not safe for concurrent use.
type Mover struct {
	fs     types.FS
	policy ConflictPolicy

	// ready holds destination directories already known to exist this run
	ready map[string]bool

	logger zerolog.Logger
}

// New creates a Mover operating on fsys
func New(fsys types.FS, policy ConflictPolicy) *Mover {
	if policy == "" {
		policy = ConflictSkip
	}
	return &Mover{
		fs:     fsys,
		policy: policy,
		ready:  make(map[string]bool),
		logger: logging.GetLogger("mover"),
	}
}

// Policy returns the conflict policy in use
func (m *Mover) Policy() ConflictPolicy {
	return m.policy
}

// Relocate moves file into root/label. Every failure is reported through the
// returned outcome; the source file is only ever renamed, never copied or removed.
func (m *Mover) Relocate(file types.File, label, root string) types.Outcome {
	outcome := newOutcome(file, label)
	destDir := filepath.Join(root, label)

	if err := m.ensureDir(destDir); err != nil {
		return m.failed(outcome, err)
	}

	target, conflict, err := m.resolveTarget(destDir, file.Name)
	if err != nil {
		return m.failed(outcome, err)
	}
	if conflict {
		return m.conflict(outcome, target)
	}
	outcome.Target = target
	outcome.Renamed = filepath.Base(target) != file.Name

	if err := m.rename(file.Path, target); err != nil {
		if stderrors.Is(err, fs.ErrExist) {
			// Lost a race with another writer after the check
			return m.conflict(outcome, target)
		}
		return m.failed(outcome, errors.Wrapf(err, errors.ErrFileMove, "cannot move %s to %s", file.Name, destDir))
	}

	outcome.Kind = types.OutcomeMoved
	m.logger.Info().
		Str("file", file.Name).
		Str("label", label).
		Str("target", target).
		Bool("renamed", outcome.Renamed).
		Msg("Moved file")
	return outcome
}

// Plan reports what Relocate would do without touching the filesystem
func (m *Mover) Plan(file types.File, label, root string) types.Outcome {
	outcome := newOutcome(file, label)
	destDir := filepath.Join(root, label)

	if info, err := m.fs.Lstat(destDir); err == nil && !info.IsDir() {
		return m.failed(outcome, errors.Newf(errors.ErrDirCreate, "%s exists and is not a directory", destDir))
	}

	target, conflict, err := m.resolveTarget(destDir, file.Name)
	if err != nil {
		return m.failed(outcome, err)
	}
	if conflict {
		return m.conflict(outcome, target)
	}

	outcome.Kind = types.OutcomePlanned
	outcome.Target = target
	outcome.Renamed = filepath.Base(target) != file.Name
	return outcome
}

func newOutcome(file types.File, label string) types.Outcome {
	return types.Outcome{
		File:   file.Name,
		Source: file.Path,
		Label:  label,
		Size:   file.Size,
	}
}

// ensureDir creates dir once per run. An existing directory is not an error.
func (m *Mover) ensureDir(dir string) error {
	if m.ready[dir] {
		return nil
	}

	info, err := m.fs.Lstat(dir)
	switch {
	case err == nil && !info.IsDir():
		return errors.Newf(errors.ErrDirCreate, "%s exists and is not a directory", dir)
	case err == nil:
		m.ready[dir] = true
		return nil
	case !stderrors.Is(err, fs.ErrNotExist):
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot inspect %s", dir)
	}

	if err := m.fs.MkdirAll(dir, dirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dir)
	}
	m.ready[dir] = true
	m.logger.Debug().Str("dir", dir).Msg("Created destination directory")
	return nil
}

// resolveTarget returns the path to move name to inside destDir. conflict is
// true when the natural target is occupied and the policy is skip, in which
// case target names the existing file.
func (m *Mover) resolveTarget(destDir, name string) (target string, conflict bool, err error) {
	target = filepath.Join(destDir, name)
	occupied, err := m.exists(target)
	if err != nil || !occupied {
		return target, false, err
	}
	if m.policy != ConflictSuffix {
		return target, true, nil
	}

	stem, ext := splitName(name)
	for n := 1; n <= maxSuffix; n++ {
		candidate := filepath.Join(destDir, fmt.Sprintf("%s - dup%d%s", stem, n, ext))
		occupied, err := m.exists(candidate)
		if err != nil {
			return "", false, err
		}
		if !occupied {
			return candidate, false, nil
		}
	}
	return target, true, nil
}

func (m *Mover) exists(path string) (bool, error) {
	_, err := m.fs.Lstat(path)
	if err == nil {
		return true, nil
	}
	if stderrors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errors.Wrapf(err, errors.ErrFileMove, "cannot inspect %s", path)
}

// rename prefers the atomic no-replace rename and falls back to a plain rename
func (m *Mover) rename(oldpath, newpath string) error {
	if r, ok := m.fs.(types.NoReplaceRenamer); ok {
		err := r.RenameNoReplace(oldpath, newpath)
		if !stderrors.Is(err, stderrors.ErrUnsupported) {
			return err
		}
		m.logger.Trace().Msg("No-replace rename unsupported, falling back to rename")
	}
	return m.fs.Rename(oldpath, newpath)
}

func (m *Mover) conflict(outcome types.Outcome, existing string) types.Outcome {
	err := errors.Newf(errors.ErrConflict, "%s already exists", existing).
		WithDetail("target", existing)
	outcome.Kind = types.OutcomeConflict
	outcome.Target = existing
	outcome.Err = err
	outcome.Error = err.Message
	m.logger.Warn().
		Str("file", outcome.File).
		Str("target", existing).
		Msg("File already exists, skipping")
	return outcome
}

func (m *Mover) failed(outcome types.Outcome, err error) types.Outcome {
	outcome.Kind = types.OutcomeFailed
	outcome.Err = err
	outcome.Error = err.Error()
	m.logger.Error().
		Err(err).
		Str("file", outcome.File).
		Str("label", outcome.Label).
		Msg("Failed to move file")
	return outcome
}

// splitName splits name into stem and final suffix, treating leading dots as
// part of the stem so ".bashrc" has no suffix
func splitName(name string) (stem, ext string) {
	trimmed := strings.TrimLeft(name, ".")
	ext = filepath.Ext(trimmed)
	if ext == "." {
		ext = ""
	}
	return strings.TrimSuffix(name, ext), ext
}
