package config

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/tidydl/pkg/errors"
	"github.com/arthur-debert/tidydl/pkg/types"
	gotoml "github.com/pelletier/go-toml/v2"
)

// configHeader is written at the top of generated config files
const configHeader = "# tidydl configuration\n# Generated by `tidydl config --write`; edit freely.\n\n"

// EncodeTOML renders the configuration as a TOML document
func (c *Config) EncodeTOML() ([]byte, error) {
	data, err := gotoml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return data, nil
}

// Save writes cfg as TOML to path. An existing file is never replaced.
func Save(fsys types.FS, path string, cfg *Config) error {
	if _, err := fsys.Lstat(path); err == nil {
		return errors.Newf(errors.ErrConfigWrite, "config file %s already exists", path).
			WithDetail("file", path)
	}

	data, err := cfg.EncodeTOML()
	if err != nil {
		return err
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigWrite, "cannot create %s", filepath.Dir(path))
	}

	content := append([]byte(configHeader), data...)
	if err := fsys.WriteFile(path, content, fs.FileMode(0644)); err != nil {
		return errors.Wrapf(err, errors.ErrConfigWrite, "cannot write %s", path).
			WithDetail("file", path)
	}
	return nil
}
