package config

import (
	"github.com/arthur-debert/tidydl/pkg/errors"
	"github.com/arthur-debert/tidydl/pkg/mover"
	"github.com/arthur-debert/tidydl/pkg/paths"
	"github.com/arthur-debert/tidydl/pkg/rules"
)

// Config is the effective tidydl configuration
type Config struct {
	// Source is the directory to organize, empty means the downloads dir
	Source string `koanf:"source" toml:"source" json:"source"`

	// Fallback is the label for files no rule matched
	Fallback string `koanf:"fallback" toml:"fallback" json:"fallback"`

	// Conflict is the conflict policy name, see mover.ParseConflictPolicy
	Conflict string `koanf:"conflict" toml:"conflict" json:"conflict"`

	// Ignore holds base-name globs that are never moved
	Ignore []string `koanf:"ignore" toml:"ignore" json:"ignore"`

	// Keywords are tried in order before extensions
	Keywords []rules.KeywordRule `koanf:"keywords" toml:"keywords" json:"keywords"`

	// Extensions maps a lower-case extension without the dot to a label
	Extensions map[string]string `koanf:"extensions" toml:"extensions" json:"extensions"`

	// File is the user config file that was loaded, if any
	File string `koanf:"-" toml:"-" json:"-"`
}

// RuleSet builds the classifier described by the configuration
func (c *Config) RuleSet() (*rules.RuleSet, error) {
	return rules.New(rules.Options{
		Keywords:   c.Keywords,
		Extensions: c.Extensions,
		Fallback:   c.Fallback,
		Ignore:     c.Ignore,
	})
}

// ConflictPolicy parses the configured conflict policy
func (c *Config) ConflictPolicy() (mover.ConflictPolicy, error) {
	return mover.ParseConflictPolicy(c.Conflict)
}

// SourceDir resolves Source to an absolute path, using the platform
// downloads directory when it is empty
func (c *Config) SourceDir() (paths.Paths, error) {
	return paths.New(c.Source)
}

// Validate checks that the rule tables and the conflict policy are usable
func (c *Config) Validate() error {
	if _, err := c.RuleSet(); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid rules").
			WithDetail("file", c.File)
	}
	if _, err := c.ConflictPolicy(); err != nil {
		return err
	}
	return nil
}
