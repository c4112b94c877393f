package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/tidydl/pkg/errors"
	"github.com/arthur-debert/tidydl/pkg/logging"
	"github.com/arthur-debert/tidydl/pkg/paths"
	"github.com/arthur-debert/tidydl/pkg/rules"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read into the config
const EnvPrefix = "TIDYDL_"

// envKeys are the config keys settable from the environment
var envKeys = map[string]bool{
	"source":   true,
	"fallback": true,
	"conflict": true,
	"ignore":   true,
}

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// File is an explicit config file. It must exist when set.
	File string

	// Overrides are applied last, typically from command line flags
	Overrides map[string]interface{}
}

// Load builds the effective configuration from every layer
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := loadLayer(k, &rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config file
	userFile, err := findUserFile(opts.File)
	if err != nil {
		return nil, err
	}
	if userFile != "" {
		if err := loadFile(k, userFile); err != nil {
			return nil, err
		}
		logger.Debug().Str("file", userFile).Msg("Loaded user config")
	}

	// 3. Environment
	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if !envKeys[key] {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration").
			WithDetail("file", userFile)
	}
	cfg.File = userFile

	logger.Trace().
		Str("source", cfg.Source).
		Int("keywords", len(cfg.Keywords)).
		Int("extensions", len(cfg.Extensions)).
		Msg("Configuration loaded")

	return cfg, nil
}

// Defaults returns the embedded configuration with no other layer applied
func Defaults() (*Config, error) {
	k := koanf.New(".")
	if err := loadLayer(k, &rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	cfg, err := unmarshal(k)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal defaults")
	}
	return cfg, nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findUserFile returns the config file to load, or "" when there is none
func findUserFile(explicit string) (string, error) {
	if explicit != "" {
		path := paths.ExpandHome(explicit)
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", path).
				WithDetail("file", path)
		}
		return path, nil
	}

	for _, candidate := range paths.ConfigFileCandidates() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".toml", "":
		parser = toml.Parser()
	default:
		return errors.Newf(errors.ErrConfigLoad, "unsupported config format %q", filepath.Ext(path)).
			WithDetail("file", path)
	}

	if err := loadLayer(k, file.Provider(path), parser); err != nil {
		if errors.IsErrorCode(err, errors.ErrConfigValid) {
			return err
		}
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail("file", path)
	}
	return nil
}

// loadLayer parses one layer on its own and merges it into k with the
// extension keys normalized, so "PDF" in a user file replaces the default "pdf"
func loadLayer(k *koanf.Koanf, p koanf.Provider, parser koanf.Parser) error {
	staged := koanf.New(".")
	if err := staged.Load(p, parser); err != nil {
		return err
	}

	raw := staged.Raw()
	if err := normalizeExtensionKeys(raw); err != nil {
		return err
	}
	return k.Load(confmap.Provider(raw, ""), nil)
}

// normalizeExtensionKeys rewrites the keys of the extensions table in place.
// Two spellings of one extension must agree on the label.
func normalizeExtensionKeys(raw map[string]interface{}) error {
	table, ok := raw["extensions"].(map[string]interface{})
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	normalized := make(map[string]interface{}, len(table))
	for _, key := range keys {
		ext := rules.NormalizeExtension(key)
		label := table[key]
		if prev, seen := normalized[ext]; seen && fmt.Sprint(prev) != fmt.Sprint(label) {
			return errors.Newf(errors.ErrConfigValid, "extension %s is mapped to both %v and %v", ext, prev, label).
				WithDetail("extension", ext)
		}
		normalized[ext] = label
	}
	raw["extensions"] = normalized
	return nil
}
