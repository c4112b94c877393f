// Package paths provides centralized path handling for tidydl.
// It implements XDG Base Directory specification compliance for tidydl's own
// files and resolves the source directory that gets organized.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/tidydl/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for tidydl
	EnvConfigDir = "TIDYDL_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for tidydl
	EnvStateDir = "TIDYDL_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name for tidydl-specific files
	AppDirName = "tidydl"

	// DefaultDownloadsDir is used when the platform reports no downloads directory
	DefaultDownloadsDir = "Downloads"

	// LogFileName is the name of the log file
	LogFileName = "tidydl.log"

	// ConfigFileName is the preferred user config file name
	ConfigFileName = "config.toml"
)

// configFileNames lists the accepted user config file names in lookup order
var configFileNames = []string{"config.toml", "config.yaml", "config.yml"}

// Paths provides centralized path management for tidydl
type Paths interface {
	SourceRoot() string
	UsedDefault() bool
	ConfigDir() string
	ConfigFilePath() string
	ConfigFileCandidates() []string
	StateDir() string
	LogFilePath() string
}

type paths struct {
	// sourceRoot is the directory whose files get organized
	sourceRoot string

	// usedDefault is true when sourceRoot came from the platform downloads dir
	usedDefault bool

	configDir string
	stateDir  string
}

// New creates a new Paths instance for the given source directory.
// If source is empty, the platform downloads directory is used.
func New(source string) (Paths, error) {
	p := &paths{}

	if source == "" {
		p.sourceRoot = DefaultSource()
		p.usedDefault = true
	} else {
		p.sourceRoot = ExpandHome(source)
	}

	absRoot, err := filepath.Abs(p.sourceRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for %s", p.sourceRoot)
	}
	p.sourceRoot = absRoot

	p.configDir = ConfigDir()
	p.stateDir = StateDir()

	return p, nil
}

// DefaultSource returns the platform downloads directory
func DefaultSource() string {
	if dir := xdg.UserDirs.Download; dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv(EnvHome)
	}
	return filepath.Join(home, DefaultDownloadsDir)
}

// ConfigDir returns the tidydl config directory, honouring TIDYDL_CONFIG_DIR
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// StateDir returns the tidydl state directory, honouring TIDYDL_STATE_DIR
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// LogFilePath returns the path of the log file inside the state directory
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// ConfigFileCandidates returns the user config files tidydl looks for, in order
func ConfigFileCandidates() []string {
	return candidatesIn(ConfigDir())
}

func candidatesIn(dir string) []string {
	candidates := make([]string, 0, len(configFileNames))
	for _, name := range configFileNames {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	return candidates
}

// ExpandHome expands ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}

func (p *paths) SourceRoot() string {
	return p.sourceRoot
}

func (p *paths) UsedDefault() bool {
	return p.usedDefault
}

func (p *paths) ConfigDir() string {
	return p.configDir
}

// ConfigFilePath returns where a new user config file is written
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

func (p *paths) ConfigFileCandidates() []string {
	return candidatesIn(p.configDir)
}

func (p *paths) StateDir() string {
	return p.stateDir
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}
