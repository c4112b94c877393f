package output

import (
	_ "embed"

	"github.com/arthur-debert/tidydl/pkg/errors"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

//go:embed embedded/styles.yaml
var defaultStyles []byte

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Width      int    `yaml:"width,omitempty"`
	MarginTop  int    `yaml:"marginTop,omitempty"`
}

// StylesConfig represents the complete styles file
type StylesConfig struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Styles maps semantic names to lipgloss styles
type Styles map[string]lipgloss.Style

// Get returns the named style, or an unstyled one
func (s Styles) Get(name string) lipgloss.Style {
	if style, ok := s[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// LoadStyles parses a styles file and builds its styles on r
func LoadStyles(data []byte, r *lipgloss.Renderer) (Styles, error) {
	var config StylesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to parse styles")
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(config.Colors))
	for name, def := range config.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	styles := make(Styles, len(config.Styles))
	for name, def := range config.Styles {
		styles[name] = buildStyle(r, def, colors)
	}
	return styles, nil
}

func buildStyle(r *lipgloss.Renderer, def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := r.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}
	if color, ok := colors[def.Foreground]; ok {
		style = style.Foreground(color)
	}
	if def.Width > 0 {
		style = style.Width(def.Width)
	}
	if def.MarginTop > 0 {
		style = style.MarginTop(def.MarginTop)
	}

	return style
}
