// Package styles defines the visual styling for spackle's terminal output.
//
// Styles have semantic names (Header, Key, Success, ...) and adaptive
// colors that follow light and dark terminal themes. The built-in set is
// embedded; a styles.yaml in the user config directory replaces it.
package styles

import (
	_ "embed"
	"io"
	"os"
	"path/filepath"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/logging"
	"github.com/adrg/xdg"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var defaultStyles []byte

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold         bool   `yaml:"bold,omitempty"`
	Italic       bool   `yaml:"italic,omitempty"`
	Underline    bool   `yaml:"underline,omitempty"`
	Foreground   string `yaml:"foreground,omitempty"`
	Background   string `yaml:"background,omitempty"`
	Width        int    `yaml:"width,omitempty"`
	MarginLeft   int    `yaml:"marginLeft,omitempty"`
	PaddingLeft  int    `yaml:"paddingLeft,omitempty"`
	PaddingRight int    `yaml:"paddingRight,omitempty"`
}

// Config represents the complete styles configuration
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Parse decodes a styles document
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to parse styles")
	}
	return &cfg, nil
}

// Default returns the embedded styles
func Default() *Config {
	cfg, err := Parse(defaultStyles)
	if err != nil {
		panic("embedded styles are invalid: " + err.Error())
	}
	return cfg
}

// UserStylesPath is where a user styles override is looked up
func UserStylesPath() string {
	return filepath.Join(xdg.ConfigHome, logging.AppDirName, "styles.yaml")
}

// Load reads the styles file at path, falling back to the embedded set
// when the file does not exist
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read styles file %s", path)
	}
	return Parse(data)
}

// Theme binds a styles configuration to one output writer. Color support
// is detected from the writer, so a theme over a buffer or a pipe renders
// plain text.
type Theme struct {
	renderer *lipgloss.Renderer
	styles   map[string]lipgloss.Style
}

// NewTheme builds the lipgloss styles of cfg for w
func NewTheme(w io.Writer, cfg *Config) *Theme {
	if cfg == nil {
		cfg = Default()
	}
	r := lipgloss.NewRenderer(w)

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	t := &Theme{renderer: r, styles: make(map[string]lipgloss.Style, len(cfg.Styles))}
	for name, def := range cfg.Styles {
		t.styles[name] = buildStyle(r, colors, def)
	}
	return t
}

func buildStyle(r *lipgloss.Renderer, colors map[string]lipgloss.AdaptiveColor, def StyleDef) lipgloss.Style {
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
	if color, ok := colors[def.Background]; ok {
		style = style.Background(color)
	}

	if def.Width > 0 {
		style = style.Width(def.Width)
	}
	if def.MarginLeft > 0 {
		style = style.MarginLeft(def.MarginLeft)
	}
	if def.PaddingLeft > 0 || def.PaddingRight > 0 {
		style = style.Padding(0, def.PaddingRight, 0, def.PaddingLeft)
	}
	return style
}

// Has reports whether the theme defines name
func (t *Theme) Has(name string) bool {
	_, ok := t.styles[name]
	return ok
}

// Get returns the named style, or an empty style when undefined
func (t *Theme) Get(name string) lipgloss.Style {
	if style, ok := t.styles[name]; ok {
		return style
	}
	return t.renderer.NewStyle()
}

// Render applies the named style to s
func (t *Theme) Render(name, s string) string {
	return t.Get(name).Render(s)
}
