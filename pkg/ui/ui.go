// Package ui provides a unified interface for rendering output in different formats.
// It supports terminal (rich), text (plain), JSON and YAML output formats.
package ui

import (
	"io"
	"os"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/ui/json"
	"github.com/A2-ai/spackle/pkg/ui/styles"
	"github.com/A2-ai/spackle/pkg/ui/terminal"
	"github.com/A2-ai/spackle/pkg/ui/text"
	"github.com/A2-ai/spackle/pkg/ui/yaml"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderResult renders an Info, Check or Fill result
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// FormatAuto detects terminal capabilities when output is a file and
// falls back to plain text otherwise.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	return NewStyledRenderer(format, output, nil)
}

// Resolve turns FormatAuto into the concrete format used for output:
// detected from the terminal when output is a file, plain text otherwise
func Resolve(format Format, output io.Writer) Format {
	if format != FormatAuto {
		return format
	}
	if file, ok := output.(*os.File); ok {
		return DetectFormat(file)
	}
	return FormatText
}

// NewStyledRenderer is NewRenderer with a styles configuration for the
// terminal format. A nil configuration uses the built-in styles.
func NewStyledRenderer(format Format, output io.Writer, cfg *styles.Config) (Renderer, error) {
	switch Resolve(format, output) {
	case FormatTerminal:
		if cfg == nil {
			cfg = styles.Default()
		}
		return terminal.NewWithStyles(output, cfg)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return json.New(output)
	case FormatYAML:
		return yaml.New(output)
	default:
		return nil, errors.Newf(errors.ErrInvalidFormat, "unknown format: %v", format)
	}
}
