// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"io"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/hooks"
	"github.com/A2-ai/spackle/pkg/ui/styles"
	"github.com/A2-ai/spackle/pkg/ui/text"
)

// decorator styles the text layout for a color terminal
type decorator struct {
	theme    *styles.Theme
	markdown *GlamourRenderer
}

func (d decorator) Style(name, s string) string {
	return d.theme.Render(name, s)
}

func (d decorator) Status(status hooks.Status, s string) string {
	return StatusStyle(status).Sprint(s)
}

func (d decorator) Markdown(md string) string {
	return d.markdown.Render(md)
}

// Renderer provides rich terminal output
type Renderer struct {
	*text.Renderer
}

// New creates a terminal renderer with the built-in styles
func New(w io.Writer) (*Renderer, error) {
	return NewWithStyles(w, styles.Default())
}

// NewWithStyles creates a terminal renderer over a styles configuration
func NewWithStyles(w io.Writer, cfg *styles.Config) (*Renderer, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrInternal, "terminal renderer needs a styles configuration")
	}
	dec := decorator{
		theme:    styles.NewTheme(w, cfg),
		markdown: NewGlamourRenderer(),
	}
	return &Renderer{
		Renderer: text.NewDecorated(w, dec),
	}, nil
}
