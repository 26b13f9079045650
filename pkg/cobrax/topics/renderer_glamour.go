package topics

import (
	"github.com/A2-ai/spackle/pkg/ui/terminal"
)

// GlamourRenderer renders markdown topics through glamour and leaves
// every other format untouched
type GlamourRenderer struct {
	markdown *terminal.GlamourRenderer
}

// NewGlamourRenderer creates a markdown renderer using glamour with auto-detection
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{markdown: terminal.NewGlamourRenderer()}
}

// Render converts markdown to terminal output
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}
	return r.markdown.Render(content)
}
