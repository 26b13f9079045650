package ui

import (
	"os"
	"strings"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format represents the output format type
type Format int

const (
	// FormatAuto picks terminal or text depending on where output goes
	FormatAuto Format = iota
	// FormatTerminal renders rich terminal output with colors and styling
	FormatTerminal
	// FormatText renders plain text output without any styling
	FormatText
	// FormatJSON renders machine-readable JSON output
	FormatJSON
	// FormatYAML renders machine-readable YAML output
	FormatYAML
)

// formatNames holds the canonical name first, then accepted aliases
var formatNames = map[Format][]string{
	FormatAuto:     {"auto", ""},
	FormatTerminal: {"terminal", "term"},
	FormatText:     {"text", "plain"},
	FormatJSON:     {"json"},
	FormatYAML:     {"yaml", "yml"},
}

// Formats lists the canonical names accepted by ParseFormat
func Formats() []string {
	names := make([]string, 0, len(formatNames))
	for f := FormatAuto; f <= FormatYAML; f++ {
		names = append(names, formatNames[f][0])
	}
	return names
}

func (f Format) String() string {
	if names, ok := formatNames[f]; ok {
		return names[0]
	}
	return "unknown"
}

// IsStructured reports whether the format is meant for programs
func (f Format) IsStructured() bool {
	return f == FormatJSON || f == FormatYAML
}

// ParseFormat accepts a canonical name or an alias, case-insensitively
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for f, names := range formatNames {
		for _, n := range names {
			if n == name {
				return f, nil
			}
		}
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidFormat, "unknown format %q, want one of %s", s, strings.Join(Formats(), ", ")).
		WithDetail("format", s)
}

// DetectFormat determines the output format from the environment and the
// terminal behind output
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	// piped or redirected
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}

	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
