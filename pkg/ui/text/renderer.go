// Package text provides the line oriented layout of spackle's results.
// Without a decorator the output is plain text; the terminal renderer
// reuses the same layout with styling applied.
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/hooks"
	"github.com/A2-ai/spackle/pkg/spackle"
	"github.com/A2-ai/spackle/pkg/types"
)

// Decorator styles fragments of the layout
type Decorator interface {
	// Style applies a named style from the theme
	Style(name, s string) string
	// Status marks s with the look of a hook status
	Status(status hooks.Status, s string) string
	// Markdown renders a markdown document
	Markdown(md string) string
}

type plain struct{}

func (plain) Style(_, s string) string               { return s }
func (plain) Status(_ hooks.Status, s string) string { return s }
func (plain) Markdown(md string) string              { return md }

// Renderer writes results as human readable text
type Renderer struct {
	output io.Writer
	dec    Decorator
}

// New creates a plain text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output, dec: plain{}}, nil
}

// NewDecorated creates a renderer that styles its layout with dec
func NewDecorated(output io.Writer, dec Decorator) *Renderer {
	if dec == nil {
		dec = plain{}
	}
	return &Renderer{output: output, dec: dec}
}

// RenderResult renders any spackle result type
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *spackle.InfoResult:
		_, err := io.WriteString(r.output, r.dec.Markdown(InfoMarkdown(v)))
		return err
	case *spackle.CheckResult:
		return r.write(r.check(v))
	case *spackle.FillResult:
		return r.write(r.fill(v))
	case []hooks.Outcome:
		return r.write(r.outcomes(v))
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

// RenderError renders an error with its code when it carries one
func (r *Renderer) RenderError(err error) error {
	var b strings.Builder
	for _, e := range flatten(err) {
		code := errors.GetErrorCode(e)
		if code != errors.ErrUnknown {
			fmt.Fprintf(&b, "%s %s\n", r.dec.Style("Error", "Error ["+string(code)+"]:"), errors.MessageOf(e))
		} else {
			fmt.Fprintf(&b, "%s %s\n", r.dec.Style("Error", "Error:"), e.Error())
		}
	}
	return r.write(b.String())
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func (r *Renderer) write(s string) error {
	_, err := io.WriteString(r.output, s)
	return err
}

// InfoMarkdown lays out a project description as a markdown document
func InfoMarkdown(info *spackle.InfoResult) string {
	var b strings.Builder

	name := info.Name
	if name == "" {
		name = "project"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)
	fmt.Fprintf(&b, "Manifest: `%s`", info.ConfigPath)
	if info.SingleFile {
		b.WriteString(" (single file)")
	}
	b.WriteString("\n\n")

	b.WriteString("## Slots\n\n")
	if len(info.Slots) == 0 {
		b.WriteString("No slots.\n\n")
	} else {
		b.WriteString("| Key | Type | Default | Description |\n")
		b.WriteString("|-----|------|---------|-------------|\n")
		for _, s := range info.Slots {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", s.Key, s.Type, slotDefault(s), cell(describe(s.Name, s.Description)))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Hooks\n\n")
	if len(info.Hooks) == 0 {
		b.WriteString("No hooks.\n")
		return b.String()
	}
	byKey := make(map[string]types.Hook, len(info.Hooks))
	for _, h := range info.Hooks {
		byKey[h.Key] = h
	}
	for i, key := range info.HookOrder {
		h := byKey[key]
		fmt.Fprintf(&b, "%d. **%s** `%s`", i+1, h.Key, strings.Join(h.Command, " "))
		if h.Optional != nil {
			fmt.Fprintf(&b, " (optional, default %s)", onOff(h.Optional.Default))
		}
		b.WriteString("\n")
		if d := describe(h.Name, h.Description); d != "" {
			fmt.Fprintf(&b, "   %s\n", d)
		}
		if len(h.Needs) > 0 {
			fmt.Fprintf(&b, "   needs: %s\n", strings.Join(h.Needs, ", "))
		}
		if h.If != "" {
			fmt.Fprintf(&b, "   if: `%s`\n", h.If)
		}
	}
	return b.String()
}

func (r *Renderer) check(res *spackle.CheckResult) string {
	var b strings.Builder
	if res.Valid {
		fmt.Fprintf(&b, "%s\n", r.dec.Style("Success", "✓ project is valid"))
		return b.String()
	}
	fmt.Fprintf(&b, "%s\n", r.dec.Style("Error", fmt.Sprintf("✗ %d %s found", len(res.Problems), plural(len(res.Problems), "problem"))))
	for _, p := range res.Problems {
		fmt.Fprintf(&b, "  %s %s\n", r.dec.Style("Code", "["+string(p.Code)+"]"), p.Message)
	}
	return b.String()
}

func (r *Renderer) fill(res *spackle.FillResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%d %s)\n",
		r.dec.Style("Header", "Filled"),
		r.dec.Style("FilePath", res.OutDir),
		len(res.WrittenPaths), plural(len(res.WrittenPaths), "file"))
	for _, f := range res.Files {
		line := "  " + r.dec.Style("FilePath", f.Path)
		if f.Templated {
			line += " " + r.dec.Style("Muted", "(rendered)")
		}
		b.WriteString(line + "\n")
	}
	if len(res.HookOutcomes) > 0 {
		fmt.Fprintf(&b, "%s\n", r.dec.Style("SubHeader", "Hooks"))
		b.WriteString(r.outcomes(res.HookOutcomes))
	}
	return b.String()
}

func (r *Renderer) outcomes(outcomes []hooks.Outcome) string {
	var b strings.Builder
	for _, o := range outcomes {
		marker := map[hooks.Status]string{
			hooks.StatusCompleted: "✓",
			hooks.StatusSkipped:   "-",
			hooks.StatusFailed:    "✗",
		}[o.Status]

		line := fmt.Sprintf("  %s %s %s", marker, r.dec.Style("Key", o.Key), r.dec.Status(o.Status, string(o.Status)))
		if o.Reason != hooks.ReasonNone {
			line += " " + r.dec.Style("Muted", "("+string(o.Reason)+")")
		}
		if o.Reason == hooks.ReasonExited {
			line += fmt.Sprintf(" exit code %d", o.ExitCode)
		}
		b.WriteString(line + "\n")

		if o.Status != hooks.StatusFailed {
			continue
		}
		if o.Error != "" && o.Reason != hooks.ReasonExited {
			fmt.Fprintf(&b, "      %s\n", r.dec.Style("Error", o.Error))
		}
		if stderr := strings.TrimSpace(o.Stderr); stderr != "" {
			for _, l := range strings.Split(stderr, "\n") {
				fmt.Fprintf(&b, "      %s\n", r.dec.Style("Muted", l))
			}
		}
	}
	return b.String()
}

func flatten(err error) []error {
	if multi, ok := err.(*errors.MultiError); ok && len(multi.Errors) > 0 {
		return multi.Errors
	}
	return []error{err}
}

func slotDefault(s types.Slot) string {
	if s.Default == nil {
		return "-"
	}
	return cell(s.Default.String())
}

func describe(name, description string) string {
	switch {
	case name != "" && description != "":
		return name + ": " + description
	case name != "":
		return name
	default:
		return description
	}
}

func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", "\\|"), "\n", " ")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
