// Package template evaluates templated strings: file contents, path names,
// hook command tokens and hook conditions all go through an Engine.
package template

import (
	"fmt"
	"strings"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/types"
)

// Context holds the variables visible to a template
type Context map[string]interface{}

// Clone returns a shallow copy that can be extended independently
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Engine renders a template string against a context. Implementations must
// fail on undefined variables and be safe for concurrent use.
type Engine interface {
	// Name identifies the syntax, e.g. "gonja"
	Name() string

	// Render evaluates tmpl. source names the template in errors: a file
	// path, or hook:<key> for hook tokens.
	Render(source, tmpl string, ctx Context) (string, error)
}

// Engine names accepted by New
const (
	EngineGonja = "gonja"
	EngineHCL   = "hcl"
)

// New returns the engine registered under name
func New(name string) (Engine, error) {
	switch strings.ToLower(name) {
	case "", EngineGonja, "jinja", "jinja2":
		return NewGonja(), nil
	case EngineHCL:
		return NewHCL(), nil
	}
	return nil, errors.Newf(errors.ErrConfigLoad, "unknown template engine %q", name)
}

func renderError(err error, source string) error {
	return errors.Wrapf(err, errors.ErrRender, "cannot render %s", source).
		WithDetail("source", source)
}

// EvalBool renders a hook condition and parses the result as a boolean.
// Surrounding whitespace is ignored and the comparison is case-insensitive,
// so "True" from a Jinja expression counts.
func EvalBool(e Engine, source, expr string, ctx Context) (bool, error) {
	out, err := e.Render(source, expr, ctx)
	if err != nil {
		return false, err
	}
	b, ok := types.ParseBoolean(out)
	if !ok {
		return false, errors.Newf(errors.ErrRender, "%s: condition rendered to %q, not a boolean", source, strings.TrimSpace(out)).
			WithDetail("source", source)
	}
	return b, nil
}

// HasExpression reports whether s contains template syntax for any
// supported engine. Strings without it render to themselves.
func HasExpression(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%") ||
		strings.Contains(s, "{#") || strings.Contains(s, "${") || strings.Contains(s, "%{")
}

// RenderAll renders each token of a command
func RenderAll(e Engine, source string, tokens []string, ctx Context) ([]string, error) {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		r, err := e.Render(fmt.Sprintf("%s[%d]", source, i), tok, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
