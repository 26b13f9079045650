package template

import (
	"github.com/nikolalohinski/gonja"
	"github.com/nikolalohinski/gonja/config"
)

// Gonja renders Jinja2 syntax: {{ name }}, {% if %}, filters and tests.
type Gonja struct {
	env *gonja.Environment
}

// NewGonja returns a Jinja2 engine that rejects undefined variables
func NewGonja() *Gonja {
	cfg := config.NewConfig()
	cfg.StrictUndefined = true
	return &Gonja{env: gonja.NewEnvironment(cfg, gonja.DefaultLoader)}
}

func (g *Gonja) Name() string { return EngineGonja }

func (g *Gonja) Render(source, tmpl string, ctx Context) (string, error) {
	if !HasExpression(tmpl) {
		return tmpl, nil
	}
	tpl, err := g.env.FromString(tmpl)
	if err != nil {
		return "", renderError(err, source)
	}
	out, err := tpl.Execute(map[string]interface{}(ctx))
	if err != nil {
		return "", renderError(err, source)
	}
	return out, nil
}
