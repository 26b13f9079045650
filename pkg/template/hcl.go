package template

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// HCL renders HCL template syntax: ${name}, %{ if cond }...%{ endif }.
type HCL struct{}

// NewHCL returns the HCL template engine
func NewHCL() *HCL { return &HCL{} }

func (h *HCL) Name() string { return EngineHCL }

func (h *HCL) Render(source, tmpl string, ctx Context) (string, error) {
	if !HasExpression(tmpl) {
		return tmpl, nil
	}

	expr, diags := hclsyntax.ParseTemplate([]byte(tmpl), source, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return "", renderError(diags, source)
	}

	val, diags := expr.Value(&hcl.EvalContext{Variables: toCty(ctx)})
	if diags.HasErrors() {
		return "", renderError(diags, source)
	}
	if val.IsNull() {
		return "", nil
	}
	if !val.IsWhollyKnown() {
		return "", renderError(fmt.Errorf("template produced an unknown value"), source)
	}

	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", renderError(err, source)
	}
	return str.AsString(), nil
}

func toCty(ctx Context) map[string]cty.Value {
	vars := make(map[string]cty.Value, len(ctx))
	for k, v := range ctx {
		switch tv := v.(type) {
		case string:
			vars[k] = cty.StringVal(tv)
		case bool:
			vars[k] = cty.BoolVal(tv)
		case int64:
			vars[k] = cty.NumberIntVal(tv)
		case int:
			vars[k] = cty.NumberIntVal(int64(tv))
		case float64:
			vars[k] = cty.NumberFloatVal(tv)
		default:
			vars[k] = cty.StringVal(fmt.Sprint(tv))
		}
	}
	return vars
}
