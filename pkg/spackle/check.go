package spackle

import (
	stderrors "errors"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/template"
	"github.com/A2-ai/spackle/pkg/types"
)

// Problem is a serializable view of one validation error
type Problem struct {
	Code     errors.ErrorCode       `json:"code" yaml:"code"`
	Category errors.Category        `json:"category" yaml:"category"`
	Message  string                 `json:"message" yaml:"message"`
	Details  map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// CheckResult reports every problem found in a project
type CheckResult struct {
	Valid    bool      `json:"valid" yaml:"valid"`
	Problems []Problem `json:"problems" yaml:"problems"`
	Errors   []error   `json:"-" yaml:"-"`
}

func (r *CheckResult) add(err error) {
	for _, e := range flatten(err) {
		code := errors.GetErrorCode(e)
		r.Errors = append(r.Errors, e)
		r.Problems = append(r.Problems, Problem{
			Code:     code,
			Category: code.Category(),
			Message:  errors.MessageOf(e),
			Details:  errors.GetErrorDetails(e),
		})
	}
	r.Valid = len(r.Errors) == 0
}

// Check validates the manifest, then renders every template with all slots
// at their zero values to find references to undeclared names. Problems
// are returned in the result; the error is reserved for a missing or
// unreadable project.
func Check(path string, opts ...Option) (*CheckResult, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	logger := o.componentLogger("check", "")
	result := &CheckResult{Valid: true, Problems: []Problem{}}

	project, graph, err := load(path, o)
	if err != nil {
		if errors.IsCategory(err, errors.ManifestError) && !errors.IsErrorCode(err, errors.ErrManifestNotFound) {
			result.add(err)
			return result, nil
		}
		return nil, err
	}

	tctx := template.ZeroContext(project.Slots, project.Universals(""))

	pipeline := newPipeline(o, o.componentLogger("render", ""))
	if project.SingleFile {
		result.add(pipeline.ValidateBody(project.ConfigPath, project.Body, tctx))
	} else {
		err := pipeline.Validate(project.Dir, project.Ignore, tctx)
		if err != nil && !errors.IsCategory(err, errors.RenderError) {
			return nil, err
		}
		result.add(err)
	}

	result.add(checkHooks(o.engine, graph.HookOrder(), tctx))

	if o.values != nil || o.toggles != nil {
		_, err := types.BindValues(project.Slots, o.values)
		result.add(err)
		_, err = types.BindToggles(project.Hooks, o.toggles)
		result.add(err)
	}

	logger.Info().
		Str("path", path).
		Bool("valid", result.Valid).
		Int("problems", len(result.Problems)).
		Msg("Project checked")
	return result, nil
}

// checkHooks renders hook commands and conditions in execution order. Each
// hook sees hook_ran_* for the hooks before it, as it would during a fill,
// so only undeclared names and syntax errors surface.
func checkHooks(engine template.Engine, order []types.Hook, zero template.Context) error {
	tctx := zero.Clone()

	var problems errors.MultiError
	for _, h := range order {
		if _, err := template.RenderAll(engine, "hook:"+h.Key, h.Command, tctx); err != nil {
			problems.Append(errors.Wrapf(err, errors.ErrTemplateValidate, "hook %s command failed to render", h.Key).
				WithDetail("hook", h.Key))
		}
		if h.If != "" {
			if _, err := engine.Render("hook:"+h.Key+":if", h.If, tctx); err != nil {
				problems.Append(errors.Wrapf(err, errors.ErrTemplateValidate, "hook %s condition failed to render", h.Key).
					WithDetail("hook", h.Key))
			}
		}
		tctx[types.HookRanKey(h.Key)] = false
	}
	return problems.ErrorOrNil()
}

func flatten(err error) []error {
	if err == nil {
		return nil
	}
	var multi *errors.MultiError
	if stderrors.As(err, &multi) {
		var out []error
		for _, e := range multi.Errors {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}
