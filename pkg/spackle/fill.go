package spackle

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/A2-ai/spackle/pkg/config"
	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/hooks"
	"github.com/A2-ai/spackle/pkg/render"
	"github.com/A2-ai/spackle/pkg/template"
	"github.com/A2-ai/spackle/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FillResult is what one fill produced
type FillResult struct {
	// RunID tags every log record of the fill
	RunID  string `json:"run_id" yaml:"run_id"`
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// WrittenPaths are relative to OutDir, sorted
	WrittenPaths []string              `json:"written_paths" yaml:"written_paths"`
	Files        []render.RenderedFile `json:"files" yaml:"files"`
	HookOutcomes []hooks.Outcome       `json:"hook_outcomes" yaml:"hook_outcomes"`
}

// Failed reports whether any hook failed
func (r *FillResult) Failed() bool {
	return len(hooks.Failed(r.HookOutcomes)) > 0
}

// HookErrors returns one HOOK_EXECUTION error per failed hook
func (r *FillResult) HookErrors() []error {
	var out []error
	for _, o := range hooks.Failed(r.HookOutcomes) {
		out = append(out, o.Err())
	}
	return out
}

// Fill renders the project at path into outDir and runs its hooks there.
//
// Manifest, value, path and render errors abort the fill and are returned
// as errors; nothing is written when the first three occur. Hook failures
// are reported in the result's outcomes and only become an error when the
// FailOnHookError setting is on, in which case the result is still
// returned.
func Fill(ctx context.Context, path string, values, toggles map[string]string, outDir string, opts ...Option) (result *FillResult, err error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	runID := uuid.New().String()
	logger := o.componentLogger("fill", runID)

	if o.metrics != nil {
		defer func() { o.metrics.RecordFill(err) }()
	}

	project, graph, err := load(path, o)
	if err != nil {
		return nil, err
	}

	bound, err := bind(project, values, toggles)
	if err != nil {
		return nil, err
	}

	if err := checkOutput(project, outDir, o.overwrite); err != nil {
		return nil, err
	}

	res := graph.Resolve(bound.values)
	tctx := template.NewContext(project.Slots, bound.values, project.Universals(outDir))

	logger.Info().
		Str("project", path).
		Str("out", outDir).
		Int("enabled_slots", countTrue(res.Enabled)).
		Msg("Fill started")

	pipeline := newPipeline(o, o.componentLogger("render", runID))
	start := time.Now()
	var rendered *render.Result
	hookDir := outDir
	if project.SingleFile {
		rendered, err = pipeline.RenderSingleFile(project, outDir, tctx)
		hookDir = filepath.Dir(outDir)
	} else {
		rendered, err = pipeline.Run(ctx, project.Dir, outDir, project.Ignore, tctx)
	}
	if err != nil {
		return nil, err
	}
	if o.metrics != nil {
		o.metrics.RecordRender(time.Since(start))
		for _, f := range rendered.Files {
			o.metrics.RecordFile(f.Templated, f.Elapsed)
		}
	}

	executor := hooks.NewExecutor(o.engine, o.runner).WithLogger(o.componentLogger("hooks", runID))
	executor.Events = o.events
	outcomes := executor.Run(ctx, hooks.Plan(graph, res, bound.toggles), tctx, hookDir)
	if o.metrics != nil {
		for _, oc := range outcomes {
			o.metrics.RecordHook(oc.Key, string(oc.Status), string(oc.Reason), oc.Elapsed)
		}
	}

	result = &FillResult{
		RunID:        runID,
		OutDir:       outDir,
		WrittenPaths: rendered.Paths(),
		Files:        rendered.Files,
		HookOutcomes: outcomes,
	}

	logger.Info().
		Int("files", len(result.WrittenPaths)).
		Int("hooks", len(outcomes)).
		Int("hooks_failed", len(hooks.Failed(outcomes))).
		Msg("Fill finished")

	if o.settings.FailOnHookError && result.Failed() {
		var multi errors.MultiError
		for _, e := range result.HookErrors() {
			multi.Append(e)
		}
		return result, multi.ErrorOrNil()
	}
	return result, nil
}

type boundInput struct {
	values  types.Values
	toggles map[string]bool
}

// bind converts raw values and toggles, reporting all problems at once
func bind(project *types.Project, values, toggles map[string]string) (*boundInput, error) {
	var problems errors.MultiError

	v, err := types.BindValues(project.Slots, values)
	problems.Append(err)
	t, err := types.BindToggles(project.Hooks, toggles)
	problems.Append(err)

	if err := problems.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &boundInput{values: v, toggles: t}, nil
}

// checkOutput applies the output guard before anything is written
func checkOutput(project *types.Project, outDir string, overwrite bool) error {
	if outDir == "" {
		return errors.New(errors.ErrPathInvalidOutput, "no output path given")
	}
	if !project.SingleFile {
		if err := render.CheckOutputDir(project.Dir, outDir); err != nil {
			return err
		}
	}
	if overwrite {
		return nil
	}
	if _, err := os.Lstat(outDir); err == nil {
		return errors.Newf(errors.ErrPathExists, "output path %s already exists", outDir).
			WithDetail("output", outDir)
	} else if !stderrors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect output path %s", outDir)
	}
	return nil
}

func newPipeline(o *options, logger zerolog.Logger) *render.Pipeline {
	p := render.NewPipeline(o.engine).WithLogger(logger)
	p.TemplateExt = o.settings.TemplateExt
	p.ManifestName = o.settings.ManifestName
	if p.ManifestName == "" {
		p.ManifestName = config.DefaultManifestName
	}
	p.Parallelism = o.settings.Parallelism
	return p
}

func countTrue(m map[string]bool) int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}
