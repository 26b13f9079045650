// Package hooks runs post-render commands inside the output directory.
//
// Hooks run one at a time in dependency order. Each hook's condition sees
// hook_ran_<key> for every hook handled before it, so later hooks can react
// to earlier ones. A failing hook never stops the sequence.
package hooks

import (
	"context"
	"time"

	"github.com/A2-ai/spackle/pkg/logging"
	"github.com/A2-ai/spackle/pkg/template"
	"github.com/A2-ai/spackle/pkg/types"
	"github.com/rs/zerolog"
)

// Executor runs a plan
type Executor struct {
	Engine template.Engine
	Runner Runner

	// Events, when set, receives a Started and a Done event per hook. The
	// executor never closes it.
	Events chan<- Event

	logger zerolog.Logger
}

// NewExecutor returns an executor using the given engine and runner
func NewExecutor(engine template.Engine, runner Runner) *Executor {
	return &Executor{
		Engine: engine,
		Runner: runner,
		logger: logging.GetLogger("hooks"),
	}
}

// WithLogger replaces the executor logger
func (e *Executor) WithLogger(logger zerolog.Logger) *Executor {
	e.logger = logger
	return e
}

// Run executes the plan with dir as working directory and returns one
// outcome per planned hook, in plan order. tctx is not modified.
func (e *Executor) Run(ctx context.Context, plan []Planned, tctx template.Context, dir string) []Outcome {
	done := logging.LogOperationStart(e.logger, "hooks")
	defer done()

	run := tctx.Clone()
	outcomes := make([]Outcome, 0, len(plan))
	for _, p := range plan {
		e.emit(Event{Kind: EventStarted, Key: p.Hook.Key})

		var o Outcome
		switch p.Selection {
		case NotSatisfied:
			o = skipped(p.Hook.Key, ReasonUnsatisfied)
		case UserDisabled:
			o = skipped(p.Hook.Key, ReasonUserDisabled)
		default:
			o = e.runHook(ctx, p.Hook, run, dir)
		}
		run[types.HookRanKey(p.Hook.Key)] = o.Ran()

		e.log(o)
		outcomes = append(outcomes, o)
		e.emit(Event{Kind: EventDone, Key: o.Key, Outcome: &o})
	}
	return outcomes
}

func (e *Executor) runHook(ctx context.Context, h types.Hook, run template.Context, dir string) Outcome {
	start := time.Now()
	o := e.attempt(ctx, h, run, dir)
	o.Elapsed = time.Since(start)
	return o
}

func (e *Executor) attempt(ctx context.Context, h types.Hook, run template.Context, dir string) Outcome {
	if h.If != "" {
		ok, err := template.EvalBool(e.Engine, "hook:"+h.Key+":if", h.If, run)
		if err != nil {
			return failed(h.Key, ReasonConditionalFailed, err)
		}
		if !ok {
			return skipped(h.Key, ReasonFalseConditional)
		}
	}

	argv, err := template.RenderAll(e.Engine, "hook:"+h.Key, h.Command, run)
	if err != nil {
		return failed(h.Key, ReasonRenderFailed, err)
	}

	if err := ctx.Err(); err != nil {
		o := failed(h.Key, ReasonLaunchFailed, err)
		o.Command = argv
		return o
	}

	out, err := e.Runner.Run(ctx, argv, dir)
	if err != nil {
		o := failed(h.Key, ReasonLaunchFailed, err)
		o.Command = argv
		return o
	}

	o := Outcome{
		Key:      h.Key,
		Status:   StatusCompleted,
		Command:  argv,
		ExitCode: out.ExitCode,
		Stdout:   string(out.Stdout),
		Stderr:   string(out.Stderr),
	}
	if out.ExitCode != 0 {
		o.Status = StatusFailed
		o.Reason = ReasonExited
	}
	return o
}

func (e *Executor) emit(ev Event) {
	if e.Events != nil {
		e.Events <- ev
	}
}

func (e *Executor) log(o Outcome) {
	var ev *zerolog.Event
	switch o.Status {
	case StatusFailed:
		ev = e.logger.Warn()
	case StatusSkipped:
		ev = e.logger.Debug()
	default:
		ev = e.logger.Info()
	}
	ev = ev.Str("hook", o.Key).Str("status", string(o.Status))
	if o.Reason != ReasonNone {
		ev = ev.Str("reason", string(o.Reason))
	}
	if o.Status == StatusFailed && o.Reason == ReasonExited {
		ev = ev.Int("exit_code", o.ExitCode)
	}
	if o.Error != "" {
		ev = ev.Str("error", o.Error)
	}
	ev.Dur("elapsed", o.Elapsed).Msg("Hook finished")
}
