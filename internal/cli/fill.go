package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/hooks"
	"github.com/A2-ai/spackle/pkg/metrics"
	"github.com/A2-ai/spackle/pkg/spackle"
	"github.com/A2-ai/spackle/pkg/ui"
	"github.com/A2-ai/spackle/pkg/ui/terminal"
	"github.com/A2-ai/spackle/pkg/watch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type fillFlags struct {
	out         string
	slots       []string
	hooks       []string
	overwrite   bool
	metricsFile string
	watch       bool
}

func newFillCmd(g *globals) *cobra.Command {
	f := &fillFlags{}

	cmd := &cobra.Command{
		Use:     "fill",
		Short:   MsgFillShort,
		Long:    MsgFillLong,
		Example: MsgFillExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd, g, f)
		},
	}

	cmd.Flags().StringVarP(&f.out, "out", "o", "", MsgFlagOut)
	cmd.Flags().StringArrayVarP(&f.slots, "slot", "s", nil, MsgFlagSlot)
	cmd.Flags().StringArrayVarP(&f.hooks, "hook", "H", nil, MsgFlagHook)
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, MsgFlagOverwrite)
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", MsgFlagMetricsFile)
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, MsgFlagWatch)
	return cmd
}

func runFill(cmd *cobra.Command, g *globals, f *fillFlags) error {
	if f.out == "" {
		return g.fail(cmd, errors.New(errors.ErrPathInvalidOutput, MsgErrNoOutput))
	}
	values, err := parseAssignments("slot", f.slots)
	if err != nil {
		return g.fail(cmd, err)
	}
	toggles, err := parseAssignments("hook", f.hooks)
	if err != nil {
		return g.fail(cmd, err)
	}
	opts, err := g.options()
	if err != nil {
		return g.fail(cmd, err)
	}
	format, err := g.outputFormat()
	if err != nil {
		return err
	}
	r, err := g.renderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	var collector *metrics.Collector
	if f.metricsFile != "" {
		collector = metrics.NewCollector(prometheus.NewRegistry())
		opts = append(opts, spackle.WithMetrics(collector))
	}
	progress := ui.Resolve(format, cmd.ErrOrStderr()) == ui.FormatTerminal

	fill := func(ctx context.Context, overwrite bool) error {
		callOpts := append(append([]spackle.Option{}, opts...), spackle.WithOverwrite(overwrite))

		var done chan struct{}
		var events chan hooks.Event
		if progress {
			events = make(chan hooks.Event)
			done = make(chan struct{})
			callOpts = append(callOpts, spackle.WithEvents(events))
			go func() {
				terminal.Progress(cmd.ErrOrStderr(), events, g.verbosity > 0)
				close(done)
			}()
		}

		result, err := spackle.Fill(ctx, g.project, values, toggles, f.out, callOpts...)
		if events != nil {
			close(events)
			<-done
		}

		if collector != nil {
			if werr := collector.WriteTextfile(f.metricsFile); werr != nil {
				log.Warn().Err(werr).Str("path", f.metricsFile).Msg("Failed to write metrics")
			}
		}

		if result != nil {
			if rerr := r.RenderResult(result); rerr != nil {
				return rerr
			}
		}
		if err != nil {
			if result != nil {
				return errUnsuccessful
			}
			return g.fail(cmd, err)
		}
		if result.Failed() {
			return errUnsuccessful
		}
		return nil
	}

	first := fill(cmd.Context(), f.overwrite)
	if !f.watch {
		return first
	}

	dir, err := watchDir(g.project)
	if err != nil {
		return g.fail(cmd, err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), MsgWatching, dir)
	w := watch.New(dir)
	w.Exclude = []string{f.out}
	return w.Run(cmd.Context(), func(ctx context.Context) error {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), MsgRefilling)
		return fill(ctx, true)
	})
}

// watchDir is the directory to observe for a project path
func watchDir(project string) (string, error) {
	info, err := os.Stat(project)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read project %s", project)
	}
	if info.IsDir() {
		return project, nil
	}
	return filepath.Dir(project), nil
}
