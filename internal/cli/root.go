package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/A2-ai/spackle/internal/version"
	"github.com/A2-ai/spackle/pkg/cobrax/topics"
	"github.com/A2-ai/spackle/pkg/config"
	"github.com/A2-ai/spackle/pkg/logging"
	"github.com/A2-ai/spackle/pkg/spackle"
	"github.com/A2-ai/spackle/pkg/ui"
	"github.com/A2-ai/spackle/pkg/ui/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globals holds the persistent flags shared by every command
type globals struct {
	verbosity int
	project   string
	format    string
	config    string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "spackle",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			_, err := g.outputFormat()
			return err
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&g.project, "project", "p", ".", MsgFlagProject)
	rootCmd.PersistentFlags().StringVarP(&g.format, "format", "f", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&g.config, "config", "", MsgFlagConfig)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newInfoCmd(g))
	rootCmd.AddCommand(newCheckCmd(g))
	rootCmd.AddCommand(newFillCmd(g))
	rootCmd.AddCommand(newServeCmd(g))
	rootCmd.AddCommand(newVersionCmd())

	sub, err := fs.Sub(topicsFS, "topics")
	if err == nil {
		opts := topics.Options{Renderer: topics.NewGlamourRenderer()}
		if err := topics.InitializeWithOptions(rootCmd, sub, opts); err != nil {
			log.Debug().Err(err).Msg("Help topics unavailable")
		}
	}

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
			return err
		},
	}
}

// settings loads engine settings from --config, the user settings file and
// the environment
func (g *globals) settings() (config.Settings, error) {
	return config.LoadSettings(g.config)
}

func (g *globals) options() ([]spackle.Option, error) {
	s, err := g.settings()
	if err != nil {
		return nil, err
	}
	return []spackle.Option{spackle.WithSettings(s)}, nil
}

func (g *globals) outputFormat() (ui.Format, error) {
	return ui.ParseFormat(g.format)
}

// renderer builds the renderer for w. A broken user styles file falls
// back to the built-in styles.
func (g *globals) renderer(w io.Writer) (ui.Renderer, error) {
	format, err := g.outputFormat()
	if err != nil {
		return nil, err
	}
	cfg, err := styles.Load(styles.UserStylesPath())
	if err != nil {
		log.Warn().Err(err).Msg("Ignoring user styles")
		cfg = styles.Default()
	}
	return ui.NewStyledRenderer(format, w, cfg)
}

// fail renders err and marks it as reported so main does not print it
// again. Structured formats write errors to standard output.
func (g *globals) fail(cmd *cobra.Command, err error) error {
	w := cmd.ErrOrStderr()
	if format, ferr := g.outputFormat(); ferr == nil && format.IsStructured() {
		w = cmd.OutOrStdout()
	}
	r, rerr := g.renderer(w)
	if rerr != nil {
		return err
	}
	if rerr := r.RenderError(err); rerr != nil {
		return err
	}
	return &reportedError{err: err}
}

// reportedError is an error already shown to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// errUnsuccessful ends a command whose result was rendered but reports a
// failure, such as an invalid project or a failed hook
var errUnsuccessful = stderrors.New("command unsuccessful")

// IsReported reports whether err was already rendered for the user
func IsReported(err error) bool {
	var r *reportedError
	return stderrors.As(err, &r) || stderrors.Is(err, errUnsuccessful)
}

// ExitCode maps a command error to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
