package hooks

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/logging"
	"github.com/rs/zerolog"
)

// Output is what a finished command left behind
type Output struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner launches one hook command. A returned error means the process
// could not be started; a process that ran and exited non-zero is reported
// through Output.ExitCode with a nil error.
type Runner interface {
	Run(ctx context.Context, argv []string, dir string) (Output, error)
}

// ExecRunner runs commands as child processes without a shell
type ExecRunner struct {
	// Env is appended to the inherited environment
	Env    []string
	logger zerolog.Logger
}

// NewExecRunner creates a runner for real processes
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		logger: logging.GetLogger("hooks.exec"),
	}
}

// Run executes argv with dir as working directory. Cancelling ctx kills
// the process.
func (r *ExecRunner) Run(ctx context.Context, argv []string, dir string) (Output, error) {
	if len(argv) == 0 {
		return Output{}, errors.New(errors.ErrHookExecution, "empty command")
	}
	logging.LogCommand(r.logger, argv, dir)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return out, nil
	}

	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		r.logger.Debug().
			Str("command", argv[0]).
			Int("exit_code", out.ExitCode).
			Str("stderr", stderr.String()).
			Msg("Command exited with failure")
		return out, nil
	}
	return out, err
}
