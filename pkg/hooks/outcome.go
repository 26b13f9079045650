package hooks

import (
	"fmt"
	"time"

	"github.com/A2-ai/spackle/pkg/errors"
)

// Status is the final state of one hook
type Status string

const (
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Reason qualifies a skipped or failed outcome
type Reason string

const (
	ReasonNone Reason = ""

	// skipped
	ReasonUserDisabled     Reason = "user_disabled"
	ReasonUnsatisfied      Reason = "unsatisfied"
	ReasonFalseConditional Reason = "false_conditional"

	// failed
	ReasonConditionalFailed Reason = "conditional_failed"
	ReasonRenderFailed      Reason = "render_failed"
	ReasonLaunchFailed      Reason = "launch_failed"
	ReasonExited            Reason = "exited"
)

// Outcome records what happened to one hook
type Outcome struct {
	Key    string `json:"key" yaml:"key"`
	Status Status `json:"status" yaml:"status"`
	Reason Reason `json:"reason,omitempty" yaml:"reason,omitempty"`

	// Command is the rendered argv, empty when rendering never happened
	Command []string `json:"command,omitempty" yaml:"command,omitempty"`

	ExitCode int    `json:"exit_code,omitempty" yaml:"exit_code,omitempty"`
	Stdout   string `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty" yaml:"stderr,omitempty"`

	// Error carries the underlying failure message
	Error   string        `json:"error,omitempty" yaml:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`

	cause error
}

// Ran reports whether the hook counts as run for hook_ran_<key>
func (o Outcome) Ran() bool {
	return o.Status == StatusCompleted
}

// Err returns a HOOK_EXECUTION error for failed outcomes and nil otherwise
func (o Outcome) Err() error {
	if o.Status != StatusFailed {
		return nil
	}
	msg := fmt.Sprintf("hook %s failed (%s)", o.Key, o.Reason)
	if o.Reason == ReasonExited {
		msg = fmt.Sprintf("hook %s exited with code %d", o.Key, o.ExitCode)
	}
	var err *errors.SpackleError
	if o.cause != nil {
		err = errors.Wrap(o.cause, errors.ErrHookExecution, msg)
	} else {
		err = errors.New(errors.ErrHookExecution, msg)
	}
	return err.WithDetail("hook", o.Key).WithDetail("reason", string(o.Reason))
}

func (o Outcome) String() string {
	if o.Reason == ReasonNone {
		return fmt.Sprintf("%s: %s", o.Key, o.Status)
	}
	return fmt.Sprintf("%s: %s (%s)", o.Key, o.Status, o.Reason)
}

func skipped(key string, reason Reason) Outcome {
	return Outcome{Key: key, Status: StatusSkipped, Reason: reason}
}

func failed(key string, reason Reason, cause error) Outcome {
	o := Outcome{Key: key, Status: StatusFailed, Reason: reason, cause: cause}
	if cause != nil {
		o.Error = cause.Error()
	}
	return o
}

// Failed returns the failed outcomes in order
func Failed(outcomes []Outcome) []Outcome {
	var out []Outcome
	for _, o := range outcomes {
		if o.Status == StatusFailed {
			out = append(out, o)
		}
	}
	return out
}
