package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/A2-ai/spackle/pkg/hooks"
)

// FakeCall is one command seen by a FakeRunner
type FakeCall struct {
	Argv []string
	Dir  string
}

// FakeRunner records commands instead of running them. Responses are keyed
// by the space-joined argv; unknown commands exit 0 with no output.
type FakeRunner struct {
	mu        sync.Mutex
	calls     []FakeCall
	responses map[string]hooks.Output
	failures  map[string]error
}

// NewFakeRunner creates an empty fake
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: make(map[string]hooks.Output),
		failures:  make(map[string]error),
	}
}

// On sets the output returned for a command line
func (f *FakeRunner) On(cmdline string, out hooks.Output) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = out
	return f
}

// FailLaunch makes a command line fail to start
func (f *FakeRunner) FailLaunch(cmdline string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[cmdline] = err
	return f
}

// Run implements hooks.Runner
func (f *FakeRunner) Run(_ context.Context, argv []string, dir string) (hooks.Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, FakeCall{Argv: append([]string(nil), argv...), Dir: dir})
	line := strings.Join(argv, " ")
	if err, ok := f.failures[line]; ok {
		return hooks.Output{}, err
	}
	return f.responses[line], nil
}

// Calls returns the recorded commands in order
func (f *FakeRunner) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeCall(nil), f.calls...)
}

// CommandLines returns the recorded commands as joined strings
func (f *FakeRunner) CommandLines() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = strings.Join(c.Argv, " ")
	}
	return out
}
