package ui_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/hooks"
	"github.com/A2-ai/spackle/pkg/render"
	"github.com/A2-ai/spackle/pkg/spackle"
	"github.com/A2-ai/spackle/pkg/types"
	"github.com/A2-ai/spackle/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleInfo() *spackle.InfoResult {
	port := types.NumberValue(8080)
	return &spackle.InfoResult{
		Name:       "demo",
		ConfigPath: "/projects/demo/spackle.toml",
		Slots: []types.Slot{
			{Key: "name", Type: types.SlotString, Description: "Project name"},
			{Key: "port", Type: types.SlotNumber, Default: &port},
		},
		Hooks: []types.Hook{
			{Key: "fmt", Command: []string{"gofmt", "-w", "."}, Optional: &types.HookOptional{Default: false}},
			{Key: "init", Command: []string{"git", "init"}, Needs: []string{"name"}},
		},
		HookOrder: []string{"init", "fmt"},
	}
}

func sampleFill() *spackle.FillResult {
	return &spackle.FillResult{
		RunID:        "run-1",
		OutDir:       "/tmp/out",
		WrittenPaths: []string{"README.md", "main.go"},
		Files: []render.RenderedFile{
			{Source: "README.md.j2", Path: "README.md", Templated: true},
			{Source: "main.go", Path: "main.go"},
		},
		HookOutcomes: []hooks.Outcome{
			{Key: "init", Status: hooks.StatusCompleted, Command: []string{"git", "init"}, Elapsed: time.Millisecond},
			{Key: "fmt", Status: hooks.StatusSkipped, Reason: hooks.ReasonUserDisabled},
			{Key: "lint", Status: hooks.StatusFailed, Reason: hooks.ReasonExited, ExitCode: 2, Stderr: "bad style\n"},
		},
	}
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		name        string
		format      ui.Format
		expectError bool
	}{
		{"terminal", ui.FormatTerminal, false},
		{"text", ui.FormatText, false},
		{"json", ui.FormatJSON, false},
		{"yaml", ui.FormatYAML, false},
		{"auto with buffer", ui.FormatAuto, false},
		{"invalid", ui.Format(999), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer, err := ui.NewRenderer(tt.format, &bytes.Buffer{})
			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, renderer)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidFormat))
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, renderer)
		})
	}
}

func TestTextInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := ui.NewRenderer(ui.FormatText, buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderResult(sampleInfo()))

	out := buf.String()
	assert.Contains(t, out, "# demo")
	assert.Contains(t, out, "| name | String | - | Project name |")
	assert.Contains(t, out, "| port | Number | 8080 |")
	assert.Contains(t, out, "1. **init** `git init`")
	assert.Contains(t, out, "needs: name")
	assert.Contains(t, out, "2. **fmt** `gofmt -w .` (optional, default off)")
}

func TestTextCheck(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := ui.NewRenderer(ui.FormatText, buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderResult(&spackle.CheckResult{Valid: true}))
	assert.Contains(t, buf.String(), "project is valid")

	buf.Reset()
	require.NoError(t, r.RenderResult(&spackle.CheckResult{
		Problems: []spackle.Problem{
			{Code: errors.ErrTemplateValidate, Message: "README.md.j2: undefined variable"},
		},
	}))
	assert.Contains(t, buf.String(), "1 problem found")
	assert.Contains(t, buf.String(), "[TEMPLATE_VALIDATE] README.md.j2: undefined variable")
}

func TestTextFill(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := ui.NewRenderer(ui.FormatText, buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderResult(sampleFill()))

	out := buf.String()
	assert.Contains(t, out, "Filled /tmp/out (2 files)")
	assert.Contains(t, out, "README.md (rendered)")
	assert.Contains(t, out, "✓ init completed")
	assert.Contains(t, out, "- fmt skipped (user_disabled)")
	assert.Contains(t, out, "✗ lint failed (exited) exit code 2")
	assert.Contains(t, out, "bad style")
}

func TestTextError(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := ui.NewRenderer(ui.FormatText, buf)
	require.NoError(t, err)

	var multi errors.MultiError
	multi.Append(errors.New(errors.ErrValueTypeMismatch, "port: not a number"))
	multi.Append(errors.New(errors.ErrValueUnknownSlot, "unknown slot ghost"))
	require.NoError(t, r.RenderError(multi.ErrorOrNil()))

	out := buf.String()
	assert.Contains(t, out, "Error [VALUE_TYPE_MISMATCH]: port: not a number")
	assert.Contains(t, out, "Error [VALUE_UNKNOWN_SLOT]: unknown slot ghost")
}

func TestJSONRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := ui.NewRenderer(ui.FormatJSON, buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderResult(sampleInfo()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "demo", decoded["name"])
	assert.Equal(t, []interface{}{"init", "fmt"}, decoded["hook_order"])

	buf.Reset()
	require.NoError(t, r.RenderError(errors.New(errors.ErrPathExists, "output exists").WithDetail("path", "/tmp/out")))
	var errDoc struct {
		Errors []struct {
			Code     string                 `json:"code"`
			Category string                 `json:"category"`
			Details  map[string]interface{} `json:"details"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &errDoc))
	require.Len(t, errDoc.Errors, 1)
	assert.Equal(t, "PATH_EXISTS", errDoc.Errors[0].Code)
	assert.Equal(t, "PathError", errDoc.Errors[0].Category)
	assert.Equal(t, "/tmp/out", errDoc.Errors[0].Details["path"])
}

func TestYAMLRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := ui.NewRenderer(ui.FormatYAML, buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderResult(sampleFill()))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "/tmp/out", decoded["out_dir"])
	assert.Len(t, decoded["hook_outcomes"], 3)

	buf.Reset()
	require.NoError(t, r.RenderMessage("done"))
	assert.Equal(t, "message: done\n", buf.String())
}

func TestTerminalRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := ui.NewRenderer(ui.FormatTerminal, buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderResult(sampleInfo()))
	assert.Contains(t, buf.String(), "demo")
	assert.Contains(t, buf.String(), "port")

	buf.Reset()
	require.NoError(t, r.RenderResult(sampleFill()))
	assert.Contains(t, buf.String(), "/tmp/out")
	assert.Contains(t, buf.String(), "lint")
}

func TestResolve(t *testing.T) {
	assert.Equal(t, ui.FormatJSON, ui.Resolve(ui.FormatJSON, &bytes.Buffer{}))
	assert.Equal(t, ui.FormatText, ui.Resolve(ui.FormatAuto, &bytes.Buffer{}))
}
