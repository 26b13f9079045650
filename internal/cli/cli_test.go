// Test Type: Integration Test

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliManifest = `
name = "demo"

[[slots]]
key = "name"
type = "String"

[[slots]]
key = "port"
type = "Number"
default = 8080

[[hooks]]
key = "touch"
command = ["touch", "{{ name }}.done"]
needs = ["name"]

[[hooks]]
key = "fail"
command = ["false"]
optional = { default = false }
`

var cliFiles = map[string]string{
	"README.md.j2": "# {{ name }} on {{ port }}\n",
	"static.txt":   "as is",
}

type cliRun struct {
	stdout string
	stderr string
	err    error
}

// execute runs the CLI with an empty settings file so the user's own
// settings never leak into a test
func execute(t *testing.T, args ...string) cliRun {
	t.Helper()

	settings := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(settings, nil, 0644))

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	root := NewRootCmd()
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(append([]string{"--config", settings}, args...))
	err := root.Execute()
	return cliRun{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments("slot", []string{"name=demo", "url=http://x?a=b", "empty=", "name=again"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "again", "url": "http://x?a=b", "empty": ""}, got)

	_, err = parseAssignments("slot", []string{"novalue", "=x"})
	require.Error(t, err)
	var multi *errors.MultiError
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi.Errors, 2)
	assert.True(t, errors.IsErrorCode(err, errors.ErrValueMalformed))
}

func TestVersionCmd(t *testing.T) {
	run := execute(t, "version")
	require.NoError(t, run.err)
	assert.Contains(t, run.stdout, "spackle version dev")
}

func TestInfoCmd(t *testing.T) {
	p := testutil.NewTestProject(t, cliManifest, cliFiles)

	run := execute(t, "-p", p.Dir, "-f", "json", "info")
	require.NoError(t, run.err)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(run.stdout), &info))
	assert.Equal(t, "demo", info["name"])
	assert.Equal(t, []interface{}{"touch", "fail"}, info["hook_order"])

	run = execute(t, "-p", p.Dir, "-f", "text", "info")
	require.NoError(t, run.err)
	assert.Contains(t, run.stdout, "| port | Number | 8080 |")
}

func TestInfoCmdMissingProject(t *testing.T) {
	run := execute(t, "-p", filepath.Join(t.TempDir(), "nowhere"), "-f", "text", "info")
	require.Error(t, run.err)
	assert.True(t, IsReported(run.err))
	assert.Equal(t, 1, ExitCode(run.err))
	assert.Contains(t, run.stderr, "MANIFEST_NOT_FOUND")
}

func TestCheckCmd(t *testing.T) {
	t.Run("valid project", func(t *testing.T) {
		p := testutil.NewTestProject(t, cliManifest, cliFiles)
		run := execute(t, "-p", p.Dir, "-f", "text", "check")
		require.NoError(t, run.err)
		assert.Contains(t, run.stdout, "project is valid")
	})

	t.Run("undeclared name", func(t *testing.T) {
		p := testutil.NewTestProject(t, cliManifest, map[string]string{"x.j2": "{{ nope }}"})
		run := execute(t, "-p", p.Dir, "-f", "text", "check")
		require.Error(t, run.err)
		assert.True(t, IsReported(run.err))
		assert.Contains(t, run.stdout, "TEMPLATE_VALIDATE")
	})

	t.Run("bad slot value", func(t *testing.T) {
		p := testutil.NewTestProject(t, cliManifest, cliFiles)
		run := execute(t, "-p", p.Dir, "-f", "json", "check", "-s", "port=eighty")
		require.Error(t, run.err)

		var result struct {
			Valid    bool `json:"valid"`
			Problems []struct {
				Code string `json:"code"`
			} `json:"problems"`
		}
		require.NoError(t, json.Unmarshal([]byte(run.stdout), &result))
		assert.False(t, result.Valid)
		require.Len(t, result.Problems, 1)
		assert.Equal(t, "VALUE_TYPE_MISMATCH", result.Problems[0].Code)
	})
}

func TestFillCmd(t *testing.T) {
	p := testutil.NewTestProject(t, cliManifest, cliFiles)
	out := p.OutDir("out")

	run := execute(t, "-p", p.Dir, "-f", "text", "fill", "-o", out, "-s", "name=demo", "-s", "port=9090")
	require.NoError(t, run.err)
	assert.Contains(t, run.stdout, "Filled "+out)
	assert.Contains(t, run.stdout, "touch completed")
	assert.Contains(t, run.stdout, "fail skipped (user_disabled)")

	assert.Equal(t, map[string]string{
		"README.md":  "# demo on 9090\n",
		"static.txt": "as is",
		"demo.done":  "",
	}, testutil.ReadTree(t, out))

	t.Run("existing output needs --overwrite", func(t *testing.T) {
		run := execute(t, "-p", p.Dir, "-f", "json", "fill", "-o", out, "-s", "name=demo")
		require.Error(t, run.err)
		assert.Contains(t, run.stdout, "PATH_EXISTS")

		run = execute(t, "-p", p.Dir, "-f", "json", "fill", "-o", out, "-s", "name=demo", "--overwrite")
		require.NoError(t, run.err)
	})
}

func TestFillCmdHookFailureExitsNonZero(t *testing.T) {
	p := testutil.NewTestProject(t, cliManifest, cliFiles)
	out := p.OutDir("out")

	run := execute(t, "-p", p.Dir, "-f", "text", "fill", "-o", out, "-s", "name=demo", "-H", "fail=true")
	require.Error(t, run.err)
	assert.True(t, IsReported(run.err))
	assert.Contains(t, run.stdout, "fail failed (exited) exit code 1")
	assert.FileExists(t, filepath.Join(out, "README.md"), "files stay when a hook fails")
}

func TestFillCmdErrors(t *testing.T) {
	p := testutil.NewTestProject(t, cliManifest, cliFiles)

	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"missing output", []string{"fill"}, errors.ErrPathInvalidOutput},
		{"malformed slot", []string{"fill", "-o", p.OutDir("a"), "-s", "name"}, errors.ErrValueMalformed},
		{"unknown slot", []string{"fill", "-o", p.OutDir("b"), "-s", "ghost=1"}, errors.ErrValueUnknownSlot},
		{"toggle on required hook", []string{"fill", "-o", p.OutDir("c"), "-H", "touch=false"}, errors.ErrValueNotOptional},
		{"output inside project", []string{"fill", "-o", filepath.Join(p.Dir, "out")}, errors.ErrPathInvalidOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-p", p.Dir, "-f", "text"}, tt.args...)
			run := execute(t, args...)
			require.Error(t, run.err)
			assert.True(t, errors.IsErrorCode(run.err, tt.code), "got %v", run.err)
			assert.Contains(t, run.stderr, string(tt.code))
		})
	}
}

func TestFillCmdMetricsFile(t *testing.T) {
	p := testutil.NewTestProject(t, cliManifest, cliFiles)
	metricsFile := filepath.Join(p.Root, "spackle.prom")

	run := execute(t, "-p", p.Dir, "-f", "json", "fill", "-o", p.OutDir("out"), "-s", "name=demo", "--metrics-file", metricsFile)
	require.NoError(t, run.err)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `spackle_fills_total{result="ok"} 1`)
}

func TestInvalidFormat(t *testing.T) {
	run := execute(t, "-f", "xml", "info")
	require.Error(t, run.err)
	assert.False(t, IsReported(run.err))
	assert.True(t, errors.IsErrorCode(run.err, errors.ErrInvalidFormat))
}

func TestHelpTopics(t *testing.T) {
	run := execute(t, "help", "topics")
	require.NoError(t, run.err)
	assert.Contains(t, run.stdout, "manifest")
	assert.Contains(t, run.stdout, "templates")
	assert.Contains(t, run.stdout, "--overwrite")

	run = execute(t, "help", "overwrite")
	require.NoError(t, run.err)
	assert.Contains(t, run.stdout, "refuses an output path that already exists")
}
