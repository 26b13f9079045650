// Test Type: Unit Test

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/A2-ai/spackle/pkg/config"
	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullManifest = `
name = "demo"
ignore = [".git", "build"]

[[slots]]
key = "project"
type = "String"
name = "Project"
description = "The *project* name"

[[slots]]
key = "port"
type = "Number"
default = 8080

[[slots]]
key = "ratio"
type = "Number"
default = 0.5

[[slots]]
key = "use_git"
type = "Boolean"
default = true
needs = ["project"]

[[hooks]]
key = "git_init"
command = ["git", "init", "{{ _project_name }}"]
optional = { default = true }
needs = ["use_git"]

[[hooks]]
key = "first_commit"
command = ["git", "commit", "--allow-empty", "-m", "init"]
needs = ["git_init"]
if = "{{ hook_ran_git_init }}"
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultManifestName), []byte(content), 0644))
	return dir
}

func TestLoadProject(t *testing.T) {
	dir := writeManifest(t, fullManifest)

	p, err := config.LoadProject(dir, "")
	require.NoError(t, err)

	assert.Equal(t, "demo", p.Name)
	assert.Equal(t, dir, p.Dir)
	assert.Equal(t, []string{".git", "build"}, p.Ignore)

	require.Len(t, p.Slots, 4)
	assert.Equal(t, "project", p.Slots[0].Key, "declaration order is kept")
	assert.Equal(t, types.SlotString, p.Slots[0].Type)
	assert.Nil(t, p.Slots[0].Default)
	assert.Equal(t, types.NumberValue(8080), *p.Slots[1].Default)
	assert.Equal(t, types.NumberValue(0.5), *p.Slots[2].Default)
	assert.Equal(t, types.BooleanValue(true), *p.Slots[3].Default)
	assert.Equal(t, []string{"project"}, p.Slots[3].Needs)

	require.Len(t, p.Hooks, 2)
	git := p.Hooks[0]
	assert.Equal(t, []string{"git", "init", "{{ _project_name }}"}, git.Command)
	require.NotNil(t, git.Optional)
	assert.True(t, git.Optional.Default)
	assert.Nil(t, p.Hooks[1].Optional)
	assert.Equal(t, "{{ hook_ran_git_init }}", p.Hooks[1].If)
}

func TestLoadProjectEmptyManifest(t *testing.T) {
	dir := writeManifest(t, "")

	p, err := config.LoadProject(dir, "")
	require.NoError(t, err)
	assert.Empty(t, p.Slots)
	assert.Empty(t, p.Hooks)
}

func TestLoadProjectMissing(t *testing.T) {
	_, err := config.LoadProject(t.TempDir(), "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestNotFound))
}

func TestLoadProjectErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		wantCode errors.ErrorCode
	}{
		{
			name:     "toml syntax",
			manifest: "[[slots]\nkey = ",
			wantCode: errors.ErrManifestParse,
		},
		{
			name:     "unknown slot type",
			manifest: "[[slots]]\nkey = \"a\"\ntype = \"Date\"\n",
			wantCode: errors.ErrManifestUnknownType,
		},
		{
			name:     "default of the wrong type",
			manifest: "[[slots]]\nkey = \"a\"\ntype = \"Number\"\ndefault = \"ten\"\n",
			wantCode: errors.ErrManifestInvalidDefault,
		},
		{
			name:     "duplicate slot key",
			manifest: "[[slots]]\nkey = \"a\"\ntype = \"String\"\n[[slots]]\nkey = \"a\"\ntype = \"Number\"\n",
			wantCode: errors.ErrManifestDuplicateKey,
		},
		{
			name:     "duplicate hook key",
			manifest: "[[hooks]]\nkey = \"h\"\ncommand = [\"true\"]\n[[hooks]]\nkey = \"h\"\ncommand = [\"false\"]\n",
			wantCode: errors.ErrManifestDuplicateKey,
		},
		{
			name:     "empty command",
			manifest: "[[hooks]]\nkey = \"h\"\ncommand = []\n",
			wantCode: errors.ErrManifestInvalid,
		},
		{
			name:     "unresolved need",
			manifest: "[[hooks]]\nkey = \"h\"\ncommand = [\"true\"]\nneeds = [\"ghost\"]\n",
			wantCode: errors.ErrManifestUnresolvedNeed,
		},
		{
			name: "slot cycle",
			manifest: "[[slots]]\nkey = \"A\"\ntype = \"String\"\nneeds = [\"B\"]\n" +
				"[[slots]]\nkey = \"B\"\ntype = \"String\"\nneeds = [\"A\"]\n",
			wantCode: errors.ErrManifestCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeManifest(t, tt.manifest)
			_, err := config.LoadProject(dir, "")
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.wantCode), "got %v", err)
			assert.True(t, errors.IsCategory(err, errors.ManifestError))
		})
	}
}

func TestCycleErrorNamesKeys(t *testing.T) {
	dir := writeManifest(t, "[[slots]]\nkey = \"A\"\ntype = \"String\"\nneeds = [\"B\"]\n"+
		"[[slots]]\nkey = \"B\"\ntype = \"String\"\nneeds = [\"A\"]\n")

	_, err := config.LoadProject(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A -> B -> A")
}

func TestLoadDispatchesOnPathKind(t *testing.T) {
	dir := writeManifest(t, fullManifest)
	p, err := config.Load(dir, config.DefaultSettings())
	require.NoError(t, err)
	assert.False(t, p.SingleFile)

	single := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(single, []byte("---\n[[slots]]\nkey = \"who\"\ntype = \"String\"\n---\nHi {{ who }}\n"), 0644))
	p, err = config.Load(single, config.DefaultSettings())
	require.NoError(t, err)
	assert.True(t, p.SingleFile)
	assert.Equal(t, "Hi {{ who }}\n", p.Body)
	require.Len(t, p.Slots, 1)

	_, err = config.Load(filepath.Join(dir, "nope"), config.DefaultSettings())
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestNotFound))
}

func TestCustomManifestName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "template.toml"), []byte(`name = "x"`), 0644))

	p, err := config.LoadProject(dir, "template.toml")
	require.NoError(t, err)
	assert.Equal(t, "x", p.Name)
}

func TestLoadGraphReturnsValidatedGraph(t *testing.T) {
	dir := writeManifest(t, fullManifest)
	p, g, err := config.LoadGraph(dir, config.Settings{})
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, filepath.Join(dir, config.DefaultManifestName), p.ConfigPath)

	order := g.HookOrder()
	require.Len(t, order, 2)
	assert.Equal(t, "git_init", order[0].Key)
	assert.Equal(t, "first_commit", order[1].Key)

	_, g, err = config.LoadGraph(writeManifest(t, "[[hooks]]\nkey = \"a\"\ncommand = [\"true\"]\nneeds = [\"a\"]\n"), config.Settings{})
	assert.Nil(t, g)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestCycle))
}
