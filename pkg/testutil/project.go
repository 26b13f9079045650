package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestProject is a template directory under a test's temp dir
type TestProject struct {
	// Root is the temp dir holding both the project and outputs
	Root string
	// Dir is the template directory
	Dir string
}

// SetupTestProject creates an empty template directory
func SetupTestProject(t *testing.T) *TestProject {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "template")
	require.NoError(t, os.MkdirAll(dir, 0755))

	return &TestProject{Root: root, Dir: dir}
}

// NewTestProject creates a template directory with a manifest and files
func NewTestProject(t *testing.T, manifest string, files map[string]string) *TestProject {
	t.Helper()

	p := SetupTestProject(t)
	p.AddManifest(t, manifest)
	WriteTree(t, p.Dir, files)
	return p
}

// AddManifest writes spackle.toml
func (p *TestProject) AddManifest(t *testing.T, content string) string {
	t.Helper()
	return p.AddFile(t, "spackle.toml", content)
}

// AddFile writes a file, creating parent directories
func (p *TestProject) AddFile(t *testing.T, rel, content string) string {
	t.Helper()

	path := filepath.Join(p.Dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// AddExecutable writes a file with the executable bit set
func (p *TestProject) AddExecutable(t *testing.T, rel, content string) string {
	t.Helper()

	path := p.AddFile(t, rel, content)
	require.NoError(t, os.Chmod(path, 0755))
	return path
}

// OutDir returns a not yet existing output path next to the template
func (p *TestProject) OutDir(name string) string {
	return filepath.Join(p.Root, name)
}

// WriteTree writes files given as slash separated relative path to content
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// ReadTree returns every regular file under root keyed by slash separated
// relative path
func ReadTree(t *testing.T, root string) map[string]string {
	t.Helper()

	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}
