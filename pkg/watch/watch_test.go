// Test Type: Integration Test

package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/A2-ai/spackle/pkg/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dir string, exclude ...string) (<-chan struct{}, context.CancelFunc) {
	t.Helper()

	calls := make(chan struct{}, 16)
	w := watch.New(dir)
	w.Debounce = 50 * time.Millisecond
	w.Exclude = exclude

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			calls <- struct{}{}
			return nil
		})
	}()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	// give the watcher time to register its directories
	time.Sleep(100 * time.Millisecond)
	return calls, cancel
}

func waitCall(t *testing.T, calls <-chan struct{}) {
	t.Helper()
	select {
	case <-calls:
	case <-time.After(3 * time.Second):
		t.Fatal("change handler was not called")
	}
}

func TestWatcherCallsOnChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	calls, _ := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))
	waitCall(t, calls)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("b"), 0644))
	waitCall(t, calls)
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	dir := t.TempDir()
	calls, _ := startWatcher(t, dir)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "new"), 0755))
	waitCall(t, calls)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new", "c.txt"), []byte("c"), 0644))
	waitCall(t, calls)
}

func TestWatcherIgnoresHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	calls, _ := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".swap"), []byte("x"), 0644))
	select {
	case <-calls:
		t.Fatal("hidden file triggered a change")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherIgnoresExcludedPaths(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	calls, _ := startWatcher(t, dir, out)

	require.NoError(t, os.WriteFile(out, []byte("generated"), 0644))
	select {
	case <-calls:
		t.Fatal("excluded path triggered a change")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "template.txt"), []byte("x"), 0644))
	waitCall(t, calls)
}

func TestWatcherMissingDir(t *testing.T) {
	w := watch.New(filepath.Join(t.TempDir(), "missing"))
	err := w.Run(context.Background(), func(context.Context) error { return nil })
	assert.Error(t, err)
}
