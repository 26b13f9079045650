// Package watch re-runs a callback when files under a template directory
// change. Bursts of events are coalesced into one call.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period before the callback fires
const DefaultDebounce = 200 * time.Millisecond

// Watcher observes a directory tree
type Watcher struct {
	Dir      string
	Debounce time.Duration

	// SkipHidden ignores dot files and dot directories such as .git
	SkipHidden bool

	// Exclude lists paths whose changes are ignored, along with everything
	// below them. A fill writing next to a single-file project puts its
	// output here.
	Exclude []string

	logger zerolog.Logger
}

// New creates a watcher for dir
func New(dir string) *Watcher {
	return &Watcher{
		Dir:        dir,
		Debounce:   DefaultDebounce,
		SkipHidden: true,
		logger:     logging.GetLogger("watch"),
	}
}

// Run blocks until ctx is cancelled, calling onChange after each burst of
// changes. Callback errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create file watcher")
	}
	defer func() { _ = fw.Close() }()

	if err := w.addTree(fw, w.Dir); err != nil {
		return err
	}
	w.logger.Info().Str("dir", w.Dir).Dur("debounce", w.Debounce).Msg("Watching for changes")

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug().Msg("Watcher stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return errors.New(errors.ErrInternal, "watcher event channel closed")
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("Change detected")
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(fw, ev.Name); err != nil {
						w.logger.Warn().Err(err).Str("dir", ev.Name).Msg("Cannot watch new directory")
					}
				}
			}
			pending = time.After(w.Debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New(errors.ErrInternal, "watcher error channel closed")
			}
			w.logger.Error().Err(err).Msg("Watcher error")

		case <-pending:
			pending = nil
			if err := onChange(ctx); err != nil {
				w.logger.Error().Err(err).Msg("Change handler failed")
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if w.excluded(ev.Name) {
		return false
	}
	return !(w.SkipHidden && w.hidden(ev.Name))
}

func (w *Watcher) excluded(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, ex := range w.Exclude {
		exAbs, err := filepath.Abs(ex)
		if err != nil {
			continue
		}
		if abs == exAbs || strings.HasPrefix(abs, exAbs+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) hidden(path string) bool {
	rel, err := filepath.Rel(w.Dir, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// addTree watches dir and every directory below it
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.Dir && (w.excluded(path) || w.SkipHidden && strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to watch %s", dir)
	}
	return nil
}
