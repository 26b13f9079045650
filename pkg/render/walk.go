package render

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/logging"
	"github.com/rs/zerolog"
)

// Entry is one path under the template root
type Entry struct {
	// Rel is the slash separated path relative to the root
	Rel   string
	IsDir bool
	Mode  fs.FileMode
}

// IgnoreRules excludes entries from the walk. An entry is excluded when its
// relative path equals a rule, lies under a rule, or matches a rule as a
// glob (against the whole relative path or the base name).
type IgnoreRules []string

// NewIgnoreRules normalizes manifest ignore entries
func NewIgnoreRules(patterns []string) IgnoreRules {
	rules := make(IgnoreRules, 0, len(patterns))
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		p = strings.TrimPrefix(p, "./")
		p = strings.TrimRight(p, "/")
		if p == "" || p == "." {
			continue
		}
		rules = append(rules, p)
	}
	return rules
}

// Match reports whether rel is ignored
func (r IgnoreRules) Match(rel string) bool {
	for _, rule := range r {
		if rel == rule || strings.HasPrefix(rel, rule+"/") {
			return true
		}
		if matched, _ := path.Match(rule, rel); matched {
			return true
		}
		if matched, _ := path.Match(rule, path.Base(rel)); matched {
			return true
		}
	}
	return false
}

// Walker enumerates a template tree
type Walker struct {
	ignore       IgnoreRules
	manifestName string
	logger       zerolog.Logger
}

// NewWalker returns a walker skipping ignored paths and the root manifest
func NewWalker(ignore []string, manifestName string) *Walker {
	return &Walker{
		ignore:       NewIgnoreRules(ignore),
		manifestName: manifestName,
		logger:       logging.GetLogger("render.walk"),
	}
}

// Walk returns every non-ignored entry under root in lexical order.
// Ignored directories are not descended into.
func (w *Walker) Walk(root string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if rel == w.manifestName {
			return nil
		}
		if w.ignore.Match(rel) {
			w.logger.Trace().Str("path", rel).Msg("Ignored")
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if !d.IsDir() && !info.Mode().IsRegular() {
			w.logger.Debug().Str("path", rel).Msg("Skipping special file")
			return nil
		}
		entries = append(entries, Entry{Rel: rel, IsDir: d.IsDir(), Mode: info.Mode().Perm()})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to walk %s", root)
	}

	w.logger.Debug().Str("root", root).Int("entries", len(entries)).Msg("Walk complete")
	return entries, nil
}
