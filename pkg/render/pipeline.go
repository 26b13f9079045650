// Package render materializes a template tree into an output directory.
//
// Every path name goes through the template engine. Files carrying the
// template extension have their content rendered and the extension
// stripped; all other files are copied byte for byte. Per-file work runs
// concurrently and Run returns only once every worker has finished.
package render

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/logging"
	"github.com/A2-ai/spackle/pkg/template"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultTemplateExt marks files whose content is rendered
const DefaultTemplateExt = ".j2"

// RenderedFile describes one written output file
type RenderedFile struct {
	// Source is the template path relative to the project root
	Source string `json:"source" yaml:"source"`

	// Path is the written path relative to the output root
	Path string `json:"path" yaml:"path"`

	// Templated is set when the content went through the engine
	Templated bool `json:"templated" yaml:"templated"`

	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Result lists what a pipeline run wrote, sorted by output path
type Result struct {
	Files []RenderedFile
	Dirs  []string
}

// Paths returns the written file paths relative to the output root
func (r *Result) Paths() []string {
	out := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		out = append(out, f.Path)
	}
	return out
}

// Pipeline renders a project tree
type Pipeline struct {
	Engine       template.Engine
	TemplateExt  string
	ManifestName string
	Parallelism  int
	logger       zerolog.Logger
}

// NewPipeline returns a pipeline with default extension and manifest name
func NewPipeline(engine template.Engine) *Pipeline {
	return &Pipeline{
		Engine:       engine,
		TemplateExt:  DefaultTemplateExt,
		ManifestName: "spackle.toml",
		Parallelism:  4,
		logger:       logging.GetLogger("render"),
	}
}

// WithLogger replaces the pipeline logger
func (p *Pipeline) WithLogger(logger zerolog.Logger) *Pipeline {
	p.logger = logger
	return p
}

// Run renders src into dst. dst is created if absent and existing files are
// overwritten. The output guard runs before anything is written.
func (p *Pipeline) Run(ctx context.Context, src, dst string, ignore []string, tctx template.Context) (*Result, error) {
	if err := CheckOutputDir(src, dst); err != nil {
		return nil, err
	}
	done := logging.LogOperationStart(p.logger, "render")
	defer done()

	entries, err := NewWalker(ignore, p.ManifestName).Walk(src)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create output directory %s", dst)
	}

	result := &Result{}

	// directories first, so workers only ever write files
	var files []Entry
	for _, e := range entries {
		if !e.IsDir {
			files = append(files, e)
			continue
		}
		rel, err := p.Engine.Render(e.Rel, e.Rel, tctx)
		if err != nil {
			return nil, err
		}
		if path.Clean(strings.TrimLeft(rel, "/")) == "." {
			continue
		}
		target, err := safeJoin(dst, rel)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(target, e.Mode|0700); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", target)
		}
		result.Dirs = append(result.Dirs, filepath.ToSlash(mustRel(dst, target)))
	}

	limit := p.Parallelism
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	for _, e := range files {
		e := e
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := p.renderFile(src, dst, e, tctx)
			if err != nil {
				return err
			}
			mu.Lock()
			result.Files = append(result.Files, f)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Path < result.Files[j].Path })
	sort.Strings(result.Dirs)

	p.logger.Info().
		Str("src", src).
		Str("dst", dst).
		Int("files", len(result.Files)).
		Int("dirs", len(result.Dirs)).
		Msg("Render complete")
	return result, nil
}

func (p *Pipeline) renderFile(src, dst string, e Entry, tctx template.Context) (RenderedFile, error) {
	start := time.Now()
	ext := p.TemplateExt
	if ext == "" {
		ext = DefaultTemplateExt
	}
	templated := strings.HasSuffix(e.Rel, ext)

	rel, err := p.Engine.Render(e.Rel, e.Rel, tctx)
	if err != nil {
		return RenderedFile{}, err
	}
	if templated {
		rel = strings.TrimSuffix(rel, ext)
	}
	target, err := safeJoin(dst, rel)
	if err != nil {
		return RenderedFile{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return RenderedFile{}, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(target))
	}

	srcPath := filepath.Join(src, filepath.FromSlash(e.Rel))
	if templated {
		err = p.renderContent(srcPath, target, e, tctx)
	} else {
		err = copyFile(srcPath, target, e.Mode)
	}
	if err != nil {
		return RenderedFile{}, err
	}

	f := RenderedFile{
		Source:    e.Rel,
		Path:      filepath.ToSlash(mustRel(dst, target)),
		Templated: templated,
		Elapsed:   time.Since(start),
	}
	p.logger.Debug().
		Str("source", f.Source).
		Str("path", f.Path).
		Bool("templated", templated).
		Dur("elapsed", f.Elapsed).
		Msg("File written")
	return f, nil
}

func (p *Pipeline) renderContent(srcPath, target string, e Entry, tctx template.Context) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", e.Rel)
	}
	out, err := p.Engine.Render(e.Rel, string(data), tctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, []byte(out), e.Mode|0200); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", target)
	}
	return nil
}

func copyFile(srcPath, target string, mode os.FileMode) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", srcPath)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode|0200)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", target)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to copy %s", srcPath)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to close %s", target)
	}
	return nil
}

func mustRel(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return p
	}
	return rel
}
