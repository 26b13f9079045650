package render

import (
	"os"
	"path/filepath"
	"time"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/template"
	"github.com/A2-ai/spackle/pkg/types"
)

// RenderSingleFile writes the rendered body of a single-file project to the
// file dst. The parent directory is created when missing.
func (p *Pipeline) RenderSingleFile(project *types.Project, dst string, tctx template.Context) (*Result, error) {
	if err := checkOutputFile(project.ConfigPath, dst); err != nil {
		return nil, err
	}

	start := time.Now()
	source := filepath.Base(project.ConfigPath)
	out, err := p.Engine.Render(source, project.Body, tctx)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(dst))
	}
	if err := os.WriteFile(dst, []byte(out), 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", dst)
	}

	f := RenderedFile{
		Source:    source,
		Path:      filepath.Base(dst),
		Templated: true,
		Elapsed:   time.Since(start),
	}
	p.logger.Info().Str("source", project.ConfigPath).Str("dst", dst).Msg("Single file rendered")
	return &Result{Files: []RenderedFile{f}}, nil
}

// checkOutputFile refuses to overwrite the project file with its own output
func checkOutputFile(src, dst string) error {
	absSrc, err := canonical(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPathInvalidOutput, "cannot resolve project path %s", src)
	}
	absDst, err := canonical(dst)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPathInvalidOutput, "cannot resolve output path %s", dst)
	}
	if absSrc == absDst {
		return errors.Newf(errors.ErrPathInvalidOutput, "output file %s is the project file", dst).
			WithDetail("output", absDst)
	}
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		return errors.Newf(errors.ErrPathInvalidOutput, "output %s is a directory, single-file projects render to a file", dst).
			WithDetail("output", absDst)
	}
	return nil
}
