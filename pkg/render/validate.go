package render

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/template"
)

// Validate renders every path name and template body under src in memory.
// Nothing is written. Each failing file contributes one TEMPLATE_VALIDATE
// error; the result is nil when every template renders.
func (p *Pipeline) Validate(src string, ignore []string, tctx template.Context) error {
	entries, err := NewWalker(ignore, p.ManifestName).Walk(src)
	if err != nil {
		return err
	}

	ext := p.TemplateExt
	if ext == "" {
		ext = DefaultTemplateExt
	}

	var problems errors.MultiError
	for _, e := range entries {
		if _, err := p.Engine.Render(e.Rel, e.Rel, tctx); err != nil {
			problems.Append(validateError(err, e.Rel, "name"))
			continue
		}
		if e.IsDir || !strings.HasSuffix(e.Rel, ext) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, filepath.FromSlash(e.Rel)))
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", e.Rel)
		}
		if _, err := p.Engine.Render(e.Rel, string(data), tctx); err != nil {
			problems.Append(validateError(err, e.Rel, "content"))
		}
	}

	p.logger.Debug().
		Str("src", src).
		Int("entries", len(entries)).
		Int("problems", len(problems.Errors)).
		Msg("Templates validated")
	return problems.ErrorOrNil()
}

// ValidateBody checks the template body of a single-file project
func (p *Pipeline) ValidateBody(source, body string, tctx template.Context) error {
	if _, err := p.Engine.Render(source, body, tctx); err != nil {
		return validateError(err, source, "content")
	}
	return nil
}

func validateError(err error, rel, part string) error {
	return errors.Wrapf(err, errors.ErrTemplateValidate, "template %s failed to render", rel).
		WithDetail("file", rel).
		WithDetail("part", part)
}
