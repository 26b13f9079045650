package config

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/needs"
	"github.com/A2-ai/spackle/pkg/types"
)

// frontmatterDelims are the fences accepted around a single-file manifest
var frontmatterDelims = []string{"---", "+++"}

// LoadProjectFile reads a single-file project: a TOML manifest fenced by
// "---" (or "+++") lines, followed by the template body.
func LoadProjectFile(path string) (*types.Project, error) {
	project, _, err := loadProjectFile(path)
	return project, err
}

func loadProjectFile(path string) (*types.Project, *needs.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, nil, errors.Wrapf(err, errors.ErrManifestNotFound, "no such file %s", path)
		}
		return nil, nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	header, body, err := SplitFrontmatter(string(data))
	if err != nil {
		return nil, nil, err
	}

	project, err := ParseManifest([]byte(header))
	if err != nil {
		return nil, nil, err
	}
	project.ConfigPath = path
	project.SingleFile = true
	project.Body = body

	graph, err := ValidateGraph(project)
	if err != nil {
		return nil, nil, err
	}

	log.Debug().Str("path", path).Int("slots", len(project.Slots)).Msg("Single-file project loaded")
	return project, graph, nil
}

// SplitFrontmatter separates the fenced manifest from the body
func SplitFrontmatter(content string) (header, body string, err error) {
	content = strings.TrimPrefix(content, "\ufeff")
	for _, delim := range frontmatterDelims {
		open := delim + "\n"
		if !strings.HasPrefix(content, open) && !strings.HasPrefix(content, delim+"\r\n") {
			continue
		}
		rest := content[strings.Index(content, "\n")+1:]
		lines := strings.SplitAfter(rest, "\n")
		offset := 0
		for _, line := range lines {
			if strings.TrimRight(line, "\r\n") == delim {
				return rest[:offset], rest[offset+len(line):], nil
			}
			offset += len(line)
		}
		return "", "", errors.Newf(errors.ErrManifestParse, "unterminated %s frontmatter", delim)
	}
	return "", "", errors.New(errors.ErrManifestParse, "single-file project has no frontmatter")
}
