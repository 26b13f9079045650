package render

import (
	"path/filepath"
	"strings"

	"github.com/A2-ai/spackle/pkg/errors"
)

// CheckOutputDir rejects an output directory equal to or inside the
// template root. Symlinks are resolved where the paths exist.
func CheckOutputDir(src, dst string) error {
	absSrc, err := canonical(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPathInvalidOutput, "cannot resolve project path %s", src)
	}
	absDst, err := canonical(dst)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPathInvalidOutput, "cannot resolve output path %s", dst)
	}

	if absDst == absSrc {
		return errors.Newf(errors.ErrPathInvalidOutput, "output directory %s is the project directory", dst).
			WithDetail("output", absDst)
	}
	if within(absSrc, absDst) {
		return errors.Newf(errors.ErrPathInvalidOutput, "output directory %s is inside the project directory %s", dst, src).
			WithDetail("output", absDst).WithDetail("project", absSrc)
	}
	return nil
}

// canonical returns the absolute, symlink resolved form of p. Missing
// trailing components are kept as written.
func canonical(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)

	existing, rest := abs, ""
	for {
		if resolved, err := filepath.EvalSymlinks(existing); err == nil {
			return filepath.Join(resolved, rest), nil
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(existing), rest)
		existing = parent
	}
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// safeJoin joins a rendered relative path onto root, refusing paths that
// climb out of it. An empty leading component ("{{ dir }}/x" with dir
// empty) collapses.
func safeJoin(root, rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimLeft(rel, "/")))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrPathInvalidOutput, "rendered path %q is not a location inside the output directory", rel).
			WithDetail("path", rel)
	}
	return filepath.Join(root, clean), nil
}
