package config

import (
	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/needs"
	"github.com/A2-ai/spackle/pkg/types"
)

// Validate applies the structural manifest rules and returns the needs
// graph errors, if any. Every failure is a manifest error.
func Validate(p *types.Project) error {
	_, err := ValidateGraph(p)
	return err
}

// ValidateGraph validates p and returns its needs graph
func ValidateGraph(p *types.Project) (*needs.Graph, error) {
	var errs errors.MultiError

	slotKeys := make(map[string]bool, len(p.Slots))
	for i, s := range p.Slots {
		if s.Key == "" {
			errs.Append(errors.Newf(errors.ErrManifestInvalid, "slot #%d has no key", i+1))
			continue
		}
		if slotKeys[s.Key] {
			errs.Append(errors.Newf(errors.ErrManifestDuplicateKey, "duplicate slot key %q", s.Key).
				WithDetail("key", s.Key))
		}
		slotKeys[s.Key] = true
		if _, ok := types.ParseSlotType(string(s.Type)); !ok {
			errs.Append(errors.Newf(errors.ErrManifestUnknownType, "slot %q has unknown type %q", s.Key, s.Type).
				WithDetail("key", s.Key))
		}
		if s.Default != nil && s.Default.Type != s.Type {
			errs.Append(errors.Newf(errors.ErrManifestInvalidDefault,
				"default of slot %q is a %s, want %s", s.Key, s.Default.Type, s.Type).
				WithDetail("key", s.Key))
		}
	}

	hookKeys := make(map[string]bool, len(p.Hooks))
	for i, h := range p.Hooks {
		if h.Key == "" {
			errs.Append(errors.Newf(errors.ErrManifestInvalid, "hook #%d has no key", i+1))
			continue
		}
		if hookKeys[h.Key] {
			errs.Append(errors.Newf(errors.ErrManifestDuplicateKey, "duplicate hook key %q", h.Key).
				WithDetail("key", h.Key))
		}
		hookKeys[h.Key] = true
		if len(h.Command) == 0 || h.Command[0] == "" {
			errs.Append(errors.Newf(errors.ErrManifestInvalid, "hook %q has an empty command", h.Key).
				WithDetail("key", h.Key))
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	return needs.Build(p.Slots, p.Hooks)
}
