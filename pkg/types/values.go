package types

import (
	"sort"

	"github.com/A2-ai/spackle/pkg/errors"
)

// BindValues parses raw user input against the declared slots. Every
// unknown key and every mistyped value is reported, in key order.
func BindValues(slots []Slot, raw map[string]string) (Values, error) {
	bySlot := make(map[string]Slot, len(slots))
	for _, s := range slots {
		bySlot[s.Key] = s
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(Values, len(raw))
	var errs errors.MultiError
	for _, k := range keys {
		s, ok := bySlot[k]
		if !ok {
			errs.Append(errors.Newf(errors.ErrValueUnknownSlot, "no slot named %q", k).
				WithDetail("key", k))
			continue
		}
		v, err := ParseSlotValue(s.Type, raw[k])
		if err != nil {
			errs.Append(errors.Newf(errors.ErrValueTypeMismatch, "slot %q expects a %s, got %q", k, s.Type, raw[k]).
				WithDetail("key", k))
			continue
		}
		values[k] = v
	}
	return values, errs.ErrorOrNil()
}

// BindToggles parses raw hook toggles. Only optional hooks may be toggled
// and only with a boolean.
func BindToggles(hooks []Hook, raw map[string]string) (map[string]bool, error) {
	byHook := make(map[string]Hook, len(hooks))
	for _, h := range hooks {
		byHook[h.Key] = h
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	toggles := make(map[string]bool, len(raw))
	var errs errors.MultiError
	for _, k := range keys {
		h, ok := byHook[k]
		if !ok {
			errs.Append(errors.Newf(errors.ErrValueUnknownHook, "no hook named %q", k).
				WithDetail("key", k))
			continue
		}
		if !h.IsOptional() {
			errs.Append(errors.Newf(errors.ErrValueNotOptional, "hook %q is not optional", k).
				WithDetail("key", k))
			continue
		}
		on, err := ParseSlotValue(SlotBoolean, raw[k])
		if err != nil {
			errs.Append(errors.Newf(errors.ErrValueNotBoolean, "hook %q toggle %q is not a boolean", k, raw[k]).
				WithDetail("key", k))
			continue
		}
		toggles[k] = on.Bool
	}
	return toggles, errs.ErrorOrNil()
}
