package types

// Hook is a command run inside the output directory after rendering
type Hook struct {
	Key         string        `json:"key" yaml:"key"`
	Command     []string      `json:"command" yaml:"command"`
	Name        string        `json:"name,omitempty" yaml:"name,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Optional    *HookOptional `json:"optional,omitempty" yaml:"optional,omitempty"`
	Needs       []string      `json:"needs,omitempty" yaml:"needs,omitempty"`
	If          string        `json:"if,omitempty" yaml:"if,omitempty"`
}

// HookOptional marks a hook the user may toggle
type HookOptional struct {
	Default bool `json:"default" yaml:"default"`
}

// IsOptional reports whether the user may opt in or out
func (h Hook) IsOptional() bool {
	return h.Optional != nil
}

// Toggled resolves the user's choice for an optional hook. Hooks that are
// not optional are always toggled on.
func (h Hook) Toggled(toggles map[string]bool) bool {
	if h.Optional == nil {
		return true
	}
	if on, ok := toggles[h.Key]; ok {
		return on
	}
	return h.Optional.Default
}

// HookRanKey is the context variable recording whether a hook ran
func HookRanKey(key string) string {
	return "hook_ran_" + key
}
