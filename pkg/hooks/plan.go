package hooks

import (
	"github.com/A2-ai/spackle/pkg/needs"
	"github.com/A2-ai/spackle/pkg/types"
)

// Selection is the static decision about a hook before anything runs
type Selection string

const (
	Selected     Selection = "selected"
	NotSatisfied Selection = "not_satisfied"
	UserDisabled Selection = "user_disabled"
)

// Planned pairs a hook with its selection
type Planned struct {
	Hook      types.Hook
	Selection Selection
}

// IsSelected reports whether the hook will be attempted
func (p Planned) IsSelected() bool {
	return p.Selection == Selected
}

// Plan decides, in execution order, which hooks will be attempted. A hook
// is selected when it is satisfied and either not optional or toggled on.
// A needed hook only counts as met when it is itself selected, so turning
// an optional hook off also leaves its dependents unsatisfied. Unsatisfied
// hooks are reported as such even when also toggled off.
func Plan(graph *needs.Graph, res *needs.Resolution, toggles map[string]bool) []Planned {
	order := graph.HookOrder()
	selected := make(map[string]bool, len(order))
	for _, h := range order {
		selected[h.Key] = false
	}

	plan := make([]Planned, 0, len(order))
	for _, h := range order {
		sel := Selected
		switch {
		case !res.IsSatisfied(h.Key) || !hookNeedsSelected(h, selected):
			sel = NotSatisfied
		case !h.Toggled(toggles):
			sel = UserDisabled
		}
		selected[h.Key] = sel == Selected
		plan = append(plan, Planned{Hook: h, Selection: sel})
	}
	return plan
}

// hookNeedsSelected checks the hook-typed needs of h. A needs entry naming
// both a slot and a hook never gets past graph validation, so any entry
// found in selected is a hook.
func hookNeedsSelected(h types.Hook, selected map[string]bool) bool {
	for _, n := range h.Needs {
		if ok, isHook := selected[n]; isHook && !ok {
			return false
		}
	}
	return true
}
