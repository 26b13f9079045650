package needs

import "github.com/A2-ai/spackle/pkg/types"

// Order returns every node so that each follows the nodes it needs. Ties
// are broken by declaration order.
func (g *Graph) Order() []Node {
	idx := g.topoOrderIndices()
	out := make([]Node, 0, len(idx))
	for _, i := range idx {
		out = append(out, g.nodes[i])
	}
	return out
}

// HookOrder returns the hooks in execution order
func (g *Graph) HookOrder() []types.Hook {
	out := make([]types.Hook, 0, len(g.hooks))
	for _, n := range g.Order() {
		if n.Kind == HookNode {
			out = append(out, g.hooks[n.Index-len(g.slots)])
		}
	}
	return out
}

// Resolution is the static state of every slot and hook for one set of values
type Resolution struct {
	// Enabled holds slots whose bound value differs from the zero value
	Enabled map[string]bool

	// Available holds slots whose needed slots are all enabled and available
	Available map[string]bool

	// Satisfied holds hooks whose needs are all met
	Satisfied map[string]bool
}

// Resolve computes enablement and satisfaction in one topological pass.
// Hook toggles and if conditions play no part.
func (g *Graph) Resolve(values types.Values) *Resolution {
	r := &Resolution{
		Enabled:   make(map[string]bool, len(g.slots)),
		Available: make(map[string]bool, len(g.slots)),
		Satisfied: make(map[string]bool, len(g.hooks)),
	}

	// met[i] is true once node i counts as a met need
	met := make([]bool, len(g.nodes))

	for _, i := range g.topoOrderIndices() {
		node := g.nodes[i]
		allMet := true
		for _, dep := range g.needs[i] {
			if !met[dep] {
				allMet = false
				break
			}
		}

		switch node.Kind {
		case SlotNode:
			enabled := g.slots[i].Enabled(values)
			r.Enabled[node.Key] = enabled
			// a slot need is met by enablement alone
			met[i] = enabled
			r.Available[node.Key] = allMet && g.slotAvailableVia(i, r)
		case HookNode:
			r.Satisfied[node.Key] = allMet
			met[i] = allMet
		}
	}
	return r
}

func (g *Graph) slotAvailableVia(i int, r *Resolution) bool {
	for _, dep := range g.needs[i] {
		if !r.Available[g.nodes[dep].Key] {
			return false
		}
	}
	return true
}

// IsSatisfied is a convenience for a single hook
func (r *Resolution) IsSatisfied(key string) bool {
	return r.Satisfied[key]
}
