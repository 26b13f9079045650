// Package needs resolves the static dependency graph between slots and hooks.
//
// Slots may need other slots; hooks may need slots or hooks. The graph is
// validated once (unresolved, ambiguous and cyclic references are manifest
// errors) and then answers enablement and satisfaction questions for a set of
// bound values in a single topological pass.
package needs

import (
	"container/heap"
	"strings"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/types"
)

// Kind distinguishes slot nodes from hook nodes
type Kind int

const (
	SlotNode Kind = iota
	HookNode
)

func (k Kind) String() string {
	if k == HookNode {
		return "hook"
	}
	return "slot"
}

// Node is one slot or hook in the graph
type Node struct {
	Kind  Kind
	Key   string
	Index int // declaration index; slots precede hooks
}

// Graph is a validated, acyclic needs graph
type Graph struct {
	nodes []Node
	slots []types.Slot
	hooks []types.Hook

	// needs[i] lists the nodes node i depends on, in declaration order of the
	// needs entry. dependents is the reverse relation.
	needs      [][]int
	dependents [][]int

	slotIndex map[string]int
	hookIndex map[string]int
}

// Build validates the needs references of slots and hooks and returns the
// resulting graph. Duplicate keys are assumed to be rejected by the caller.
func Build(slots []types.Slot, hooks []types.Hook) (*Graph, error) {
	g := &Graph{
		slots:     slots,
		hooks:     hooks,
		slotIndex: make(map[string]int, len(slots)),
		hookIndex: make(map[string]int, len(hooks)),
	}

	for _, s := range slots {
		g.slotIndex[s.Key] = len(g.nodes)
		g.nodes = append(g.nodes, Node{Kind: SlotNode, Key: s.Key, Index: len(g.nodes)})
	}
	for _, h := range hooks {
		g.hookIndex[h.Key] = len(g.nodes)
		g.nodes = append(g.nodes, Node{Kind: HookNode, Key: h.Key, Index: len(g.nodes)})
	}

	g.needs = make([][]int, len(g.nodes))
	g.dependents = make([][]int, len(g.nodes))

	var errs errors.MultiError
	for _, s := range slots {
		from := g.slotIndex[s.Key]
		for _, need := range s.Needs {
			to, ok := g.slotIndex[need]
			if !ok {
				errs.Append(errors.Newf(errors.ErrManifestUnresolvedNeed,
					"slot %q needs %q, which is not a declared slot", s.Key, need).
					WithDetail("key", s.Key).WithDetail("need", need))
				continue
			}
			g.addEdge(from, to)
		}
	}
	for _, h := range hooks {
		from := g.hookIndex[h.Key]
		for _, need := range h.Needs {
			si, isSlot := g.slotIndex[need]
			hi, isHook := g.hookIndex[need]
			switch {
			case isSlot && isHook:
				errs.Append(errors.Newf(errors.ErrManifestAmbiguousNeed,
					"hook %q needs %q, which names both a slot and a hook", h.Key, need).
					WithDetail("key", h.Key).WithDetail("need", need))
			case isSlot:
				g.addEdge(from, si)
			case isHook:
				g.addEdge(from, hi)
			default:
				errs.Append(errors.Newf(errors.ErrManifestUnresolvedNeed,
					"hook %q needs %q, which is neither a slot nor a hook", h.Key, need).
					WithDetail("key", h.Key).WithDetail("need", need))
			}
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	if err := g.validateAcyclic(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) addEdge(from, to int) {
	for _, existing := range g.needs[from] {
		if existing == to {
			return
		}
	}
	g.needs[from] = append(g.needs[from], to)
	g.dependents[to] = append(g.dependents[to], from)
}

// Nodes returns every node in declaration order
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Needs returns the nodes the given node depends on
func (g *Graph) Needs(n Node) []Node {
	out := make([]Node, 0, len(g.needs[n.Index]))
	for _, i := range g.needs[n.Index] {
		out = append(out, g.nodes[i])
	}
	return out
}

func (g *Graph) validateAcyclic() error {
	if len(g.topoOrderIndices()) == len(g.nodes) {
		return nil
	}
	path := g.findCycleDeterministic()
	return errors.Newf(errors.ErrManifestCycle, "needs cycle: %s", strings.Join(path, " -> ")).
		WithDetail("cycle", path)
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topoOrderIndices orders nodes so every node follows its needs. Among ready
// nodes the lowest declaration index goes first.
func (g *Graph) topoOrderIndices() []int {
	indeg := make([]int, len(g.nodes))
	for i := range g.needs {
		indeg[i] = len(g.needs[i])
	}

	ready := &intMinHeap{}
	for i := range indeg {
		if indeg[i] == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]int, 0, len(indeg))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		out = append(out, n)
		for _, m := range g.dependents[n] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}
	return out
}

// findCycleDeterministic walks needs edges depth-first from the lowest index
// and returns one cycle as keys, closed on its first key.
func (g *Graph) findCycleDeterministic() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make([]int, len(g.nodes))
	parent := make([]int, len(g.nodes))
	for i := range parent {
		parent[i] = -1
	}

	var cycle []int

	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		for _, v := range g.needs[u] {
			switch color[v] {
			case white:
				parent[v] = u
				if dfs(v) {
					return true
				}
			case gray:
				// back edge u -> v closes v ... u -> v
				cycle = append(cycle, v)
				for cur := u; cur != -1 && cur != v; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}

	for i := range g.nodes {
		if color[i] == white && dfs(i) {
			break
		}
	}

	out := make([]string, 0, len(cycle))
	for i := len(cycle) - 1; i >= 0; i-- {
		out = append(out, g.nodes[cycle[i]].Key)
	}
	return out
}
