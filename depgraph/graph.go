// Package depgraph implements the dependency graph of spec §3 / §4.4:
// nodes are components, edges carry version constraints, required edges
// must be acyclic in a well-formed configuration while optional edges are
// tracked separately so they never produce spurious cycles.
package depgraph

import (
	"sort"

	"github.com/nexuslink/nexuslink/component"
	"github.com/nexuslink/nexuslink/internal/diag"
)

// Edge is one labeled dependency edge.
type Edge struct {
	From, To   string
	Constraint string
	Optional   bool
}

// Graph is built once by traversing a root component's declared
// dependencies and is immutable afterward (spec §5: "the dependency graph
// is immutable after construction").
type Graph struct {
	root     string
	required map[string][]Edge // from -> required edges
	optional map[string][]Edge // from -> optional edges
	nodes    map[string]bool
}

// Build traverses root's dependency closure within available, separating
// required and optional edges.
func Build(root string, available component.ByID) (*Graph, error) {
	g := &Graph{
		root:     root,
		required: make(map[string][]Edge),
		optional: make(map[string][]Edge),
		nodes:    make(map[string]bool),
	}
	if _, ok := available[root]; !ok {
		return nil, diag.New(diag.UnknownReference, "root component not found", "root", root)
	}

	var visit func(id string)
	visited := make(map[string]bool)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		g.nodes[id] = true
		c, ok := available[id]
		if !ok {
			return
		}
		for _, dep := range c.Dependencies {
			e := Edge{From: id, To: dep.TargetID, Constraint: dep.Version, Optional: dep.Optional}
			if dep.Optional {
				g.optional[id] = append(g.optional[id], e)
			} else {
				g.required[id] = append(g.required[id], e)
			}
			g.nodes[dep.TargetID] = true
			visit(dep.TargetID)
		}
	}
	visit(root)
	return g, nil
}

// Nodes returns every component id reached during Build, sorted.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsDirectDependency reports whether requester declares a required or
// optional edge directly to target.
func (g *Graph) IsDirectDependency(requester, target string) bool {
	for _, e := range g.required[requester] {
		if e.To == target {
			return true
		}
	}
	for _, e := range g.optional[requester] {
		if e.To == target {
			return true
		}
	}
	return false
}

// EdgeConstraint returns the constraint string requester declares on
// target, if any direct edge exists.
func (g *Graph) EdgeConstraint(requester, target string) (string, bool) {
	for _, e := range g.required[requester] {
		if e.To == target {
			return e.Constraint, true
		}
	}
	for _, e := range g.optional[requester] {
		if e.To == target {
			return e.Constraint, true
		}
	}
	return "", false
}

// Reachable reports whether target is reachable from from via any
// (required or optional) edge.
func (g *Graph) Reachable(from, target string) bool {
	if from == target {
		return true
	}
	visited := make(map[string]bool)
	var walk func(id string) bool
	walk = func(id string) bool {
		if visited[id] {
			return false
		}
		visited[id] = true
		for _, e := range append(append([]Edge{}, g.required[id]...), g.optional[id]...) {
			if e.To == target {
				return true
			}
			if walk(e.To) {
				return true
			}
		}
		return false
	}
	return walk(from)
}

// Descendants returns every node reachable from id via required or
// optional edges, not including id itself. Used by the resolver to scope
// conflict detection to one requester's dependency closure.
func (g *Graph) Descendants(id string) []string {
	visited := make(map[string]bool)
	var out []string
	var walk func(cur string)
	walk = func(cur string) {
		for _, e := range append(append([]Edge{}, g.required[cur]...), g.optional[cur]...) {
			if visited[e.To] {
				continue
			}
			visited[e.To] = true
			out = append(out, e.To)
			walk(e.To)
		}
	}
	walk(id)
	sort.Strings(out)
	return out
}

// TopoOrder returns a topological order over required edges only. It
// fails with an Internal diag.Error carrying the offending cycle if the
// required-edge subgraph is not acyclic.
func (g *Graph) TopoOrder() ([]string, error) {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int)
	var order []string
	var cyclePath []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		cyclePath = append(cyclePath, id)
		for _, e := range g.required[id] {
			switch color[e.To] {
			case white:
				if visit(e.To) {
					return true
				}
			case gray:
				cyclePath = append(cyclePath, e.To)
				return true
			}
		}
		cyclePath = cyclePath[:len(cyclePath)-1]
		color[id] = black
		order = append(order, id)
		return false
	}

	for _, id := range g.Nodes() {
		if color[id] == white {
			if visit(id) {
				return nil, diag.New(diag.Internal, "required-edge cycle detected", "cycle", cyclePath)
			}
		}
	}
	// visit appends post-order; reverse for a valid topological order.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// Cycles returns the cycles among required edges found by one depth-first
// walk: one cycle per back edge to a node still on the walk's stack.
// Optional edges never contribute a cycle (spec §4.4). A node is not
// re-entered once its walk has finished, so a simple cycle through
// already-finished nodes (e.g. a->c->a when a->b->c->a was found first)
// is not reported.
func (g *Graph) Cycles() [][]string {
	var cycles [][]string
	stack := []string{}
	onStack := make(map[string]bool)
	done := make(map[string]bool)

	var visit func(id string)
	visit = func(id string) {
		if done[id] {
			return
		}
		stack = append(stack, id)
		onStack[id] = true
		for _, e := range g.required[id] {
			if onStack[e.To] {
				// found a back-edge; extract the cycle from the stack
				for i, s := range stack {
					if s == e.To {
						cycle := append([]string{}, stack[i:]...)
						cycle = append(cycle, e.To)
						cycles = append(cycles, cycle)
						break
					}
				}
				continue
			}
			visit(e.To)
		}
		stack = stack[:len(stack)-1]
		onStack[id] = false
		done[id] = true
	}

	for _, id := range g.Nodes() {
		visit(id)
	}
	return cycles
}
