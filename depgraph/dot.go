package depgraph

import (
	"bytes"
	"fmt"
)

// ExportDOT renders the graph in the common textual directed-graph form
// (spec §4.5/§6): one node per component, one edge per declared
// dependency labeled with its constraint and an " (optional)" suffix
// where applicable.
//
// The accumulate-then-render shape follows golang/dep's own
// cmd/dep/graphviz.go (a node list plus a deduplicated edge-string set
// written into one buffer), generalized here to label every edge instead
// of only rendering bare project relations.
func (g *Graph) ExportDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph nexuslink {\n")

	for _, id := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", id, id)
	}

	seen := make(map[string]bool)
	emit := func(e Edge) {
		suffix := ""
		if e.Optional {
			suffix = " (optional)"
		}
		key := fmt.Sprintf("%s->%s:%s%s", e.From, e.To, e.Constraint, suffix)
		if seen[key] {
			return
		}
		seen[key] = true
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Constraint+suffix)
	}

	for _, id := range g.Nodes() {
		for _, e := range g.required[id] {
			emit(e)
		}
		for _, e := range g.optional[id] {
			emit(e)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}
