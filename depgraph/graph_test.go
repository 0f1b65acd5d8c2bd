package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuslink/nexuslink/component"
)

func mkComponent(id, ver string) *component.Component {
	return component.New(id, ver, "")
}

func TestBuildSeparatesOptionalFromRequiredCycles(t *testing.T) {
	a := mkComponent("a", "1.0.0")
	b := mkComponent("b", "1.0.0")
	a.AddDependency("b", "^1.0.0", false)
	b.AddDependency("a", "^1.0.0", true) // optional back-edge: not a required cycle

	available := component.ByID{"a": a, "b": b}
	g, err := Build("a", available)
	require.NoError(t, err)

	_, err = g.TopoOrder()
	assert.NoError(t, err, "optional-only cycle must not block topological order")
}

func TestRequiredCycleDetected(t *testing.T) {
	a := mkComponent("a", "1.0.0")
	b := mkComponent("b", "1.0.0")
	a.AddDependency("b", "^1.0.0", false)
	b.AddDependency("a", "^1.0.0", false)

	available := component.ByID{"a": a, "b": b}
	g, err := Build("a", available)
	require.NoError(t, err)

	_, err = g.TopoOrder()
	require.Error(t, err)

	cycles := g.Cycles()
	assert.NotEmpty(t, cycles)
}

func TestIsDirectDependency(t *testing.T) {
	a := mkComponent("a", "1.0.0")
	b := mkComponent("b", "1.0.0")
	c := mkComponent("c", "1.0.0")
	a.AddDependency("b", "^1.0.0", false)
	b.AddDependency("c", "^1.0.0", false)

	available := component.ByID{"a": a, "b": b, "c": c}
	g, err := Build("a", available)
	require.NoError(t, err)

	assert.True(t, g.IsDirectDependency("a", "b"))
	assert.False(t, g.IsDirectDependency("a", "c"))
	assert.True(t, g.Reachable("a", "c"))
}

func TestExportDOTLabelsOptionalEdges(t *testing.T) {
	a := mkComponent("a", "1.0.0")
	b := mkComponent("b", "1.0.0")
	a.AddDependency("b", "^1.0.0", true)

	available := component.ByID{"a": a, "b": b}
	g, err := Build("a", available)
	require.NoError(t, err)

	dot := g.ExportDOT()
	assert.Contains(t, dot, "(optional)")
	assert.Contains(t, dot, `"a" -> "b"`)
}
