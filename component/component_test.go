package component

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuslink/nexuslink/registry"
)

// TestLegacyMetadataCompatibility is spec §8 scenario 6: a document whose
// exported_symbols is ["foo","bar"] must load into a component with two
// exports, both kind=function, version equal to the component version.
func TestLegacyMetadataCompatibility(t *testing.T) {
	raw := []byte(`{"id":"legacy_comp","version":"1.2.0","exported_symbols":["foo","bar"]}`)
	doc, err := JSONCodec{}.Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	c := FromRaw(doc)
	require.Len(t, c.Exports, 2)
	for _, e := range c.Exports {
		assert.Equal(t, "1.2.0", e.Version)
		assert.Equal(t, registry.KindFunction, e.Kind)
	}
	assert.ElementsMatch(t, []string{"foo", "bar"}, []string{c.Exports[0].Name, c.Exports[1].Name})
}

func TestEnrichedMetadataRoundTrips(t *testing.T) {
	c := New("math_v2", "2.0.0", "math component")
	c.AddExport("calculate", "", registry.KindFunction)
	c.AddDependency("base", "^1.0.0", false)

	var buf bytes.Buffer
	require.NoError(t, JSONCodec{}.Encode(&buf, ToRaw(c)))

	doc, err := JSONCodec{}.Decode(&buf)
	require.NoError(t, err)
	round := FromRaw(doc)

	assert.Equal(t, c.ID, round.ID)
	require.Len(t, round.Exports, 1)
	assert.Equal(t, "2.0.0", round.Exports[0].Version)
	require.Len(t, round.Dependencies, 1)
	assert.Equal(t, "^1.0.0", round.Dependencies[0].Version)
}

func TestCheckDependenciesMissingTarget(t *testing.T) {
	c := New("app", "1.0.0", "")
	c.AddDependency("missing_lib", "^1.0.0", false)

	err := c.CheckDependencies(ByID{})
	require.Error(t, err)
}

func TestCheckDependenciesOptionalMissingIsOK(t *testing.T) {
	c := New("app", "1.0.0", "")
	c.AddDependency("missing_lib", "^1.0.0", true)

	assert.NoError(t, c.CheckDependencies(ByID{}))
}

func TestResolveComponentExactBeatsConstraintMatch(t *testing.T) {
	available := ByID{
		"math@2.0.0": New("math", "2.0.0", ""),
		"math@2.1.0": New("math", "2.1.0", ""),
	}
	best, ok := ResolveComponent("math", "2.0.0", available)
	require.True(t, ok)
	assert.Equal(t, "2.0.0", best.Version)
}

func TestResolveComponentHigherVersionWinsUnderRange(t *testing.T) {
	available := ByID{
		"math@2.0.0": New("math", "2.0.0", ""),
		"math@2.1.0": New("math", "2.1.0", ""),
	}
	best, ok := ResolveComponent("math", ">=2.0.0", available)
	require.True(t, ok)
	assert.Equal(t, "2.1.0", best.Version)
}
