package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuslink/nexuslink/internal/diag"
)

func TestAddDuplicateFails(t *testing.T) {
	r := New()
	sym := Symbol{Name: "calculate", Version: "1.0.0", ComponentID: "math_v1"}
	_, err := r.Add(Exported, sym)
	require.NoError(t, err)

	_, err = r.Add(Exported, sym)
	require.Error(t, err)
	assert.Equal(t, diag.DuplicateID, diag.KindOf(err))
}

func TestFindAllIsInsertionStable(t *testing.T) {
	r := New()
	_, _ = r.Add(Exported, Symbol{Name: "calculate", Version: "1.0.0", ComponentID: "math_v1"})
	_, _ = r.Add(Exported, Symbol{Name: "calculate", Version: "2.0.0", ComponentID: "math_v2"})
	_, _ = r.Add(Exported, Symbol{Name: "calculate", Version: "3.0.0", ComponentID: "math_v3"})

	found := r.FindAll(Exported, "calculate")
	require.Len(t, found, 3)
	assert.Equal(t, "1.0.0", found[0].Version)
	assert.Equal(t, "2.0.0", found[1].Version)
	assert.Equal(t, "3.0.0", found[2].Version)
}

func TestCopyPreservesRefCount(t *testing.T) {
	r := New()
	sym := Symbol{Name: "calculate", Version: "1.0.0", ComponentID: "math_v1", RefCount: 7}
	_, _ = r.Add(Exported, sym)

	n := r.Copy(Exported, Imported, "")
	assert.Equal(t, 1, n)

	found := r.FindAll(Imported, "calculate")
	require.Len(t, found, 1)
	assert.Equal(t, 7, found[0].RefCount)
}

func TestCopyFilterByComponent(t *testing.T) {
	r := New()
	_, _ = r.Add(Exported, Symbol{Name: "a", Version: "1.0.0", ComponentID: "c1"})
	_, _ = r.Add(Exported, Symbol{Name: "b", Version: "1.0.0", ComponentID: "c2"})

	n := r.Copy(Exported, Imported, "c1")
	assert.Equal(t, 1, n)
	assert.Empty(t, r.FindAll(Imported, "b"))
	assert.NotEmpty(t, r.FindAll(Imported, "a"))
}

func TestRemoveFirstMatch(t *testing.T) {
	r := New()
	_, _ = r.Add(Exported, Symbol{Name: "calculate", Version: "1.0.0", ComponentID: "math_v1"})
	_, _ = r.Add(Exported, Symbol{Name: "calculate", Version: "2.0.0", ComponentID: "math_v2"})

	assert.True(t, r.Remove(Exported, "calculate"))
	found := r.FindAll(Exported, "calculate")
	require.Len(t, found, 1)
	assert.Equal(t, "2.0.0", found[0].Version)

	assert.False(t, r.Remove(Exported, "missing"))
}

func TestStatsCountsByKindAndMostReferenced(t *testing.T) {
	r := New()
	_, _ = r.Add(Exported, Symbol{Name: "a", Version: "1.0.0", ComponentID: "c1", Kind: KindFunction, RefCount: 1})
	_, _ = r.Add(Exported, Symbol{Name: "b", Version: "1.0.0", ComponentID: "c1", Kind: KindVariable, RefCount: 9})

	stats := r.Stats(Exported)
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, 1, stats.CountByKind[KindFunction])
	assert.Equal(t, 1, stats.CountByKind[KindVariable])
	assert.Equal(t, "b", stats.MostReferenced)
}

func TestAddingExportedNeverUpdatesImported(t *testing.T) {
	r := New()
	_, _ = r.Add(Exported, Symbol{Name: "calculate", Version: "1.0.0", ComponentID: "math_v1"})
	assert.Empty(t, r.FindAll(Imported, "calculate"))
}
