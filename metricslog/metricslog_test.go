package metricslog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendThenReadAllRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.toml")

	require.NoError(t, Append(path, Record{
		ComponentPath:  "math_v2",
		Type:           "automaton",
		Level:          "standard",
		OriginalCount:  10,
		MinimizedCount: 6,
		ElapsedMS:      1.5,
	}))
	require.NoError(t, Append(path, Record{
		ComponentPath:    "math_v2",
		Type:             "automaton",
		Level:            "aggressive",
		OriginalCount:    10,
		MinimizedCount:   6,
		BooleanReduction: true,
		ElapsedMS:        2.1,
	}))

	recs, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "standard", recs[0].Level)
	assert.False(t, recs[0].BooleanReduction)
	assert.Equal(t, "aggressive", recs[1].Level)
	assert.True(t, recs[1].BooleanReduction)
}
