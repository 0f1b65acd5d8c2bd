package passmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuslink/nexuslink/pipeline"
)

// TestPhaseOrderIgnoresInsertionOrder is spec §8 scenario 5: passes
// T, O, A are added in that order but must run as [A, T, O].
func TestPhaseOrderIgnoresInsertionOrder(t *testing.T) {
	var log []string
	record := func(name string) PassFunc {
		return func(ctx *Context) error {
			log = append(log, name)
			return nil
		}
	}

	m := New()
	m.AddPass("T", Transformation, record("T"))
	m.AddPass("O", Optimization, record("O"))
	m.AddPass("A", Analysis, record("A"))

	pl := pipeline.New()
	_, err := m.Run(pl)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "T", "O"}, log)
}

func TestFailingPassAbortsRemainingPasses(t *testing.T) {
	var log []string
	m := New()
	m.AddPass("a1", Analysis, func(ctx *Context) error {
		log = append(log, "a1")
		return nil
	})
	m.AddPass("a2", Analysis, func(ctx *Context) error {
		log = append(log, "a2")
		return assertErr{}
	})
	m.AddPass("t1", Transformation, func(ctx *Context) error {
		log = append(log, "t1")
		return nil
	})

	pl := pipeline.New()
	_, err := m.Run(pl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a2")
	assert.Equal(t, []string{"a1", "a2"}, log)
}

type assertErr struct{}

func (assertErr) Error() string { return "failed" }

func TestBuiltinPassesValidateAndOptimize(t *testing.T) {
	pl := pipeline.New()
	identity := func(in []byte, _ interface{}) ([]byte, error) { return in, nil }
	pl.AddStage("s1", identity, nil)
	pl.AddStage("s2", identity, nil)

	m := New()
	m.AddPass("dependency-analysis", Analysis, DependencyAnalysisPass)
	m.AddPass("validator", Analysis, ValidatorPass)
	m.AddPass("optimizer", Optimization, OptimizerPass)

	ctx, err := m.Run(pl)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, ctx.Analysis["stage_names"])
	assert.True(t, ctx.Analysis["validated"].(bool))
	assert.True(t, pl.Optimized())
}

func TestValidatorRejectsDuplicateStageNames(t *testing.T) {
	pl := pipeline.New()
	identity := func(in []byte, _ interface{}) ([]byte, error) { return in, nil }
	pl.AddStage("dup", identity, nil)
	pl.AddStage("dup", identity, nil)

	m := New()
	m.AddPass("validator", Analysis, ValidatorPass)

	_, err := m.Run(pl)
	require.Error(t, err)
}
