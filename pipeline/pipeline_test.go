package pipeline

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upperStage(in []byte, _ interface{}) ([]byte, error) {
	return bytes.ToUpper(in), nil
}

func reverseStage(in []byte, _ interface{}) ([]byte, error) {
	out := make([]byte, len(in))
	for i, b := range in {
		out[len(in)-1-i] = b
	}
	return out, nil
}

// buildUpperReverse is spec §8 scenario 4's two-stage chain.
func buildUpperReverse() *Pipeline {
	p := New()
	p.AddStage("upper", upperStage, nil)
	p.AddStage("reverse", reverseStage, nil)
	return p
}

func TestSinglePassUppercasesThenReverses(t *testing.T) {
	p := buildUpperReverse()
	out, err := p.Execute(context.Background(), []byte("abcd"), Config{Mode: Single, BufferSize: 64})
	require.NoError(t, err)
	assert.Equal(t, "DCBA", string(out))
	assert.Equal(t, 1, p.GetStats().Iterations)
}

// TestMultiPassOscillatesWithoutConverging exercises spec §8 scenario 4's
// multi-pass run: applying {upper, reverse} repeatedly to its own output
// alternates between "DCBA" and "ABCD" and never reaches a fixed point, so
// it must terminate via max_iterations carrying a non-fatal warning.
func TestMultiPassOscillatesWithoutConverging(t *testing.T) {
	p := buildUpperReverse()
	out, err := p.Execute(context.Background(), []byte("abcd"), Config{Mode: Multi, BufferSize: 64, MaxIterations: 2})
	require.NoError(t, err)
	assert.Equal(t, "ABCD", string(out))

	stats := p.GetStats()
	assert.Equal(t, 2, stats.Iterations)
	assert.False(t, stats.Converged)
	assert.NotEmpty(t, stats.Warning)
}

func TestAutoModePicksMultiAboveThreeStages(t *testing.T) {
	p := New()
	identity := func(in []byte, _ interface{}) ([]byte, error) { return in, nil }
	for _, name := range []string{"s1", "s2", "s3", "s4"} {
		p.AddStage(name, identity, nil)
	}
	out, err := p.Execute(context.Background(), []byte("x"), Config{Mode: Auto, BufferSize: 8, MaxIterations: 3})
	require.NoError(t, err)
	assert.Equal(t, "x", string(out))
	// four identity stages converge immediately in multi-pass mode.
	assert.True(t, p.GetStats().Converged)
}

func TestStageFailureAbortsWithStageName(t *testing.T) {
	p := New()
	p.AddStage("boom", func(in []byte, _ interface{}) ([]byte, error) {
		return nil, assertErr{}
	}, nil)

	_, err := p.Execute(context.Background(), []byte("x"), Config{Mode: Single, BufferSize: 8})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

type assertErr struct{}

func (assertErr) Error() string { return "boom failed" }

func TestCancelledContextAbortsBeforeNextStage(t *testing.T) {
	p := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	p.AddStage("noop", func(in []byte, _ interface{}) ([]byte, error) {
		ran = true
		return in, nil
	}, nil)

	_, err := p.Execute(ctx, []byte("x"), Config{Mode: Single, BufferSize: 8})
	require.Error(t, err)
	assert.False(t, ran)
}

func TestAddStageMarksUnoptimized(t *testing.T) {
	p := New()
	p.MarkOptimized()
	require.True(t, p.Optimized())
	p.AddStage("s", func(in []byte, _ interface{}) ([]byte, error) { return in, nil }, nil)
	assert.False(t, p.Optimized())
}
