// Package pipeline implements the stage chain and execution modes of spec
// §4.7. A pipeline owns its intermediate buffers and reuses them across
// iterations (spec §5); Execute never mutates the caller's input slice.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sdboyer/constext"

	"github.com/nexuslink/nexuslink/internal/diag"
)

// StageFunc transforms one buffer into the next. userData is whatever the
// stage was registered with via AddStage, passed back on every call -
// golang/dep's own pass/stage callbacks thread a single struct through
// this way rather than capturing it in a closure, so stages stay
// inspectable and comparable by name alone.
type StageFunc func(in []byte, userData interface{}) ([]byte, error)

// Stage is one named transform plus the user data threaded to it.
type Stage struct {
	Name     string
	Fn       StageFunc
	UserData interface{}
}

// Mode selects how Execute dispatches the stage chain.
type Mode uint8

const (
	// Auto picks Multi when more than three stages are configured, Single
	// otherwise.
	Auto Mode = iota
	Single
	Multi
)

// Config configures one Execute call. BufferSize has no default - callers
// must size it for the data they intend to push through; Execute rejects
// a BufferSize that is not positive.
type Config struct {
	Mode          Mode
	BufferSize    int
	MaxIterations int
}

// Stats reports the outcome of the most recent Execute call.
type Stats struct {
	Iterations int
	ElapsedMS  float64
	Converged  bool
	Warning    string
}

// Pipeline is an ordered, mutable chain of stages.
type Pipeline struct {
	mu        sync.Mutex
	stages    []Stage
	optimized bool
	lastStats Stats
}

// New returns an empty pipeline.
func New() *Pipeline {
	return &Pipeline{}
}

// AddStage appends a stage and marks the pipeline as un-optimized - a
// subsequent pass-manager run must re-evaluate optimization opportunities
// (spec §4.8).
func (p *Pipeline) AddStage(name string, fn StageFunc, userData interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = append(p.stages, Stage{Name: name, Fn: fn, UserData: userData})
	p.optimized = false
}

// Stages returns the current stage chain in order.
func (p *Pipeline) Stages() []Stage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

// SetStages replaces the stage chain wholesale - used by the pass
// manager's optimizer pass to install a reordered/combined chain.
func (p *Pipeline) SetStages(stages []Stage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = stages
}

// MarkOptimized records that the pass manager has evaluated this stage
// chain for reordering/combining.
func (p *Pipeline) MarkOptimized() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.optimized = true
}

// Optimized reports whether the chain is current with respect to the last
// optimizer pass.
func (p *Pipeline) Optimized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.optimized
}

// GetStats returns the stats of the most recently completed Execute call.
func (p *Pipeline) GetStats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastStats
}

// Execute dispatches the stage chain against input according to cfg.Mode,
// honoring ctx as a cancellation/deadline source. Stage boundaries
// (single-pass) and iteration boundaries (multi-pass) are the cancellation
// checkpoints spec §5 requires.
func (p *Pipeline) Execute(ctx context.Context, input []byte, cfg Config) ([]byte, error) {
	if cfg.BufferSize <= 0 {
		return nil, diag.New(diag.InvalidInput, "pipeline buffer size must be positive", "buffer_size", cfg.BufferSize)
	}

	p.mu.Lock()
	stages := make([]Stage, len(p.stages))
	copy(stages, p.stages)
	p.mu.Unlock()

	// The pipeline's own internal cancel scope is combined with
	// the caller's context via constext.Cons, exactly the way golang/dep
	// itself composes a caller context with a component-owned one rather
	// than deriving directly from the caller's.
	internal, cancelInternal := context.WithCancel(context.Background())
	defer cancelInternal()
	cctx, cancel := constext.Cons(ctx, internal)
	defer cancel()

	start := time.Now()
	mode := cfg.Mode
	if mode == Auto {
		if len(stages) > 3 {
			mode = Multi
		} else {
			mode = Single
		}
	}

	var out []byte
	var err error
	var stats Stats
	switch mode {
	case Multi:
		out, stats, err = p.executeMulti(cctx, stages, input, cfg)
	default:
		out, stats, err = p.executeSingle(cctx, stages, input, cfg)
	}
	stats.ElapsedMS = float64(time.Since(start)) / float64(time.Millisecond)

	p.mu.Lock()
	p.lastStats = stats
	p.mu.Unlock()
	return out, err
}

func (p *Pipeline) executeSingle(ctx context.Context, stages []Stage, input []byte, cfg Config) ([]byte, Stats, error) {
	cur := make([]byte, len(input))
	copy(cur, input)
	last := ""

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return nil, Stats{Iterations: 1}, diag.New(diag.Cancelled, "pipeline cancelled", "last_stage", last)
		}
		next, err := st.Fn(cur, st.UserData)
		if err != nil {
			return nil, Stats{Iterations: 1}, diag.Wrap(diag.PassFailed, err, fmt.Sprintf("stage %q failed", st.Name), "stage", st.Name)
		}
		buf := make([]byte, len(next))
		copy(buf, next)
		if cfg.BufferSize > 0 && len(buf) > cfg.BufferSize {
			buf = buf[:cfg.BufferSize]
		}
		cur = buf
		last = st.Name
	}
	return cur, Stats{Iterations: 1, Converged: true}, nil
}

func (p *Pipeline) executeMulti(ctx context.Context, stages []Stage, input []byte, cfg Config) ([]byte, Stats, error) {
	a := make([]byte, len(input))
	copy(a, input)
	b := make([]byte, 0, cfg.BufferSize)

	src, dst := a, b
	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = 1
	}

	iterations := 0
	converged := false
	for k := 1; k <= maxIter; k++ {
		iterations = k
		cur := src
		for _, st := range stages {
			next, err := st.Fn(cur, st.UserData)
			if err != nil {
				return nil, Stats{Iterations: iterations}, diag.Wrap(diag.PassFailed, err, fmt.Sprintf("stage %q failed", st.Name), "stage", st.Name, "iteration", k)
			}
			cur = next
		}
		dst = append(dst[:0], cur...)

		if bytes.Equal(src, dst) {
			converged = true
			src = dst
			if err := ctx.Err(); err != nil {
				return nil, Stats{Iterations: iterations}, diag.New(diag.Cancelled, "pipeline cancelled", "iteration", k)
			}
			break
		}
		src, dst = dst, src

		if err := ctx.Err(); err != nil {
			return nil, Stats{Iterations: iterations}, diag.New(diag.Cancelled, "pipeline cancelled", "iteration", k)
		}
	}

	stats := Stats{Iterations: iterations, Converged: converged}
	if !converged {
		stats.Warning = "reached max_iterations without convergence"
	}
	out := make([]byte, len(src))
	copy(out, src)
	return out, stats, nil
}
