// Package passmanager implements the three-phase pass scheduler of spec
// §4.8: analysis passes run first, then transformation, then optimization,
// each phase in list order, and a failing pass aborts the run immediately.
package passmanager

import (
	"sort"
	"sync"

	"github.com/nexuslink/nexuslink/internal/diag"
	"github.com/nexuslink/nexuslink/pipeline"
)

// Phase identifies one of the three strict execution phases.
type Phase uint8

const (
	Analysis Phase = iota
	Transformation
	Optimization
)

func (p Phase) String() string {
	switch p {
	case Analysis:
		return "analysis"
	case Transformation:
		return "transformation"
	case Optimization:
		return "optimization"
	default:
		return "unknown"
	}
}

// Context is threaded through every pass in one run: the pipeline under
// scheduling, plus a shared slot analysis passes can populate and later
// phases can consult.
type Context struct {
	Pipeline *pipeline.Pipeline
	Analysis map[string]interface{}
}

// PassFunc is one pass's behavior. Analysis passes must not mutate
// ctx.Pipeline's stage chain - a contract, not something this package
// enforces structurally (spec §4.7 notes implementations may add a
// read-only facade; this module trusts well-behaved built-ins and callers).
type PassFunc func(ctx *Context) error

// Pass is one named, phased unit of work.
type Pass struct {
	Name  string
	Phase Phase
	Fn    PassFunc
}

// Manager holds an ordered, resizable list of passes.
type Manager struct {
	mu    sync.Mutex
	order []Pass // insertion order; Run groups it by phase
}

// New returns an empty pass manager.
func New() *Manager {
	return &Manager{}
}

// AddPass appends a pass in the given phase. Passes run grouped by phase
// (Analysis, then Transformation, then Optimization) regardless of the
// order they were added in; within a phase, insertion order is preserved.
func (m *Manager) AddPass(name string, phase Phase, fn PassFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = append(m.order, Pass{Name: name, Phase: phase, Fn: fn})
}

// Passes returns the registered passes in insertion order.
func (m *Manager) Passes() []Pass {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Pass, len(m.order))
	copy(out, m.order)
	return out
}

// Run executes every registered pass against pl in three strict phases.
// Any failing pass aborts the run immediately with that pass's name; no
// subsequent pass, even in the same phase, runs.
func (m *Manager) Run(pl *pipeline.Pipeline) (*Context, error) {
	m.mu.Lock()
	passes := make([]Pass, len(m.order))
	copy(passes, m.order)
	m.mu.Unlock()

	byPhase := make(map[Phase][]Pass)
	for _, p := range passes {
		byPhase[p.Phase] = append(byPhase[p.Phase], p)
	}

	ctx := &Context{Pipeline: pl, Analysis: make(map[string]interface{})}
	for _, phase := range []Phase{Analysis, Transformation, Optimization} {
		for _, p := range byPhase[phase] {
			if err := p.Fn(ctx); err != nil {
				return ctx, diag.Wrap(diag.PassFailed, err, "pass \""+p.Name+"\" failed", "pass", p.Name, "phase", phase.String())
			}
		}
	}
	return ctx, nil
}

// DependencyAnalysisPass populates ctx.Analysis with the pipeline's
// current stage names - the hook built-in passes use this slot for.
func DependencyAnalysisPass(ctx *Context) error {
	stages := ctx.Pipeline.Stages()
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}
	ctx.Analysis["stage_names"] = names
	return nil
}

// ValidatorPass checks stage-name uniqueness, grounded on the same
// "find constraints nothing references" shape golang/dep's own
// FindIneffectualConstraints check uses: compute the offending set, then
// fail only if it is non-empty.
func ValidatorPass(ctx *Context) error {
	stages := ctx.Pipeline.Stages()
	seen := make(map[string]bool, len(stages))
	var dupes []string
	for _, s := range stages {
		if seen[s.Name] {
			dupes = append(dupes, s.Name)
			continue
		}
		seen[s.Name] = true
	}
	if len(dupes) > 0 {
		sort.Strings(dupes)
		return diag.New(diag.InvalidInput, "duplicate stage names", "names", dupes)
	}
	ctx.Analysis["validated"] = true
	return nil
}

// OptimizerPass marks the pipeline optimized once the analysis phase has
// validated it - stage reordering/combining hooks onto ctx.Analysis here
// once a concrete safe-to-combine signal exists; today the pass manager
// carries the contract without inventing reorder heuristics the spec
// doesn't describe.
func OptimizerPass(ctx *Context) error {
	if validated, _ := ctx.Analysis["validated"].(bool); validated {
		ctx.Pipeline.MarkOptimized()
	}
	return nil
}
