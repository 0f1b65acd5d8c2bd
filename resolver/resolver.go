// Package resolver implements the versioned symbol resolver of spec
// §4.5: given (symbol name, constraint, requesting component), it returns
// the single best symbol instance or a diagnostic.
package resolver

import (
	"container/heap"
	"sort"

	"github.com/nexuslink/nexuslink/depgraph"
	"github.com/nexuslink/nexuslink/internal/diag"
	"github.com/nexuslink/nexuslink/policy"
	"github.com/nexuslink/nexuslink/registry"
	"github.com/nexuslink/nexuslink/version"
)

const directDependencyBoost = 1000

// Resolver resolves symbol queries against a registry and a dependency
// graph. It performs no I/O and never blocks (spec §5) - every method
// call completes by reading the registry under its own read lock.
type Resolver struct {
	reg   *registry.Registry
	graph *depgraph.Graph
}

// New builds a Resolver over reg and graph.
func New(reg *registry.Registry, graph *depgraph.Graph) *Resolver {
	return &Resolver{reg: reg, graph: graph}
}

// candidate is one eligible symbol plus its resolution-time ranking
// fields, ordered by a container/heap max-heap exactly the way
// golang/dep's solver.go orders its own candidate queue - the resolver
// has no backtracking need (spec §4.5 step 4 is a pure max-pick), so the
// heap here just needs to pop the single best candidate.
type candidate struct {
	sym      *registry.Symbol
	ver      version.Version
	priority int
	order    int // position in FindAll's insertion-stable order
}

type candidateHeap []candidate

func (h candidateHeap) Len() int { return len(h) }
func (h candidateHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	if c := a.ver.Compare(b.ver); c != 0 {
		return c > 0
	}
	return a.order < b.order
}
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Options configures one Resolve call.
type Options struct {
	// Constraint is the version constraint string, or "" to accept any
	// version.
	Constraint string
	// ExpectedKind, when non-nil, rejects candidates of a different kind
	// (resolve_typed, spec §4.5).
	ExpectedKind *registry.Kind

	// RequesterState and CandidateStates declare the spec §6 policy
	// callback's inputs. The callback is consulted for a given candidate
	// only when both the requester's own state (RequesterState) and that
	// candidate's component's state (a CandidateStates entry keyed by
	// component id) are present; a component that never declares a range
	// state is never subject to the check. Policy defaults to
	// policy.Default when nil.
	RequesterState  *policy.State
	CandidateStates map[string]policy.State
	Policy          policy.Func
	Strict          bool
}

func (o Options) evaluatePolicy(componentID string) (policy.Decision, bool) {
	if o.RequesterState == nil || o.CandidateStates == nil {
		return policy.Decision{}, false
	}
	target, ok := o.CandidateStates[componentID]
	if !ok {
		return policy.Decision{}, false
	}
	fn := o.Policy
	if fn == nil {
		fn = policy.Default
	}
	return fn(*o.RequesterState, target, o.Strict), true
}

// Resolve implements the seven-step algorithm of spec §4.5.
func (r *Resolver) Resolve(name, requester string, opts Options) (*registry.Symbol, error) {
	var con interface{ Matches(version.Version) bool }
	if opts.Constraint != "" {
		c, err := version.ParseConstraint(opts.Constraint)
		if err != nil {
			return nil, diag.Wrap(diag.InvalidInput, err, "malformed resolve constraint", "constraint", opts.Constraint)
		}
		con = c
	}

	sym, sawMismatch1, err := r.pick(registry.Exported, name, requester, con, opts, true)
	if err == nil {
		return sym, nil
	}

	sym, sawMismatch2, err := r.pick(registry.Global, name, requester, con, opts, false)
	if err == nil {
		return sym, nil
	}

	if sawMismatch1 || sawMismatch2 {
		return nil, diag.New(diag.KindMismatch, "resolved symbol has unexpected kind", "name", name, "requester", requester)
	}
	return nil, diag.New(diag.Unresolved, "no symbol satisfies query", "name", name, "constraint", opts.Constraint, "requester", requester)
}

func (r *Resolver) pick(tier registry.Tier, name, requester string, con interface{ Matches(version.Version) bool }, opts Options, applyEdgeConstraint bool) (*registry.Symbol, bool, error) {
	all := r.reg.FindAll(tier, name)
	var h candidateHeap
	var sawKindMismatch bool

	for i, sym := range all {
		if opts.ExpectedKind != nil && sym.Kind != *opts.ExpectedKind {
			sawKindMismatch = true
			continue
		}
		v, err := version.Parse(sym.Version)
		if err != nil {
			continue
		}
		if con != nil && !con.Matches(v) {
			continue
		}
		if decision, checked := opts.evaluatePolicy(sym.ComponentID); checked && decision.Denied {
			continue
		}

		priority := sym.Priority
		isDirect := r.graph != nil && r.graph.IsDirectDependency(requester, sym.ComponentID)
		if applyEdgeConstraint && r.graph != nil {
			if edgeConstraint, hasEdge := r.graph.EdgeConstraint(requester, sym.ComponentID); hasEdge {
				ec, err := version.ParseConstraint(edgeConstraint)
				if err == nil && !ec.Matches(v) {
					continue
				}
			}
		}
		if isDirect {
			priority += directDependencyBoost
		}

		heap.Push(&h, candidate{sym: sym, ver: v, priority: priority, order: i})
	}

	if h.Len() == 0 {
		return nil, sawKindMismatch, diag.New(diag.Unresolved, "no candidate in tier", "name", name)
	}

	best := heap.Pop(&h).(candidate)
	best.sym.RefCount++

	if existing := r.reg.FindAll(registry.Imported, importedKey(name, requester)); len(existing) == 0 {
		_, _ = r.reg.Add(registry.Imported, registry.Symbol{
			Name:        importedKey(name, requester),
			Version:     best.sym.Version,
			Kind:        best.sym.Kind,
			ComponentID: best.sym.ComponentID,
			Priority:    best.priority,
		})
	}
	return best.sym, false, nil
}

// importedKey namespaces the per-consumer cache entry by (name,
// requester), per spec §4.5 step 5.
func importedKey(name, requester string) string {
	return name + "@" + requester
}

// ResolveTyped is Resolve with a required kind (resolve_typed, spec §4.5):
// candidates of any other kind are treated as absent rather than matched.
func (r *Resolver) ResolveTyped(name, requester string, kind registry.Kind, opts Options) (*registry.Symbol, error) {
	opts.ExpectedKind = &kind
	return r.Resolve(name, requester, opts)
}

// Conflict reports two or more exported providers of the same symbol name
// disagreeing on version within one requester's dependency closure.
type Conflict struct {
	Name      string
	Versions  []string
	Providers []string
}

// DetectConflicts scopes the Exported tier to requester's full dependency
// closure (itself plus every transitive dependency) and reports, for each
// symbol name provided by more than one distinct version within that
// closure, the offending versions and their providing components. This is
// a diagnostic separate from Resolve: Resolve always returns its single
// best pick even when a conflict like this exists underneath it.
func (r *Resolver) DetectConflicts(requester string) []Conflict {
	closure := make(map[string]bool)
	closure[requester] = true
	if r.graph != nil {
		for _, id := range r.graph.Descendants(requester) {
			closure[id] = true
		}
	}

	var conflicts []Conflict
	for _, name := range r.reg.SortedNames(registry.Exported) {
		syms := r.reg.FindAll(registry.Exported, name)
		byVersion := make(map[string]string) // version -> first providing component
		var versions []string
		for _, sym := range syms {
			if !closure[sym.ComponentID] {
				continue
			}
			if _, seen := byVersion[sym.Version]; seen {
				continue
			}
			byVersion[sym.Version] = sym.ComponentID
			versions = append(versions, sym.Version)
		}
		if len(versions) < 2 {
			continue
		}
		sort.Strings(versions)
		providers := make([]string, len(versions))
		for i, v := range versions {
			providers[i] = byVersion[v]
		}
		conflicts = append(conflicts, Conflict{Name: name, Versions: versions, Providers: providers})
	}
	return conflicts
}
