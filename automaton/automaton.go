// Package automaton implements the DFA representation and Hopcroft-style
// minimizer of spec §4.6.
//
// States live in an indexed slice rather than as pointer-linked nodes -
// golang/dep's typed_radix.go hides its own "name -> arena slot" shape
// behind a small typed accessor; here the accessor is Automaton itself and
// the arena is []State, addressed by int rather than by name. Minimize
// never mutates its receiver: it always returns a fresh Automaton, leaving
// the input independent and unchanged (spec §5).
package automaton

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nexuslink/nexuslink/internal/diag"
)

// Level selects how aggressively Minimize reduces an automaton.
type Level uint8

const (
	// NONE returns an unminimized clone.
	NONE Level = iota
	// BASIC removes unreachable states only.
	BASIC
	// STANDARD runs full Hopcroft partition refinement.
	STANDARD
	// AGGRESSIVE runs Hopcroft followed by boolean (alphabet) reduction.
	AGGRESSIVE
)

func (l Level) String() string {
	switch l {
	case NONE:
		return "none"
	case BASIC:
		return "basic"
	case STANDARD:
		return "standard"
	case AGGRESSIVE:
		return "aggressive"
	default:
		return "unknown"
	}
}

// transition is one outgoing (symbol, target) edge from a state, target
// addressed by index into Automaton.states.
type transition struct {
	symbol string
	target int
}

// State is one automaton state. Transitions are kept in insertion order;
// at most one transition per input symbol is ever present (invariant
// enforced by AddTransition).
type State struct {
	ID          string
	IsFinal     bool
	transitions []transition
}

// Transitions returns state's outgoing edges as (symbol, target-id) pairs,
// in insertion order.
func (s State) Transitions(a *Automaton) []struct {
	Symbol string
	Target string
} {
	out := make([]struct {
		Symbol string
		Target string
	}, len(s.transitions))
	for i, t := range s.transitions {
		out[i].Symbol = t.symbol
		out[i].Target = a.states[t.target].ID
	}
	return out
}

// Automaton is a deterministic finite automaton over string input symbols.
type Automaton struct {
	states  []State
	index   map[string]int // state id -> index into states
	initial int             // index of the initial state, -1 if empty
}

// New returns an empty automaton.
func New() *Automaton {
	return &Automaton{index: make(map[string]int), initial: -1}
}

// AddState appends a new state, designating it the initial state if it is
// the first one added.
func (a *Automaton) AddState(id string, isFinal bool) error {
	if _, exists := a.index[id]; exists {
		return diag.New(diag.DuplicateID, "state already present", "state_id", id)
	}
	idx := len(a.states)
	a.states = append(a.states, State{ID: id, IsFinal: isFinal})
	a.index[id] = idx
	if idx == 0 {
		a.initial = 0
	}
	return nil
}

// AddTransition records that fromID transitions to toID on symbol,
// replacing any existing transition fromID already had on that symbol (the
// "at most one outgoing transition per (state, symbol)" invariant, spec
// §3).
func (a *Automaton) AddTransition(fromID, toID, symbol string) error {
	from, ok := a.index[fromID]
	if !ok {
		return diag.New(diag.UnknownReference, "unknown from-state", "state_id", fromID)
	}
	to, ok := a.index[toID]
	if !ok {
		return diag.New(diag.UnknownReference, "unknown to-state", "state_id", toID)
	}
	st := &a.states[from]
	for i, t := range st.transitions {
		if t.symbol == symbol {
			st.transitions[i].target = to
			return nil
		}
	}
	st.transitions = append(st.transitions, transition{symbol: symbol, target: to})
	return nil
}

// States returns the automaton's states in creation order.
func (a *Automaton) States() []State {
	out := make([]State, len(a.states))
	copy(out, a.states)
	return out
}

// Initial returns the initial state's id, or "" if the automaton is empty.
func (a *Automaton) Initial() string {
	if a.initial < 0 {
		return ""
	}
	return a.states[a.initial].ID
}

// Accepts runs input against the automaton from its initial state,
// stopping (rejecting) on the first symbol with no matching transition.
func (a *Automaton) Accepts(input []string) bool {
	if a.initial < 0 {
		return false
	}
	cur := a.initial
	for _, sym := range input {
		next := -1
		for _, t := range a.states[cur].transitions {
			if t.symbol == sym {
				next = t.target
				break
			}
		}
		if next < 0 {
			return false
		}
		cur = next
	}
	return a.states[cur].IsFinal
}

// Clone returns an independent deep copy.
func (a *Automaton) Clone() *Automaton {
	out := &Automaton{
		index:   make(map[string]int, len(a.index)),
		initial: a.initial,
		states:  make([]State, len(a.states)),
	}
	for i, s := range a.states {
		cp := State{ID: s.ID, IsFinal: s.IsFinal, transitions: make([]transition, len(s.transitions))}
		copy(cp.transitions, s.transitions)
		out.states[i] = cp
	}
	for k, v := range a.index {
		out.index[k] = v
	}
	return out
}

// Metrics reports the footprint and timing of one Minimize call (spec
// §4.6). Minimize leaves OriginalBytes/MinimizedBytes zero - the size of
// the underlying component file is known only to the caller. The
// nexuslink minimize command does not fill them in and records both as
// zero.
type Metrics struct {
	Level           Level
	OriginalStates  int
	MinimizedStates int
	OriginalBytes   int64
	MinimizedBytes  int64
	Elapsed         time.Duration
	BooleanReduced  bool
}

// Minimize reduces a according to level, returning a fresh automaton and
// the run's metrics. a is never mutated.
func (a *Automaton) Minimize(level Level) (*Automaton, Metrics) {
	start := time.Now()
	m := Metrics{Level: level, OriginalStates: len(a.states)}

	var out *Automaton
	switch level {
	case NONE:
		out = a.Clone()
	case BASIC:
		out = trimUnreachable(a)
	case STANDARD:
		out = hopcroftMinimize(a)
	case AGGRESSIVE:
		out = hopcroftMinimize(a)
		if mergeIndistinguishableSymbols(out) {
			m.BooleanReduced = true
		}
	default:
		out = a.Clone()
	}

	m.MinimizedStates = len(out.states)
	m.Elapsed = time.Since(start)
	return out, m
}

// trimUnreachable keeps only states reachable from the initial state,
// dropping any transition whose target was dropped.
func trimUnreachable(a *Automaton) *Automaton {
	out := New()
	if a.initial < 0 {
		return out
	}
	reachable := reachableFrom(a, a.initial)
	order := make([]int, 0, len(reachable))
	for idx := range reachable {
		order = append(order, idx)
	}
	sort.Ints(order)

	for _, idx := range order {
		s := a.states[idx]
		if err := out.AddState(s.ID, s.IsFinal); err != nil {
			continue
		}
	}
	// the initial state must be first; AddState above may not have added
	// a.initial first if its index sorts later than other reachable ones,
	// so fix up explicitly.
	out.initial = out.index[a.states[a.initial].ID]

	for _, idx := range order {
		s := a.states[idx]
		for _, t := range s.transitions {
			if !reachable[t.target] {
				continue
			}
			_ = out.AddTransition(s.ID, a.states[t.target].ID, t.symbol)
		}
	}
	return out
}

func reachableFrom(a *Automaton, start int) map[int]bool {
	seen := map[int]bool{start: true}
	stack := []int{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range a.states[cur].transitions {
			if !seen[t.target] {
				seen[t.target] = true
				stack = append(stack, t.target)
			}
		}
	}
	return seen
}

// block is one equivalence class under refinement, tracked by pointer
// identity so the worklist can recognize when a block it holds gets split.
type block struct {
	members map[int]bool
}

func newBlock(ids ...int) *block {
	b := &block{members: make(map[int]bool, len(ids))}
	for _, id := range ids {
		b.members[id] = true
	}
	return b
}

func (b *block) size() int { return len(b.members) }

func alphabetOf(a *Automaton) []string {
	seen := make(map[string]bool)
	for _, s := range a.states {
		for _, t := range s.transitions {
			seen[t.symbol] = true
		}
	}
	out := make([]string, 0, len(seen))
	for sym := range seen {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// hopcroftMinimize runs the four-step algorithm of spec §4.6 and lifts the
// result into a fresh Automaton.
func hopcroftMinimize(a *Automaton) *Automaton {
	if len(a.states) == 0 {
		return New()
	}

	// Step 1: partition into {finals, non-finals}, dropping empty blocks.
	var finals, nonFinals []int
	for i, s := range a.states {
		if s.IsFinal {
			finals = append(finals, i)
		} else {
			nonFinals = append(nonFinals, i)
		}
	}
	var partition []*block
	if len(finals) > 0 {
		partition = append(partition, newBlock(finals...))
	}
	if len(nonFinals) > 0 {
		partition = append(partition, newBlock(nonFinals...))
	}

	// Step 2: worklist starts with the smaller of the two blocks (or the
	// only one, if one side was empty).
	var worklist []*block
	if len(partition) == 2 {
		if partition[0].size() <= partition[1].size() {
			worklist = append(worklist, partition[0])
		} else {
			worklist = append(worklist, partition[1])
		}
	} else if len(partition) == 1 {
		worklist = append(worklist, partition[0])
	}

	alphabet := alphabetOf(a)

	removeFromWorklist := func(b *block) bool {
		for i, w := range worklist {
			if w == b {
				worklist = append(worklist[:i], worklist[i+1:]...)
				return true
			}
		}
		return false
	}
	removeFromPartition := func(b *block) {
		for i, p := range partition {
			if p == b {
				partition = append(partition[:i], partition[i+1:]...)
				return
			}
		}
	}

	// Step 3/4: refine until the worklist is empty.
	for len(worklist) > 0 {
		A := worklist[0]
		worklist = worklist[1:]

		for _, c := range alphabet {
			X := make(map[int]bool)
			for i, s := range a.states {
				for _, t := range s.transitions {
					if t.symbol == c && A.members[t.target] {
						X[i] = true
						break
					}
				}
			}
			if len(X) == 0 {
				continue
			}

			for _, Y := range append([]*block{}, partition...) {
				inX := make(map[int]bool)
				notInX := make(map[int]bool)
				for m := range Y.members {
					if X[m] {
						inX[m] = true
					} else {
						notInX[m] = true
					}
				}
				if len(inX) == 0 || len(notInX) == 0 {
					continue
				}

				y1 := &block{members: inX}
				y2 := &block{members: notInX}
				removeFromPartition(Y)
				partition = append(partition, y1, y2)

				if removeFromWorklist(Y) {
					worklist = append(worklist, y1, y2)
				} else if len(y1.members) <= len(y2.members) {
					worklist = append(worklist, y1)
				} else {
					worklist = append(worklist, y2)
				}
			}
		}
	}

	return liftPartition(a, partition)
}

// liftPartition builds the minimized automaton from the final set of
// blocks: one minimized state per block, ordered deterministically by the
// block's lowest original state index.
func liftPartition(a *Automaton, partition []*block) *Automaton {
	sort.Slice(partition, func(i, j int) bool {
		return minMember(partition[i]) < minMember(partition[j])
	})

	blockID := make([]string, len(partition))
	originalToBlock := make(map[int]int, len(a.states))
	for bi, b := range partition {
		ids := make([]string, 0, len(b.members))
		for m := range b.members {
			ids = append(ids, a.states[m].ID)
			originalToBlock[m] = bi
		}
		sort.Strings(ids)
		blockID[bi] = strings.Join(ids, "+")
	}

	out := New()
	for bi, b := range partition {
		isFinal := false
		for m := range b.members {
			if a.states[m].IsFinal {
				isFinal = true
				break
			}
		}
		_ = out.AddState(blockID[bi], isFinal)
	}
	if a.initial >= 0 {
		out.initial = originalToBlock[a.initial]
	}

	for bi, b := range partition {
		seen := make(map[string]bool)
		for m := range b.members {
			for _, t := range a.states[m].transitions {
				if seen[t.symbol] {
					continue
				}
				seen[t.symbol] = true
				targetBlock := originalToBlock[t.target]
				_ = out.AddTransition(blockID[bi], blockID[targetBlock], t.symbol)
			}
		}
	}
	return out
}

func minMember(b *block) int {
	min := -1
	for m := range b.members {
		if min == -1 || m < min {
			min = m
		}
	}
	return min
}

// mergeIndistinguishableSymbols implements the aggressive-level boolean
// reduction of spec §4.6: symbols whose transition function is identical
// across every state collapse onto one canonical symbol. Reports whether
// any merge occurred.
func mergeIndistinguishableSymbols(a *Automaton) bool {
	alphabet := alphabetOf(a)
	if len(alphabet) < 2 {
		return false
	}

	signature := func(sym string) string {
		var sb strings.Builder
		for _, s := range a.states {
			target := -1
			for _, t := range s.transitions {
				if t.symbol == sym {
					target = t.target
					break
				}
			}
			fmt.Fprintf(&sb, "%d,", target)
		}
		return sb.String()
	}

	groups := make(map[string][]string)
	for _, sym := range alphabet {
		sig := signature(sym)
		groups[sig] = append(groups[sig], sym)
	}

	merged := false
	for _, syms := range groups {
		if len(syms) < 2 {
			continue
		}
		sort.Strings(syms)
		canonical := syms[0]
		rename := make(map[string]bool, len(syms)-1)
		for _, s := range syms[1:] {
			rename[s] = true
		}
		for i := range a.states {
			for j, t := range a.states[i].transitions {
				if rename[t.symbol] {
					a.states[i].transitions[j].symbol = canonical
					merged = true
				}
			}
		}
	}

	if merged {
		// renaming can leave two transitions on the same state sharing
		// the new canonical symbol; collapse back to the "at most one
		// transition per (state, symbol)" invariant, keeping the first.
		for i := range a.states {
			seen := make(map[string]bool)
			kept := a.states[i].transitions[:0]
			for _, t := range a.states[i].transitions {
				if seen[t.symbol] {
					continue
				}
				seen[t.symbol] = true
				kept = append(kept, t)
			}
			a.states[i].transitions = kept
		}
	}
	return merged
}
