// Package registry implements the three-tier symbol registry of spec §3 /
// §4.2: global (always-visible runtime symbols), exported (contributed by
// loaded components), and imported (a per-consumer resolution cache).
//
// Each tier indexes its symbols by name using github.com/armon/go-radix,
// the same radix-tree library golang/dep wraps in its own typed_radix.go
// for exactly this "name -> small slice of arena entries" shape (there,
// deducers; here, symbol instances). The wrapper pattern below follows
// typed_radix.go directly: a thin typed accessor hiding the interface{}
// boxing, with Walk intentionally left unexposed until something needs it.
package registry

import (
	"sort"

	"github.com/armon/go-radix"

	"github.com/nexuslink/nexuslink/internal/diag"
)

// Kind enumerates the symbol kinds of spec §3.
type Kind uint8

const (
	KindFunction Kind = iota
	KindVariable
	KindType
	KindConstant
)

// Tier identifies one of the registry's three symbol tables.
type Tier uint8

const (
	Global Tier = iota
	Exported
	Imported
)

func (t Tier) String() string {
	switch t {
	case Global:
		return "global"
	case Exported:
		return "exported"
	case Imported:
		return "imported"
	default:
		return "unknown"
	}
}

// Symbol is one versioned symbol instance, per spec §3. (name, version,
// component_id) uniquely identifies it within a tier.
type Symbol struct {
	Name        string
	Version     string // formatted version string; resolver compares via version.Parse
	Kind        Kind
	ComponentID string
	Address     uintptr
	Priority    int
	RefCount    int
}

func key3(name, ver, componentID string) string {
	return name + "\x00" + ver + "\x00" + componentID
}

// symbolTrie is the typed wrapper over *radix.Tree this package needs,
// mirroring golang/dep's deducerTrie in typed_radix.go.
type symbolTrie struct {
	t *radix.Tree
}

func newSymbolTrie() symbolTrie { return symbolTrie{t: radix.New()} }

func (t symbolTrie) get(name string) ([]*Symbol, bool) {
	v, ok := t.t.Get(name)
	if !ok {
		return nil, false
	}
	return v.([]*Symbol), true
}

func (t symbolTrie) put(name string, syms []*Symbol) {
	t.t.Insert(name, syms)
}

func (t symbolTrie) delete(name string) {
	t.t.Delete(name)
}

func (t symbolTrie) len() int { return t.t.Len() }

func (t symbolTrie) walk(fn func(name string, syms []*Symbol) bool) {
	t.t.Walk(func(s string, v interface{}) bool {
		return fn(s, v.([]*Symbol))
	})
}

// table is one tier's storage: an index by name (insertion-stable slices)
// plus a flat set for uniqueness checks and Stats.
type table struct {
	byName symbolTrie
	byKey  map[string]*Symbol // key3(name,version,componentID) -> symbol
}

func newTable() *table {
	return &table{byName: newSymbolTrie(), byKey: make(map[string]*Symbol)}
}

// Stats summarizes one tier: counts by kind, size, and the name whose
// instances carry the highest summed RefCount. It reports no capacity
// figure.
type Stats struct {
	Size             int
	CountByKind      map[Kind]int
	MostReferenced   string
	MostReferencedAt int
}

func (tb *table) stats() Stats {
	s := Stats{CountByKind: make(map[Kind]int)}
	s.Size = len(tb.byKey)
	tb.byName.walk(func(name string, syms []*Symbol) bool {
		refs := 0
		for _, sym := range syms {
			s.CountByKind[sym.Kind]++
			refs += sym.RefCount
		}
		if refs > s.MostReferencedAt {
			s.MostReferencedAt = refs
			s.MostReferenced = name
		}
		return false
	})
	return s
}

func (tb *table) add(sym Symbol) (*Symbol, error) {
	k := key3(sym.Name, sym.Version, sym.ComponentID)
	if _, exists := tb.byKey[k]; exists {
		return nil, diag.New(diag.DuplicateID, "symbol already present in tier",
			"name", sym.Name, "version", sym.Version, "component_id", sym.ComponentID)
	}
	stored := sym
	tb.byKey[k] = &stored

	existing, _ := tb.byName.get(sym.Name)
	existing = append(existing, &stored)
	tb.byName.put(sym.Name, existing)
	return &stored, nil
}

func (tb *table) findAll(name string) []*Symbol {
	syms, ok := tb.byName.get(name)
	if !ok {
		return nil
	}
	out := make([]*Symbol, len(syms))
	copy(out, syms)
	return out
}

func (tb *table) remove(name string) bool {
	syms, ok := tb.byName.get(name)
	if !ok || len(syms) == 0 {
		return false
	}
	first := syms[0]
	delete(tb.byKey, key3(first.Name, first.Version, first.ComponentID))
	rest := syms[1:]
	if len(rest) == 0 {
		tb.byName.delete(name)
	} else {
		tb.byName.put(name, rest)
	}
	return true
}

// sortedNames returns the tier's symbol names in lexical order, used only
// by tests and diagnostics - lookup itself never depends on this order.
func (tb *table) sortedNames() []string {
	names := make([]string, 0, tb.byName.len())
	tb.byName.walk(func(name string, _ []*Symbol) bool {
		names = append(names, name)
		return false
	})
	sort.Strings(names)
	return names
}
