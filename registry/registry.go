package registry

import (
	"sync"
)

// Registry holds all three symbol tiers behind a single writer lock, per
// spec §5 ("the registry's three tiers share one lock"). Reads (FindAll,
// Stats, and the resolver's lookups) may proceed concurrently; writes
// (Add, Remove, Copy) are serialized.
type Registry struct {
	mu    sync.RWMutex
	tiers [3]*table
}

// New returns an empty registry with all three tiers initialized.
func New() *Registry {
	r := &Registry{}
	for i := range r.tiers {
		r.tiers[i] = newTable()
	}
	return r
}

func (r *Registry) tier(t Tier) *table { return r.tiers[t] }

// Add inserts a symbol instance into tier. Fails with a DuplicateID
// diag.Error if (name, version, component_id) already exists in that
// tier. Adding to Exported never touches Imported - the cache is only
// ever populated by resolution (spec §4.2).
func (r *Registry) Add(t Tier, sym Symbol) (*Symbol, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tier(t).add(sym)
}

// FindAll returns every symbol instance for name in tier, in
// insertion-stable order.
func (r *Registry) FindAll(t Tier, name string) []*Symbol {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tier(t).findAll(name)
}

// Copy bulk-copies symbols from src to dst, preserving RefCount. If
// filter is non-empty, only symbols whose ComponentID matches it are
// copied.
func (r *Registry) Copy(src, dst Tier, filter string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	srcTable := r.tier(src)
	dstTable := r.tier(dst)
	n := 0
	srcTable.byName.walk(func(_ string, syms []*Symbol) bool {
		for _, sym := range syms {
			if filter != "" && sym.ComponentID != filter {
				continue
			}
			// Duplicate entries are expected when copying repeatedly;
			// ignore the DuplicateID error from add rather than abort
			// the whole bulk copy over one already-present symbol.
			if _, err := dstTable.add(*sym); err == nil {
				n++
			}
		}
		return false
	})
	return n
}

// Remove deletes the first matching entry for name in tier. Returns
// false if none existed.
func (r *Registry) Remove(t Tier, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tier(t).remove(name)
}

// Stats reports per-kind counts, tier size, and the most-referenced name
// in tier.
func (r *Registry) Stats(t Tier) Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tier(t).stats()
}

// SortedNames exposes the tier's symbol names in lexical order, for
// diagnostics and tests.
func (r *Registry) SortedNames(t Tier) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tier(t).sortedNames()
}
