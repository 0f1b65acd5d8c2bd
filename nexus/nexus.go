// Package nexus wires the registry, dependency graph, and resolver into
// the single entry point callers hold onto, the way golang/dep's own Ctx
// (context.go) wraps the pieces a CLI command needs behind one
// constructor and a handful of methods, rather than making every caller
// assemble the subsystems by hand.
package nexus

import (
	"github.com/nexuslink/nexuslink/component"
	"github.com/nexuslink/nexuslink/depgraph"
	"github.com/nexuslink/nexuslink/log"
	"github.com/nexuslink/nexuslink/registry"
	"github.com/nexuslink/nexuslink/resolver"
)

// System bundles one root component's registry, dependency graph, and
// resolver.
type System struct {
	Registry *registry.Registry
	Graph    *depgraph.Graph
	Resolver *resolver.Resolver
	Log      *log.Logger
}

// New builds a System rooted at root, with available supplying every
// component reachable from it. The registry starts empty; call
// LoadExports to populate the exported tier before resolving.
func New(root string, available component.ByID, logger *log.Logger) (*System, error) {
	if logger == nil {
		logger = log.Nop()
	}
	g, err := depgraph.Build(root, available)
	if err != nil {
		return nil, err
	}
	reg := registry.New()
	return &System{
		Registry: reg,
		Graph:    g,
		Resolver: resolver.New(reg, g),
		Log:      logger,
	}, nil
}

// LoadExports adds every declared export of every component in available
// to the exported tier. Duplicate (name, version, component) triples are
// logged and skipped rather than aborting the whole load.
func (s *System) LoadExports(available component.ByID) {
	for id, c := range available {
		for _, e := range c.Exports {
			_, err := s.Registry.Add(registry.Exported, registry.Symbol{
				Name:        e.Name,
				Version:     e.Version,
				Kind:        e.Kind,
				ComponentID: id,
			})
			if err != nil {
				s.Log.Warnw("skipped duplicate export", "component", id, "symbol", e.Name, "version", e.Version, "cause", err)
			}
		}
	}
}

// Resolve is a thin pass-through to the wrapped resolver, logging the
// outcome at debug level.
func (s *System) Resolve(name, requester string, opts resolver.Options) (*registry.Symbol, error) {
	sym, err := s.Resolver.Resolve(name, requester, opts)
	if err != nil {
		s.Log.Debugw("resolve failed", "name", name, "requester", requester, "cause", err)
		return nil, err
	}
	s.Log.Debugw("resolved", "name", name, "requester", requester, "component", sym.ComponentID, "version", sym.Version)
	return sym, nil
}
