// Package component implements the component metadata model of spec §3 /
// §4.3: named, versioned records declaring exports, imports, and typed
// dependencies, plus usage statistics.
package component

import (
	"sync"
	"time"

	"github.com/nexuslink/nexuslink/internal/diag"
	"github.com/nexuslink/nexuslink/registry"
	"github.com/nexuslink/nexuslink/version"
)

// ExportSpec is one declared export, per spec §3.
type ExportSpec struct {
	Name    string
	Version string
	Kind    registry.Kind
}

// ImportSpec is one declared import: a name, expected kind, and the
// constraint the consumer requires of it.
type ImportSpec struct {
	Name       string
	Kind       registry.Kind
	Constraint string
}

// Dependency is one declared dependency edge: a target component id, the
// version constraint on it, and whether it is optional.
type Dependency struct {
	TargetID string
	Version  string // constraint string
	Optional bool
}

// Metrics holds the footprint/load-time pair spec §3 attaches to every
// component.
type Metrics struct {
	Footprint  int64
	AvgLoadMS  float64
}

// Usage tracks how often and how recently a component has been consulted.
type Usage struct {
	Count    int
	LastUsed time.Time
	Loaded   bool
}

// Component is one versioned unit of code: id, version, description,
// exports, imports, dependencies, and the metrics/usage bookkeeping spec
// §3 requires.
type Component struct {
	mu sync.Mutex

	ID           string
	Version      string
	Description  string
	Exports      []ExportSpec
	Imports      []ImportSpec
	Dependencies []Dependency
	Metrics      Metrics
	Usage        Usage
}

// New returns an empty component with the given id/version/description.
func New(id, ver, description string) *Component {
	return &Component{ID: id, Version: ver, Description: description}
}

// AddDependency appends a dependency declaration.
func (c *Component) AddDependency(targetID, constraint string, optional bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Dependencies = append(c.Dependencies, Dependency{TargetID: targetID, Version: constraint, Optional: optional})
}

// AddExport appends an export declaration. An empty ver defaults to the
// component's own version, per spec §4.3.
func (c *Component) AddExport(name, ver string, kind registry.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ver == "" {
		ver = c.Version
	}
	c.Exports = append(c.Exports, ExportSpec{Name: name, Version: ver, Kind: kind})
}

// AddImport appends an import declaration.
func (c *Component) AddImport(name, constraint string, kind registry.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Imports = append(c.Imports, ImportSpec{Name: name, Kind: kind, Constraint: constraint})
}

// TrackUsage increments the usage counter and stamps LastUsed with the
// current wall-clock time.
func (c *Component) TrackUsage(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Usage.Count++
	c.Usage.LastUsed = now
}

// ByID indexes components by id: the available set that
// CheckDependencies, ResolveComponent, depgraph.Build and nexus.New take.
type ByID map[string]*Component

// CheckDependencies verifies every non-optional dependency resolves to
// some component in available whose version satisfies the constraint.
func (c *Component) CheckDependencies(available ByID) error {
	for _, dep := range c.Dependencies {
		target, ok := available[dep.TargetID]
		if !ok {
			if dep.Optional {
				continue
			}
			return diag.New(diag.UnknownReference, "missing dependency target",
				"target_id", dep.TargetID, "component", c.ID)
		}
		con, err := version.ParseConstraint(dep.Version)
		if err != nil {
			return diag.Wrap(diag.InvalidInput, err, "malformed dependency constraint",
				"target_id", dep.TargetID, "constraint", dep.Version)
		}
		tv, err := version.Parse(target.Version)
		if err != nil || !con.Matches(tv) {
			if dep.Optional {
				continue
			}
			return diag.New(diag.UnknownReference, "no available version satisfies dependency constraint",
				"target_id", dep.TargetID, "constraint", dep.Version)
		}
	}
	return nil
}

// candidateScore ranks a resolve_component candidate: exact-version match
// beats constraint-match, then descending version wins (spec §4.3).
type candidateScore struct {
	exact bool
	ver   version.Version
}

func (s candidateScore) less(o candidateScore) bool {
	if s.exact != o.exact {
		return !s.exact // o is exact, s is not: s is "less" (worse)
	}
	return s.ver.LessThan(o.ver)
}

// ResolveComponent picks the best candidate for id among available whose
// version satisfies constraint, scoring exact-match over constraint-match
// and then by descending version.
func ResolveComponent(id, constraint string, available ByID) (*Component, bool) {
	con, err := version.ParseConstraint(constraint)
	exactWanted, exactIsVersion := version.Version{}, false
	if err == nil {
		if v, perr := version.Parse(constraint); perr == nil {
			exactWanted, exactIsVersion = v, true
		}
	}

	var best *Component
	var bestScore candidateScore
	for _, cand := range available {
		if cand.ID != id {
			continue
		}
		v, perr := version.Parse(cand.Version)
		if perr != nil {
			continue
		}
		if err == nil && !con.Matches(v) {
			continue
		}
		score := candidateScore{ver: v}
		if exactIsVersion && v.Equal(exactWanted) {
			score.exact = true
		}
		if best == nil || bestScore.less(score) {
			best, bestScore = cand, score
		}
	}
	return best, best != nil
}
