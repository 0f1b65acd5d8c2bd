// Package policy defines the narrow "range-state" collaborator spec §6
// describes: a callback the resolver consults only when a component's
// metadata declares it wants one. The policy's actual decision logic
// (the "SemVerX range-state" surface) is explicitly out of scope for this
// module - the resolver only needs the callback shape and a conservative
// default.
package policy

// State is the minimal range-state shape spec §9's open question settles
// on: a three-rung partial order, experimental < stable < legacy, with
// legacy terminal (nothing is ever newer than legacy).
type State uint8

const (
	Experimental State = iota
	Stable
	Legacy
)

// Decision is the callback's result shape.
type Decision struct {
	Allowed            bool
	RequiresValidation bool
	Denied             bool
}

// Func is the policy callback signature: allow(source, target, strict).
type Func func(source, target State, strict bool) Decision

// Default implements spec §6's default policy: allowed iff source==target,
// or (not strict) and source is strictly newer than target in the
// experimental<stable<legacy order.
func Default(source, target State, strict bool) Decision {
	if source == target {
		return Decision{Allowed: true}
	}
	if !strict && source > target {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, Denied: true}
}
