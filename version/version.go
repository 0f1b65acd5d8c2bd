// Package version implements the version algebra described in spec §4.1:
// a total order over parsed semantic versions, plus a predicate language
// of constraints (exact, comparative, caret, tilde, wildcard).
//
// Numeric parsing and precedence comparison are delegated to
// github.com/Masterminds/semver, which already implements the exact
// major/minor/patch/prerelease precedence rules spec §8 requires; this
// package adds the wildcard value the spec's version tuple carries (which
// semver.Version has no notion of) and the caret/tilde evaluation rules as
// spec.md defines them, which differ slightly from semver's own `^`/`~` at
// the 0.x boundary.
package version

import (
	"fmt"

	"github.com/Masterminds/semver"
)

// Version is an immutable value: either a concrete (major, minor, patch,
// prerelease, build) tuple, or the wildcard sentinel, which sorts above
// any concrete version per spec §3.
type Version struct {
	wildcard bool
	sv       *semver.Version
	raw      string
}

// Wildcard is the single wildcard value. It compares greater than every
// concrete version, so besides '*' it satisfies '>', '>=', '^' and '~'
// constraints and no '<', '<=' or exact constraint on a concrete version.
var Wildcard = Version{wildcard: true, raw: "*"}

// ParseError reports a version string that failed to parse. Segment is
// "major" for empty input and "format" for every other failure; the
// individual major/minor/patch/prerelease/build segment is not identified.
type ParseError struct {
	Input   string
	Segment string
	Cause   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid version %q: bad %s segment: %s", e.Input, e.Segment, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Parse accepts "major.minor.patch(-prerelease)?(+build)?", the wildcard
// "*", or the alias "latest".
func Parse(in string) (Version, error) {
	if in == "*" || in == "latest" {
		return Wildcard, nil
	}
	sv, err := semver.NewVersion(in)
	if err != nil {
		return Version{}, &ParseError{Input: in, Segment: classifySegmentError(in, err), Cause: err}
	}
	return Version{sv: sv, raw: in}, nil
}

// MustParse is Parse, panicking on error; reserved for literal constants
// in tests and built-in data.
func MustParse(in string) Version {
	v, err := Parse(in)
	if err != nil {
		panic(err)
	}
	return v
}

func classifySegmentError(in string, _ error) string {
	// semver.NewVersion returns one opaque error for the whole string;
	// the empty-input case is the only segment we can name with
	// confidence without re-implementing its regex.
	if len(in) == 0 {
		return "major"
	}
	return "format"
}

func (v Version) IsWildcard() bool { return v.wildcard }

func (v Version) String() string {
	if v.wildcard {
		return "*"
	}
	return v.sv.String()
}

func (v Version) Major() int64 {
	if v.wildcard {
		return -1
	}
	return v.sv.Major()
}

func (v Version) Minor() int64 {
	if v.wildcard {
		return -1
	}
	return v.sv.Minor()
}

func (v Version) Patch() int64 {
	if v.wildcard {
		return -1
	}
	return v.sv.Patch()
}

func (v Version) Prerelease() string {
	if v.wildcard {
		return ""
	}
	return v.sv.Prerelease()
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater
// than o. The wildcard sorts above every concrete version; two wildcards
// are equal.
func (v Version) Compare(o Version) int {
	switch {
	case v.wildcard && o.wildcard:
		return 0
	case v.wildcard:
		return 1
	case o.wildcard:
		return -1
	default:
		return v.sv.Compare(o.sv)
	}
}

func (v Version) LessThan(o Version) bool    { return v.Compare(o) < 0 }
func (v Version) GreaterThan(o Version) bool { return v.Compare(o) > 0 }
func (v Version) Equal(o Version) bool       { return v.Compare(o) == 0 }

