// Package version provides parsing, ordering and range predicates for
// platform version strings of the form MAJOR.MINOR.PATCH with an optional
// -dev prerelease suffix (e.g. "0.71.0-dev", "v1.4.2").
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// DevSuffix marks a prerelease build. For equal (major, minor, patch)
// a -dev version orders strictly before the corresponding release.
const DevSuffix = "-dev"

// Version is an immutable, totally ordered platform version.
type Version struct {
	Major int
	Minor int
	Patch int

	// Dev is true for prerelease builds carrying the -dev suffix.
	Dev bool
}

// ParseError reports a malformed version string. Parsing never guesses:
// any input that does not match MAJOR.MINOR.PATCH[-dev] fails.
type ParseError struct {
	Input  string
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid version %q: %s", e.Input, e.Reason)
}

// Parse parses a version string. A single leading "v" is accepted and
// discarded; it is not preserved by String.
func Parse(s string) (Version, error) {
	raw := s
	s = strings.TrimPrefix(s, "v")

	var v Version
	if rest, ok := strings.CutSuffix(s, DevSuffix); ok {
		v.Dev = true
		s = rest
	}

	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, &ParseError{Input: raw, Reason: "expected MAJOR.MINOR.PATCH"}
	}

	nums := make([]int, 3)
	for i, part := range parts {
		if !isDigits(part) {
			return Version{}, &ParseError{Input: raw, Reason: fmt.Sprintf("component %q is not a valid number", part)}
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, &ParseError{Input: raw, Reason: fmt.Sprintf("component %q is not a valid number", part)}
		}
		nums[i] = n
	}

	v.Major, v.Minor, v.Patch = nums[0], nums[1], nums[2]
	return v, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// MustParse parses a version string and panics on failure. Intended for
// literals in tests and check gating, never for external input.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the canonical form of the version.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Dev {
		s += DevSuffix
	}
	return s
}

// Compare returns -1, 0 or +1 if v orders before, equal to or after o.
// Ordering is lexicographic on (major, minor, patch); for equal triples
// the -dev prerelease orders before the release.
func (v Version) Compare(o Version) int {
	for _, d := range []int{v.Major - o.Major, v.Minor - o.Minor, v.Patch - o.Patch} {
		if d < 0 {
			return -1
		}
		if d > 0 {
			return 1
		}
	}
	if v.Dev == o.Dev {
		return 0
	}
	if v.Dev {
		return -1
	}
	return 1
}

// Less reports whether v orders strictly before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// AtLeast reports whether v orders at or after o.
func (v Version) AtLeast(o Version) bool {
	return v.Compare(o) >= 0
}

// Equal reports whether v and o are the same version.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

// Bound is one end of a Range.
type Bound struct {
	Version   Version
	Inclusive bool
}

// Range is a predicate over versions built from optional lower and upper
// bounds. Each configured bound is evaluated independently and the
// results are ANDed; a Range with no bounds contains every version.
type Range struct {
	Min *Bound
	Max *Bound
}

// Contains reports whether v satisfies both bounds of the range.
func (r Range) Contains(v Version) bool {
	if r.Min != nil {
		c := v.Compare(r.Min.Version)
		if c < 0 || (c == 0 && !r.Min.Inclusive) {
			return false
		}
	}
	if r.Max != nil {
		c := v.Compare(r.Max.Version)
		if c > 0 || (c == 0 && !r.Max.Inclusive) {
			return false
		}
	}
	return true
}

// AtLeastRange returns a range containing min and everything after it.
func AtLeastRange(min Version) Range {
	return Range{Min: &Bound{Version: min, Inclusive: true}}
}

// BelowRange returns a range containing everything strictly before max.
func BelowRange(max Version) Range {
	return Range{Max: &Bound{Version: max, Inclusive: false}}
}

// BetweenInclusive returns a range containing min, max and everything
// between them.
func BetweenInclusive(min, max Version) Range {
	return Range{
		Min: &Bound{Version: min, Inclusive: true},
		Max: &Bound{Version: max, Inclusive: true},
	}
}
