// Package version orders dotted major.minor.patch identifiers.
//
// Parsing is lenient: missing or non-numeric segments read as 0 and the
// empty string is 0.0.0, so Parse never fails. Use ParseStrict when input
// must be exactly three non-negative numeric segments.
package version

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Tuple is a parsed version identifier.
type Tuple struct {
	Major int
	Minor int
	Patch int
}

// Zero is 0.0.0, the version assumed for untagged data.
var Zero = Tuple{}

// Parse splits s on '.' and reads the first three segments.
func Parse(s string) Tuple {
	parts := strings.Split(s, ".")
	var t Tuple
	t.Major = segment(parts, 0)
	t.Minor = segment(parts, 1)
	t.Patch = segment(parts, 2)
	return t
}

func segment(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseStrict parses s as exactly three non-negative integers.
func ParseStrict(s string) (Tuple, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return Tuple{}, fmt.Errorf("version: invalid identifier %q", s)
	}
	var out [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Tuple{}, fmt.Errorf("version: invalid identifier %q", s)
		}
		out[i] = n
	}
	return Tuple{Major: out[0], Minor: out[1], Patch: out[2]}, nil
}

// Major returns the major component of s.
func Major(s string) int { return Parse(s).Major }

// Minor returns the minor component of s.
func Minor(s string) int { return Parse(s).Minor }

// Patch returns the patch component of s.
func Patch(s string) int { return Parse(s).Patch }

// Diff returns the componentwise difference a - b.
func Diff(a, b string) [3]int { return Parse(a).Diff(Parse(b)) }

// Compare returns -1, 0 or 1 as a is less than, equal to or greater than b.
func Compare(a, b string) int { return Parse(a).Compare(Parse(b)) }

// GreaterThan reports whether a orders after b.
func GreaterThan(a, b string) bool { return Compare(a, b) > 0 }

// LessThan reports whether a orders before b.
func LessThan(a, b string) bool { return Compare(a, b) < 0 }

// Equals reports whether a and b denote the same version.
func Equals(a, b string) bool { return Compare(a, b) == 0 }

// Diff returns the componentwise difference t - o.
func (t Tuple) Diff(o Tuple) [3]int {
	return [3]int{t.Major - o.Major, t.Minor - o.Minor, t.Patch - o.Patch}
}

// Compare orders tuples lexicographically: the first non-zero component of
// the difference decides, so 0.1.0 orders after 0.0.99.
func (t Tuple) Compare(o Tuple) int {
	for _, d := range t.Diff(o) {
		if d != 0 {
			return cmp.Compare(d, 0)
		}
	}
	return 0
}

// Less reports whether t orders before o.
func (t Tuple) Less(o Tuple) bool { return t.Compare(o) < 0 }

func (t Tuple) String() string {
	return strconv.Itoa(t.Major) + "." + strconv.Itoa(t.Minor) + "." + strconv.Itoa(t.Patch)
}

// Sort orders ts ascending in place.
func Sort(ts []Tuple) {
	slices.SortFunc(ts, Tuple.Compare)
}
