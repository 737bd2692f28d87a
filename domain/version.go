// Package domain defines the core entities of the coordinator control plane.
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a semantic version triple. Zero value is 0.0.0.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a "M.m.p" string into a Version. The string must have
// exactly three dot-separated non-negative integer parts.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: version %q must have exactly 3 parts", ErrInvalidInput, s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: version %q has non-numeric or negative part %q", ErrInvalidInput, s, p)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String renders the version as "M.m.p".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than other.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return sign(v.Major - other.Major)
	}
	if v.Minor != other.Minor {
		return sign(v.Minor - other.Minor)
	}
	return sign(v.Patch - other.Patch)
}

// LessThan reports whether v sorts strictly before other.
func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

// GreaterThan reports whether v sorts strictly after other.
func (v Version) GreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
