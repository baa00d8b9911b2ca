// Package update checks GitHub releases for a newer murmur binary and
// swaps it in place.
package update

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	Repo       = "murmur-dictation/murmur"
	BinaryName = "murmur"
)

type Release struct {
	Version     string
	AssetURL    string
	ChecksumURL string
}

// parseVersion reads "v1.2.3" (pre-release/build suffixes ignored)
// into comparable parts.
func parseVersion(v string) ([3]int, error) {
	var out [3]int
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return out, fmt.Errorf("invalid version: %q", v)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return out, fmt.Errorf("invalid version: %q", v)
		}
		out[i] = n
	}
	return out, nil
}

func (r Release) NewerThan(current string) bool {
	cur, err := parseVersion(current)
	if err != nil {
		return false
	}
	rel, err := parseVersion(r.Version)
	if err != nil {
		return false
	}
	for i := range rel {
		if rel[i] != cur[i] {
			return rel[i] > cur[i]
		}
	}
	return false
}
