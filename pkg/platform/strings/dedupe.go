// Package strings provides small helpers for slices of URL paths and tokens.
package strings

import (
	"strings"
)

// DedupeAndTrim drops empty entries and repeats, trimming whitespace from each
// element. The first occurrence wins, so order is preserved.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Contains reports whether target is present after trimming both sides.
func Contains(values []string, target string) bool {
	target = strings.TrimSpace(target)
	for _, v := range values {
		if strings.TrimSpace(v) == target {
			return true
		}
	}
	return false
}

// TrimPath removes leading and trailing slashes and whitespace from a URL path.
func TrimPath(p string) string {
	return strings.Trim(strings.TrimSpace(p), "/")
}
