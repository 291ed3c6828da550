// Package filter provides pure transformations over string-keyed data
// mappings. These are the building blocks used by the CRUD facade to
// sanitize caller-supplied input before it is imported into a bean.
package filter

import "strconv"

// IsAssociative reports whether the mapping has at least one named
// (non-numeric) key. Mappings whose keys all parse as base-10 integers
// are list-like input coerced into a map and are rejected by the CRUD
// facade.
//
// An empty mapping is not associative.
func IsAssociative(m map[string]any) bool {
	for k := range m {
		if _, err := strconv.Atoi(k); err != nil {
			return true
		}
	}
	return false
}

// Strip returns the sub-mapping of m containing only entries whose key
// appears in keys. Keys absent from m are silently skipped. The input
// mapping is never mutated.
func Strip(m map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Exclude returns the complement of Strip: all entries of m whose key
// does NOT appear in keys. The input mapping is never mutated.
func Exclude(m map[string]any, keys ...string) map[string]any {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		if _, skip := drop[k]; !skip {
			out[k] = v
		}
	}
	return out
}
