package domain

// Relationship arrays (a user's recipes, a recipe's reviews, a collection's
// recipes) hold each id at most once. Every write goes through AddRef, or
// checks HasRef first, so a referenced document is listed once per parent.

import "slices"

// HasRef reports whether id is in refs.
func HasRef(refs []string, id string) bool {
	return slices.Contains(refs, id)
}

// AddRef appends id to refs unless already present.
func AddRef(refs []string, id string) []string {
	if HasRef(refs, id) {
		return refs
	}
	return append(refs, id)
}

// RemoveRef returns refs without any occurrence of id.
func RemoveRef(refs []string, id string) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r != id {
			out = append(out, r)
		}
	}
	return out
}
