// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import "net/url"

// Index is the Normalizing Index of spec.md §4.2: a URL-keyed store whose
// keys are compared after canonicalization (parse-then-reassemble),
// generalized from normalizer.go's normalizeAbsPath (which does the same
// thing for a single-purpose path cache key).
//
// Values are either a Node (a fully fetched/resolved document or
// sub-document) or a bare string (a placeholder marking that the key
// exists — used for forward references, RDF-graph subjects, and
// identity-link targets before their owning node is available).
type Index struct {
	values map[string]any
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{values: map[string]any{}}
}

func normalizeKey(key string) string {
	u, err := url.Parse(key)
	if err != nil {
		return key
	}
	return u.String()
}

// Get returns the normalized entry for key, if any.
func (idx *Index) Get(key string) (any, bool) {
	v, ok := idx.values[normalizeKey(key)]
	return v, ok
}

// GetNode returns the entry for key only if it is a resolved Node (as
// opposed to a placeholder string).
func (idx *Index) GetNode(key string) (Node, bool) {
	v, ok := idx.Get(key)
	if !ok {
		return Node{}, false
	}
	n, ok := v.(Node)
	return n, ok
}

// Has reports whether key is present, placeholder or not.
func (idx *Index) Has(key string) bool {
	_, ok := idx.values[normalizeKey(key)]
	return ok
}

// IsPlaceholder reports whether key is present but not yet a full Node.
func (idx *Index) IsPlaceholder(key string) bool {
	v, ok := idx.values[normalizeKey(key)]
	if !ok {
		return false
	}
	_, isNode := v.(Node)
	return !isNode
}

// Put inserts or overwrites the entry for key.
func (idx *Index) Put(key string, value any) {
	idx.values[normalizeKey(key)] = value
}

// Delete removes key. The Index is otherwise monotonic (spec.md §3's
// lifecycle invariant); this exists only for test fixtures.
func (idx *Index) Delete(key string) {
	delete(idx.values, normalizeKey(key))
}

// Keys returns every normalized key currently stored, in no particular
// order (Go map iteration order is intentionally not relied upon
// anywhere in this package; callers needing determinism should sort).
func (idx *Index) Keys() []string {
	out := make([]string, 0, len(idx.values))
	for k := range idx.values {
		out = append(out, k)
	}
	return out
}
