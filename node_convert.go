// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

// nodeToStringMap converts a Mapping-kind Node of string values into a
// plain Go map, used for $namespaces (spec.md §4.6).
func nodeToStringMap(n Node) map[string]string {
	out := map[string]string{}
	if n.Kind() != KindMapping {
		return out
	}
	n.Mapping().Range(func(key string, value Node) {
		if s, ok := value.AsString(); ok {
			out[key] = s
		}
	})
	return out
}

// nodeToStringSlice converts a Sequence-kind Node of string scalars into
// a plain Go slice, used for $schemas (spec.md §4.6). A lone scalar
// string is also accepted as a single-element list, matching the
// original's tolerance for either shape.
func nodeToStringSlice(n Node) []string {
	switch n.Kind() {
	case KindSequence:
		out := make([]string, 0, n.Seq().Len())
		for i := 0; i < n.Seq().Len(); i++ {
			if s, ok := n.Seq().At(i).AsString(); ok {
				out = append(out, s)
			}
		}
		return out
	case KindScalar:
		if s, ok := n.AsString(); ok {
			return []string{s}
		}
	}
	return nil
}
