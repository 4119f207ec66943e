// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind tags the three variants a Node can hold.
type Kind uint8

const (
	KindScalar Kind = iota
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Node is the tagged Scalar|Sequence|Mapping variant of spec.md §3. A
// Mapping- or Sequence-kind Node carries a pointer to its backing storage,
// so copying a Node (by value, as Go idiom favors) never detaches it from
// aliases already held elsewhere — the Index, a parent mapping's value
// slot — the same way the Python original relies on in-place dict/list
// mutation to keep every alias of a document in sync.
type Node struct {
	kind    Kind
	scalar  any // string | float64 | bool | nil
	seq     *Sequence
	mapping *Mapping
}

// NewNull returns the null scalar.
func NewNull() Node { return Node{kind: KindScalar, scalar: nil} }

// NewString returns a string scalar.
func NewString(s string) Node { return Node{kind: KindScalar, scalar: s} }

// NewBool returns a bool scalar.
func NewBool(b bool) Node { return Node{kind: KindScalar, scalar: b} }

// NewNumber returns a float64 scalar.
func NewNumber(f float64) Node { return Node{kind: KindScalar, scalar: f} }

// NewMappingNode wraps an existing Mapping.
func NewMappingNode(m *Mapping) Node { return Node{kind: KindMapping, mapping: m} }

// NewSequenceNode wraps a slice of Nodes as a Sequence.
func NewSequenceNode(items []Node) Node {
	return Node{kind: KindSequence, seq: &Sequence{items: items}}
}

func (n Node) Kind() Kind { return n.kind }

// AsString reports whether n is a string scalar and returns its value.
func (n Node) AsString() (string, bool) {
	if n.kind != KindScalar {
		return "", false
	}
	s, ok := n.scalar.(string)
	return s, ok
}

// Scalar returns the raw scalar value (string, float64, bool, or nil) and
// whether n is in fact a scalar.
func (n Node) Scalar() (any, bool) {
	if n.kind != KindScalar {
		return nil, false
	}
	return n.scalar, true
}

// Mapping returns the backing Mapping; nil if n is not a Mapping node.
func (n Node) Mapping() *Mapping { return n.mapping }

// Seq returns the backing Sequence; nil if n is not a Sequence node.
func (n Node) Seq() *Sequence { return n.seq }

// DeepClone copies n and, recursively, every Mapping/Sequence it contains,
// so mutating the clone never reaches the original — used by the mixin
// overlay (resolve.go), which must not corrupt the cached document it
// overlays onto.
func (n Node) DeepClone() Node {
	switch n.kind {
	case KindMapping:
		return Node{kind: KindMapping, mapping: n.mapping.deepClone()}
	case KindSequence:
		items := make([]Node, n.seq.Len())
		for i, item := range n.seq.items {
			items[i] = item.DeepClone()
		}
		return Node{kind: KindSequence, seq: &Sequence{items: items}}
	default:
		return n
	}
}

// dedupKey is a stable string used to compare Nodes for first-seen
// deduplication (type-DSL list rewriting, spec.md §4.5 step 3).
func (n Node) dedupKey() string {
	b, err := json.Marshal(n)
	if err != nil {
		return fmt.Sprintf("%v", n.scalar)
	}
	return string(b)
}

// MarshalJSON writes n in a form that preserves Mapping insertion order,
// which encoding/json's native map handling cannot do — grounded on
// properties.go's OrderSchemaItems.MarshalJSON, which manually assembles
// ordered JSON object bytes for the same reason.
func (n Node) MarshalJSON() ([]byte, error) {
	switch n.kind {
	case KindScalar:
		return json.Marshal(n.scalar)
	case KindSequence:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range n.seq.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindMapping:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, key := range n.mapping.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(key)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			val := n.mapping.vals[key]
			vb, err := val.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return []byte("null"), nil
	}
}

// Mapping is an insertion-order-preserving string-keyed map, the
// generalization of properties.go's SchemaProperties/OrderSchemaItems
// pairing from "sorted by x-order" to "sorted by first insertion", per
// spec.md §3.
type Mapping struct {
	keys []string
	vals map[string]Node
}

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{vals: map[string]Node{}}
}

// Get returns the value stored for key, if present.
func (m *Mapping) Get(key string) (Node, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.vals[key]
	return ok
}

// Set assigns value to key, appending key to the insertion order if it is
// new, or updating in place if it already exists.
func (m *Mapping) Set(key string, value Node) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = value
}

// Delete removes key, preserving the relative order of the rest.
func (m *Mapping) Delete(key string) {
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The returned slice is owned
// by the caller.
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len reports the number of entries.
func (m *Mapping) Len() int { return len(m.keys) }

// Range calls fn for every entry in insertion order.
func (m *Mapping) Range(fn func(key string, value Node)) {
	for _, k := range m.keys {
		fn(k, m.vals[k])
	}
}

// Clone returns a shallow copy: a new Mapping with the same keys in the
// same order, but Mapping/Sequence-kind values still aliasing their
// original backing storage. This matches the Python original's
// _copy_dict_without_key, used where the caller only needs an independent
// top-level map (e.g. splitting $graph metadata from its body) and never
// mutates nested structure differently between the two.
func (m *Mapping) Clone() *Mapping {
	out := NewMapping()
	for _, k := range m.keys {
		out.Set(k, m.vals[k])
	}
	return out
}

// CloneWithout returns a shallow Clone with key removed.
func (m *Mapping) CloneWithout(key string) *Mapping {
	out := m.Clone()
	out.Delete(key)
	return out
}

func (m *Mapping) deepClone() *Mapping {
	out := NewMapping()
	for _, k := range m.keys {
		out.Set(k, m.vals[k].DeepClone())
	}
	return out
}

// Sequence is an ordered list of Nodes, kept behind a pointer so in-place
// splicing (resolve.go's $import/$mixin list expansion) is visible to
// every alias of the containing document.
type Sequence struct {
	items []Node
}

// Len reports the number of elements.
func (s *Sequence) Len() int { return len(s.items) }

// At returns the element at i.
func (s *Sequence) At(i int) Node { return s.items[i] }

// Set replaces the element at i.
func (s *Sequence) Set(i int, v Node) { s.items[i] = v }

// Items returns the backing slice. Callers must not retain it across a
// Splice on the same Sequence.
func (s *Sequence) Items() []Node { return s.items }

// Splice replaces the single element at i with the elements of repl.
func (s *Sequence) Splice(i int, repl []Node) {
	out := make([]Node, 0, len(s.items)-1+len(repl))
	out = append(out, s.items[:i]...)
	out = append(out, repl...)
	out = append(out, s.items[i+1:]...)
	s.items = out
}
