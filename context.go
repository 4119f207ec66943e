// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import "fmt"

// Context is the compiled form of a JSON-LD-like @context document
// (spec.md §3): field classifications, the vocabulary prefix table, and
// the foreign-property set populated from RDF schemas. It is immutable
// once built — add_context rejects any call once the vocabulary is
// non-empty, the same guard
// original_source/ref_resolver.py's Loader.add_context raises on reentry.
type Context struct {
	vocab  map[string]string
	rvocab map[string]string

	identifiers     *orderedSet
	urlFields       *orderedSet
	vocabFields     *orderedSet
	identityLinks   *orderedSet
	nolinkcheck     *orderedSet
	typeDSLFields   *orderedSet
	scopedRefFields map[string]int
	idmap           map[string]string
	mapPredicate    map[string]string

	// foreignProperties is shared across sub-loaders (spec.md §4.8), so it
	// is a pointer handed down at construction rather than copied.
	foreignProperties *orderedSet
}

// NewContext returns an empty, unbuilt Context with its own foreign
// property set.
func NewContext() *Context {
	return &Context{
		vocab:             map[string]string{},
		rvocab:            map[string]string{},
		identifiers:       newOrderedSet(),
		urlFields:         newOrderedSet(),
		vocabFields:       newOrderedSet(),
		identityLinks:     newOrderedSet(),
		nolinkcheck:       newOrderedSet(),
		typeDSLFields:     newOrderedSet(),
		scopedRefFields:   map[string]int{},
		idmap:             map[string]string{},
		mapPredicate:      map[string]string{},
		foreignProperties: newOrderedSet(),
	}
}

// sharingForeignProperties returns an empty Context that shares the given
// foreign-property set instead of starting its own, used by SubLoader.
func sharingForeignProperties(shared *orderedSet) *Context {
	c := NewContext()
	c.foreignProperties = shared
	return c
}

// built reports whether add_context has ever populated the vocabulary.
func (c *Context) built() bool { return len(c.vocab) > 0 }

// AddContext compiles an @context mapping into c (spec.md §4.3),
// translated field-for-field from original_source/ref_resolver.py's
// Loader.add_context.
func (c *Context) AddContext(newContext Node, baseURI URL) error {
	if c.built() {
		return fmt.Errorf("%w: a context cannot be rebuilt once populated", ErrContextRebuild)
	}
	if newContext.Kind() != KindMapping {
		return fmt.Errorf("%w: @context document must be a mapping", ErrSyntax)
	}

	src := newContext.Mapping()
	for _, key := range src.Keys() {
		if key == "@context" {
			continue
		}
		value, _ := src.Get(key)

		switch {
		case isExactString(value, "@id"):
			c.identifiers.Add(key)
			c.identityLinks.Add(key)
		case isTypeMapping(value, "@id"):
			c.urlFields.Add(key)
			if depth, ok := fieldInt(value.Mapping(), "refScope"); ok {
				c.scopedRefFields[key] = depth
			}
			if fieldBool(value.Mapping(), "identity") {
				c.identityLinks.Add(key)
			}
		case isTypeMapping(value, "@vocab"):
			c.urlFields.Add(key)
			c.vocabFields.Add(key)
			if depth, ok := fieldInt(value.Mapping(), "refScope"); ok {
				c.scopedRefFields[key] = depth
			}
			if fieldBool(value.Mapping(), "typeDSL") {
				c.typeDSLFields.Add(key)
			}
		}

		if value.Kind() == KindMapping {
			m := value.Mapping()
			if fieldBool(m, "noLinkCheck") {
				c.nolinkcheck.Add(key)
			}
			if s, ok := fieldStringOK(m, "mapSubject"); ok {
				c.idmap[key] = s
			}
			if s, ok := fieldStringOK(m, "mapPredicate"); ok {
				c.mapPredicate[key] = s
			}
			if s, ok := fieldStringOK(m, "@id"); ok {
				c.vocab[key] = s
			}
		} else if s, ok := value.AsString(); ok {
			c.vocab[key] = s
		}
	}

	for k, v := range c.vocab {
		expanded := c.ExpandURL(v, URL{}, ExpandFlags{})
		c.rvocab[expanded] = k
	}
	return nil
}

func isExactString(n Node, s string) bool {
	v, ok := n.AsString()
	return ok && v == s
}

func isTypeMapping(n Node, typ string) bool {
	if n.Kind() != KindMapping {
		return false
	}
	return isExactString(mustField(n.Mapping(), "@type"), typ)
}

func mustField(m *Mapping, key string) Node {
	v, ok := m.Get(key)
	if !ok {
		return Node{}
	}
	return v
}

func fieldBool(m *Mapping, key string) bool {
	v, ok := m.Get(key)
	if !ok {
		return false
	}
	b, _ := v.Scalar()
	bv, _ := b.(bool)
	return bv
}

func fieldInt(m *Mapping, key string) (int, bool) {
	v, ok := m.Get(key)
	if !ok {
		return 0, false
	}
	s, _ := v.Scalar()
	switch t := s.(type) {
	case float64:
		return int(t), true
	case string:
		var n int
		if _, err := fmt.Sscanf(t, "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

func fieldStringOK(m *Mapping, key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	return v.AsString()
}
