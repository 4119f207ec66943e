// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import (
	"fmt"
	"regexp"
	"sort"
)

// rewriteMapping applies the Document Rewriter (spec.md §4.5) to document
// in the fixed order mandated there: normalize field names, idmap
// desugaring, type-DSL, identifier resolution, identity-link resolution,
// url-field expansion. It returns the base URL the caller should use when
// recursing into document's values (advanced by identifier resolution).
func (l *Loader) rewriteMapping(document *Mapping, base URL) (URL, error) {
	l.normalizeFieldNames(document)
	if err := l.resolveIdmap(document); err != nil {
		return base, err
	}
	l.resolveTypeDSL(document)
	newBase, err := l.resolveIdentifier(document, base)
	if err != nil {
		return base, err
	}
	l.resolveIdentity(document, newBase)
	l.resolveURLFields(document, newBase)
	return newBase, nil
}

// normalizeFieldNames replaces each key with its vocabulary-compacted
// expansion (spec.md §4.5 step 1), grounded on
// original_source/ref_resolver.py's _normalize_fields.
func (l *Loader) normalizeFieldNames(document *Mapping) {
	for _, k := range document.Keys() {
		k2 := l.context.ExpandURL(k, URL{}, ExpandFlags{VocabTerm: true})
		if k2 == k {
			continue
		}
		v, _ := document.Get(k)
		document.Set(k2, v)
		document.Delete(k)
	}
}

// resolveIdmap desugars each present idmapField (spec.md §4.5 step 2),
// grounded on original_source/ref_resolver.py's _resolve_idmap. Keys are
// visited in lexicographic order, the one place in the Rewriter where
// order is not plain insertion order.
func (l *Loader) resolveIdmap(document *Mapping) error {
	for idmapField, subjectKey := range l.context.idmap {
		value, ok := document.Get(idmapField)
		if !ok || value.Kind() != KindMapping {
			continue
		}
		inner := value.Mapping()
		if inner.Has("$import") || inner.Has("$include") {
			continue
		}

		keys := inner.Keys()
		sort.Strings(keys)
		list := make([]Node, 0, len(keys))
		for _, k := range keys {
			v, _ := inner.Get(k)
			var vm *Mapping
			if v.Kind() == KindMapping {
				vm = v.Mapping()
			} else if predicate, ok := l.context.mapPredicate[idmapField]; ok {
				vm = NewMapping()
				vm.Set(predicate, v)
			} else {
				return fmt.Errorf("%w: mapSubject %q value %q is not a mapping and %q has no mapPredicate",
					ErrDirectiveMisuse, idmapField, k, idmapField)
			}
			vm.Set(subjectKey, NewString(k))
			list = append(list, NewMappingNode(vm))
		}
		document.Set(idmapField, NewSequenceNode(list))
	}
	return nil
}

var typeDSLPattern = regexp.MustCompile(`^([^\[?]+)(\[\])?(\?)?$`)

// typeDSLOne rewrites a single type-DSL string per spec.md §4.5 step 3.
func typeDSLOne(t string) Node {
	m := typeDSLPattern.FindStringSubmatch(t)
	if m == nil {
		return NewString(t)
	}
	first := m[1]
	var inner Node = NewString(first)
	if m[2] != "" {
		arr := NewMapping()
		arr.Set("type", NewString("array"))
		arr.Set("items", NewString(first))
		inner = NewMappingNode(arr)
	}
	if m[3] != "" {
		return NewSequenceNode([]Node{NewString("null"), inner})
	}
	return inner
}

// resolveTypeDSL rewrites every present type_dsl_fields entry (spec.md
// §4.5 step 3), grounded on original_source/ref_resolver.py's
// _type_dsl/_resolve_type_dsl: string values rewrite directly; list
// values rewrite element-wise, then flatten one level and deduplicate,
// preserving first-seen order.
func (l *Loader) resolveTypeDSL(document *Mapping) {
	for _, field := range l.context.typeDSLFields.Items() {
		datum, ok := document.Get(field)
		if !ok {
			continue
		}
		switch datum.Kind() {
		case KindScalar:
			if s, ok := datum.AsString(); ok {
				document.Set(field, typeDSLOne(s))
			}
		case KindSequence:
			seq := datum.Seq()
			rewritten := make([]Node, seq.Len())
			for i := 0; i < seq.Len(); i++ {
				item := seq.At(i)
				if s, ok := item.AsString(); ok {
					rewritten[i] = typeDSLOne(s)
				} else {
					rewritten[i] = item
				}
			}
			flat := make([]Node, 0, len(rewritten))
			for _, item := range rewritten {
				if item.Kind() == KindSequence {
					flat = append(flat, item.Seq().Items()...)
				} else {
					flat = append(flat, item)
				}
			}
			seen := map[string]struct{}{}
			uniq := make([]Node, 0, len(flat))
			for _, item := range flat {
				key := item.dedupKey()
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				uniq = append(uniq, item)
			}
			document.Set(field, NewSequenceNode(uniq))
		}
	}
}

// resolveIdentifier expands and scopes every present identifier field
// (spec.md §4.5 step 4), grounded on
// original_source/ref_resolver.py's _resolve_identifier. Returns the base
// URL advanced to the last identifier expanded, since spec.md §3's
// identifiers set is ordered and "first match wins" elsewhere implies a
// single effective identifier per node in practice.
func (l *Loader) resolveIdentifier(document *Mapping, base URL) (URL, error) {
	for _, identifier := range l.context.identifiers.Items() {
		value, ok := document.Get(identifier)
		if !ok {
			continue
		}
		s, isString := value.AsString()
		if !isString {
			return base, fmt.Errorf("%w: identifier field %q must be a string", ErrDirectiveMisuse, identifier)
		}
		expanded := l.context.ExpandURL(s, base, ExpandFlags{ScopedID: true})
		document.Set(identifier, NewString(expanded))
		if !l.index.Has(expanded) || l.index.IsPlaceholder(expanded) {
			l.index.Put(expanded, NewMappingNode(document))
		}
		if nb, err := ParseURL(expanded); err == nil {
			base = nb
		}
	}
	return base, nil
}

// resolveIdentity expands every identity-link field's list-of-strings
// values (spec.md §4.5 step 5), grounded on
// original_source/ref_resolver.py's _resolve_identity.
func (l *Loader) resolveIdentity(document *Mapping, base URL) {
	for _, identifier := range l.context.identityLinks.Items() {
		value, ok := document.Get(identifier)
		if !ok || value.Kind() != KindSequence {
			continue
		}
		seq := value.Seq()
		for i := 0; i < seq.Len(); i++ {
			s, isString := seq.At(i).AsString()
			if !isString {
				continue
			}
			expanded := l.context.ExpandURL(s, base, ExpandFlags{ScopedID: true})
			seq.Set(i, NewString(expanded))
			if !l.index.Has(expanded) {
				l.index.Put(expanded, expanded)
			}
		}
	}
}

// resolveURLFields expands every present url_field's value(s) against
// base (spec.md §4.5 step 6), grounded on
// original_source/ref_resolver.py's _resolve_uris.
func (l *Loader) resolveURLFields(document *Mapping, base URL) {
	for _, field := range l.context.urlFields.Items() {
		value, ok := document.Get(field)
		if !ok {
			continue
		}
		vocabTerm := l.context.vocabFields.Has(field)
		var scopedRef *int
		if depth, ok := l.context.scopedRefFields[field]; ok {
			d := depth
			scopedRef = &d
		}
		flags := ExpandFlags{VocabTerm: vocabTerm, ScopedRef: scopedRef}

		switch value.Kind() {
		case KindScalar:
			if s, ok := value.AsString(); ok {
				document.Set(field, NewString(l.context.ExpandURL(s, base, flags)))
			}
		case KindSequence:
			seq := value.Seq()
			for i := 0; i < seq.Len(); i++ {
				if s, ok := seq.At(i).AsString(); ok {
					seq.Set(i, NewString(l.context.ExpandURL(s, base, flags)))
				}
			}
		}
	}
}
