// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import (
	"fmt"
	"net/url"
	"os"
)

// AddNamespaces augments the Loader's compiled Context vocabulary,
// mirroring original_source/ref_resolver.py's Loader.add_namespaces.
func (l *Loader) AddNamespaces(ns map[string]string) error {
	l.context.AddNamespaces(ns)
	return nil
}

// AddSchemas registers RDF schemas (spec.md §4.3/§6): each URL is
// resolved against base, fetched, and parsed by the first configured
// TripleSource that succeeds; a URL whose text fails every TripleSource
// is silently ignored, per spec.md §6's "errors during one format
// silently fall through ... if all fail the schema is ignored".
// Afterward every property-shaped triple in the shared Graph is
// (re-)classified into this Context's url_fields/foreign_properties.
func (l *Loader) AddSchemas(urls []string, base string) error {
	if len(urls) == 0 {
		return nil
	}
	baseURL, err := ParseURL(base)
	if err != nil {
		baseURL = URL{}
	}
	for _, raw := range urls {
		resolved := joinURL(baseURL, raw)
		text, err := l.FetchText(resolved)
		if err != nil {
			l.debugf("add_schemas: skipping %s: %s", resolved, err)
			continue
		}
		for _, src := range l.tripleSources {
			triples, perr := src.Triples(text, baseURL)
			if perr == nil {
				l.graph.Add(triples)
				break
			}
			l.debugf("add_schemas: %s: triple source failed: %s", resolved, perr)
		}
	}
	l.context.classifyForeignProperties(l.graph, l.index)
	return nil
}

// ResolveRef implements resolve_ref (spec.md §4.6): resolves an $import/
// $include/$mixin directive, an inline object located by its identifier
// field, or a bare reference string, against base (defaulting to
// file://<cwd>/ per spec.md §6).
func (l *Loader) ResolveRef(ref Node, base *URL, checkLinks bool) (Node, Node, error) {
	b := defaultBaseURL()
	if base != nil {
		b = *base
	}
	return l.resolveRefNode(ref, b, checkLinks)
}

// ResolveAll implements resolve_all (spec.md §4.6) directly, for callers
// that already hold a raw document tree rather than a $import-shaped ref.
func (l *Loader) ResolveAll(doc Node, base *URL, fileBase *URL, checkLinks bool) (Node, Node, error) {
	b := defaultBaseURL()
	if base != nil {
		b = *base
	}
	fb := b
	if fileBase != nil {
		fb = *fileBase
	}
	return l.resolveAllNode(doc, b, fb, checkLinks)
}

func (l *Loader) resolveRefNode(ref Node, baseURL URL, checkLinks bool) (Node, Node, error) {
	var obj *Mapping
	var mixin *Mapping
	isInclude := false
	refStr := ""

	switch ref.Kind() {
	case KindMapping:
		m := ref.Mapping()
		switch {
		case m.Has("$import"):
			if m.Len() != 1 {
				return Node{}, Node{}, fmt.Errorf("%w: $import must be the only field in %v", ErrDirectiveMisuse, m.Keys())
			}
			v, _ := m.Get("$import")
			s, ok := v.AsString()
			if !ok {
				return Node{}, Node{}, fmt.Errorf("%w: $import value must be a string", ErrDirectiveMisuse)
			}
			refStr = s
		case m.Has("$include"):
			if m.Len() != 1 {
				return Node{}, Node{}, fmt.Errorf("%w: $include must be the only field in %v", ErrDirectiveMisuse, m.Keys())
			}
			v, _ := m.Get("$include")
			s, ok := v.AsString()
			if !ok {
				return Node{}, Node{}, fmt.Errorf("%w: $include value must be a string", ErrDirectiveMisuse)
			}
			refStr = s
			isInclude = true
		case m.Has("$mixin"):
			v, _ := m.Get("$mixin")
			s, ok := v.AsString()
			if !ok {
				return Node{}, Node{}, fmt.Errorf("%w: $mixin value must be a string", ErrDirectiveMisuse)
			}
			refStr = s
			mixin = m
		default:
			obj = m
			found := false
			for _, id := range l.context.identifiers.Items() {
				if v, ok := m.Get(id); ok {
					if s, ok := v.AsString(); ok {
						refStr = s
						found = true
						break
					}
				}
			}
			if !found {
				return Node{}, Node{}, fmt.Errorf("%w: object %v does not have an identifier field", ErrDirectiveMisuse, m.Keys())
			}
		}
	case KindScalar:
		s, ok := ref.AsString()
		if !ok {
			return Node{}, Node{}, fmt.Errorf("%w: reference must be a string: %v", ErrDirectiveMisuse, ref)
		}
		refStr = s
	default:
		return Node{}, Node{}, fmt.Errorf("%w: reference must be a string or mapping", ErrDirectiveMisuse)
	}

	refURL := l.context.ExpandURL(refStr, baseURL, ExpandFlags{ScopedID: obj != nil})

	if v, ok := l.index.Get(refURL); ok && mixin == nil {
		if n, isNode := v.(Node); isNode {
			return n, Node{}, nil
		}
		if s, isStr := v.(string); isStr {
			return NewString(s), Node{}, nil
		}
	}

	if isInclude {
		text, err := l.FetchText(refURL)
		if err != nil {
			return Node{}, Node{}, err
		}
		return NewString(text), Node{}, nil
	}

	var doc Node
	var docURL string
	if obj != nil {
		for _, id := range l.context.identifiers.Items() {
			obj.Set(id, NewString(refURL))
		}
		doc = NewMappingNode(obj)
		docURL = refURL
	} else {
		withoutFrag, frag := splitFragment(refURL)
		if l.index.Has(withoutFrag) && mixin == nil {
			return Node{}, Node{}, fmt.Errorf("%w: reference `#%s` not found in file `%s`", ErrUnknownReference, frag, withoutFrag)
		}
		fetched, err := l.Fetch(withoutFrag, mixin == nil)
		if err != nil {
			return Node{}, Node{}, err
		}
		doc = fetched
		docURL = withoutFrag
	}

	docURLParsed, perr := ParseURL(docURL)
	if perr != nil {
		docURLParsed = baseURL
	}

	var resolved, metadata Node
	var err error
	clearFinalLookup := false

	if mixin != nil {
		overlay := doc.DeepClone()
		if overlay.Kind() != KindMapping {
			return Node{}, Node{}, fmt.Errorf("%w: $mixin target must be a mapping", ErrDirectiveMisuse)
		}
		om := overlay.Mapping()
		for _, k := range mixin.Keys() {
			if k == "$mixin" {
				continue
			}
			v, _ := mixin.Get(k)
			om.Set(k, v)
		}
		resolved, metadata, err = l.resolveAllNode(overlay, baseURL, docURLParsed, checkLinks)
		clearFinalLookup = true
	} else {
		resolved, metadata, err = l.resolveAllNode(doc, docURLParsed, docURLParsed, checkLinks)
	}
	if err != nil {
		return Node{}, Node{}, err
	}

	if !clearFinalLookup {
		if n, ok := l.index.GetNode(refURL); ok {
			resolved = n
		} else if v, ok := l.index.Get(refURL); ok {
			if s, isStr := v.(string); isStr {
				resolved = NewString(s)
			} else {
				return Node{}, Node{}, fmt.Errorf("%w: %s", ErrUnknownReference, refURL)
			}
		} else {
			return Node{}, Node{}, fmt.Errorf("%w: reference `%s` is not in the index", ErrUnknownReference, refURL)
		}
	}

	if resolved.Kind() == KindMapping && resolved.Mapping().Has("$graph") {
		meta := resolved.Mapping().CloneWithout("$graph")
		body, _ := resolved.Mapping().Get("$graph")
		return body, NewMappingNode(meta), nil
	}
	return resolved, metadata, nil
}

func (l *Loader) resolveAllNode(document Node, base URL, fileBase URL, checkLinks bool) (Node, Node, error) {
	metadata := Node{}

	if document.Kind() == KindMapping {
		m := document.Mapping()
		if m.Has("$import") || m.Has("$include") {
			return l.resolveRefNode(document, fileBase, checkLinks)
		}
		if m.Has("$mixin") {
			return l.resolveRefNode(document, base, checkLinks)
		}
	} else if document.Kind() != KindSequence {
		return document, metadata, nil
	}

	eff := l
	var profileVersion string
	var hasProfileVersion bool
	if document.Kind() == KindMapping {
		m := document.Mapping()

		if v, ok := m.Get("$base"); ok {
			if s, ok := v.AsString(); ok {
				if nb, err := ParseURL(s); err == nil {
					base = nb
				}
			}
		}

		var newctx *Loader
		if v, ok := m.Get("$profile"); ok {
			if newctx == nil {
				newctx = l.SubLoader()
			}
			profStr, _ := v.AsString()
			var profName string
			profName, profileVersion, hasProfileVersion = splitProfileVersion(profStr)
			if hasProfileVersion {
				l.debugf("resolving $profile %q at version %s", profName, profileVersion)
			}
			profileDoc, err := l.Fetch(profStr, false)
			if err != nil {
				return Node{}, Node{}, err
			}
			// spec.md §4.6: $profile applies the *profile document's own*
			// $namespaces/$schemas, resolved against the profile URL; the
			// containing document's own $namespaces/$schemas (below) are a
			// separate, later-applied step and take precedence on conflict.
			if profileDoc.Kind() == KindMapping {
				pm := profileDoc.Mapping()
				if nsNode, ok := pm.Get("$namespaces"); ok {
					if err := newctx.AddNamespaces(nodeToStringMap(nsNode)); err != nil {
						return Node{}, Node{}, err
					}
				}
				if schNode, ok := pm.Get("$schemas"); ok {
					if err := newctx.AddSchemas(nodeToStringSlice(schNode), profStr); err != nil {
						return Node{}, Node{}, err
					}
				}
			}
		}
		if nsNode, ok := m.Get("$namespaces"); ok {
			if newctx == nil {
				newctx = l.SubLoader()
			}
			if err := newctx.AddNamespaces(nodeToStringMap(nsNode)); err != nil {
				return Node{}, Node{}, err
			}
		}
		if schNode, ok := m.Get("$schemas"); ok {
			if newctx == nil {
				newctx = l.SubLoader()
			}
			if err := newctx.AddSchemas(nodeToStringSlice(schNode), fileBase.String()); err != nil {
				return Node{}, Node{}, err
			}
		}
		if newctx != nil {
			eff = newctx
		}

		if graphNode, ok := m.Get("$graph"); ok {
			metaMapping := m.CloneWithout("$graph")
			resolvedMeta, _, err := eff.resolveAllNode(NewMappingNode(metaMapping), base, fileBase, false)
			if err != nil {
				return Node{}, Node{}, err
			}
			if resolvedMeta.Kind() != KindMapping {
				return Node{}, Node{}, fmt.Errorf("%w: $graph metadata must resolve to a mapping", ErrDirectiveMisuse)
			}
			if hasProfileVersion {
				resolvedMeta.Mapping().Set("$profileVersion", NewString(profileVersion))
			}
			metadata = resolvedMeta
			document = graphNode
		}
	}

	switch document.Kind() {
	case KindMapping:
		m := document.Mapping()
		newBase, err := eff.rewriteMapping(m, base)
		if err != nil {
			return Node{}, Node{}, fmt.Errorf("(%s): %w", fileBase.String(), err)
		}
		base = newBase
		for _, key := range m.Keys() {
			v, _ := m.Get(key)
			nv, _, err := eff.resolveAllNode(v, base, fileBase, false)
			if err != nil {
				return Node{}, Node{}, fmt.Errorf("(%s) validation error in field %s:\n%s", fileBase.String(), key, indentLines(err.Error()))
			}
			m.Set(key, nv)
		}
	case KindSequence:
		seq := document.Seq()
		i := 0
		for i < seq.Len() {
			item := seq.At(i)
			if item.Kind() == KindMapping && (item.Mapping().Has("$import") || item.Mapping().Has("$mixin")) {
				resolvedItem, _, err := eff.resolveRefNode(item, fileBase, false)
				if err != nil {
					return Node{}, Node{}, fmt.Errorf("(%s) validation error in position %d:\n%s", fileBase.String(), i, indentLines(err.Error()))
				}
				if resolvedItem.Kind() == KindSequence {
					items := resolvedItem.Seq().Items()
					seq.Splice(i, items)
					i += len(items)
				} else {
					seq.Set(i, resolvedItem)
					i++
				}
			} else {
				nv, _, err := eff.resolveAllNode(item, base, fileBase, false)
				if err != nil {
					return Node{}, Node{}, fmt.Errorf("(%s) validation error in position %d:\n%s", fileBase.String(), i, indentLines(err.Error()))
				}
				seq.Set(i, nv)
				i++
			}
		}

		if metadata.Kind() == KindMapping {
			for _, identifier := range eff.context.identityLinks.Items() {
				if v, ok := metadata.Mapping().Get(identifier); ok {
					if s, ok := v.AsString(); ok {
						expanded := eff.context.ExpandURL(s, base, ExpandFlags{ScopedID: true})
						metadata.Mapping().Set(identifier, NewString(expanded))
						eff.index.Put(expanded, document)
					}
				}
			}
		}
	}

	if checkLinks {
		if err := l.ValidateLinks(document, URL{}); err != nil {
			return Node{}, Node{}, err
		}
	}
	return document, metadata, nil
}

// splitFragment splits raw into its fragment-free form and fragment,
// mirroring urllib.parse.urldefrag.
func splitFragment(raw string) (string, string) {
	u, err := url.Parse(raw)
	if err != nil {
		return raw, ""
	}
	frag := u.Fragment
	u.Fragment = ""
	return u.String(), frag
}

// joinURL resolves raw against base per RFC 3986 joining, used for
// $schemas URLs which are plain transport targets, not vocabulary-aware
// references (unlike expand_url's ref fields).
func joinURL(base URL, raw string) string {
	rel, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return base.rawURL().ResolveReference(rel).String()
}

// defaultBaseURL returns file://<cwd>/ per spec.md §6's default base.
func defaultBaseURL() URL {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	}
	u := MustParseURL("file://" + cwd + "/")
	return u
}
