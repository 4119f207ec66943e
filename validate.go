// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// ValidateLinks implements the Link Validator's entry point (spec.md
// §4.7): every url_field value in doc must resolve into the Index, the
// reverse vocabulary, or (for scoped-ref fields / file:// targets) pass a
// fallback check, unless the field is in nolinkcheck.
func (l *Loader) ValidateLinks(doc Node, base URL) error {
	return l.validateLinks(doc, base)
}

func (l *Loader) validateLinks(doc Node, base URL) error {
	docid := base
	if id, ok := l.getID(doc); ok {
		if u, err := ParseURL(id); err == nil {
			docid = u
		}
	}

	switch doc.Kind() {
	case KindMapping:
		m := doc.Mapping()
		var errs []error
		for _, field := range l.context.urlFields.Items() {
			if l.context.identityLinks.Has(field) {
				continue
			}
			v, ok := m.Get(field)
			if !ok {
				continue
			}
			nv, err := l.validateLink(field, v, docid)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			m.Set(field, nv)
		}
		for _, key := range m.Keys() {
			v, _ := m.Get(key)
			if err := l.validateLinks(v, docid); err != nil {
				if l.context.nolinkcheck.Has(key) {
					continue
				}
				if childID, ok := l.getID(v); ok {
					errs = append(errs, fmt.Errorf("while checking object `%s`:\n%s", childID, indentLines(err.Error())))
				} else {
					errs = append(errs, fmt.Errorf("while checking field `%s`:\n%s", key, indentLines(err.Error())))
				}
			}
		}
		return joinErrors(errs)
	case KindSequence:
		seq := doc.Seq()
		var errs []error
		for i := 0; i < seq.Len(); i++ {
			if err := l.validateLinks(seq.At(i), docid); err != nil {
				errs = append(errs, fmt.Errorf("while checking position %d:\n%s", i, indentLines(err.Error())))
			}
		}
		return joinErrors(errs)
	default:
		return nil
	}
}

// validateLink validates (and possibly rewrites, via scoped search) a
// single url_field value, grounded on
// original_source/ref_resolver.py's validate_link. Polymorphic by Node
// kind (spec.md §4.3/§9's design note): strings are checked directly,
// lists element-wise, mappings recurse through validate_links instead of
// being treated as a link value themselves.
func (l *Loader) validateLink(field string, value Node, docid URL) (Node, error) {
	if l.context.nolinkcheck.Has(field) {
		return value, nil
	}
	switch value.Kind() {
	case KindScalar:
		s, isString := value.AsString()
		if !isString {
			return value, fmt.Errorf("%w: field `%s` value must be a string, list, or mapping", ErrBadLinkType, field)
		}
		return l.validateLinkString(field, s, docid)
	case KindSequence:
		seq := value.Seq()
		var errs []error
		for i := 0; i < seq.Len(); i++ {
			nv, err := l.validateLink(field, seq.At(i), docid)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			seq.Set(i, nv)
		}
		return value, joinErrors(errs)
	case KindMapping:
		return value, l.validateLinks(value, docid)
	default:
		return value, fmt.Errorf("%w: field `%s`", ErrBadLinkType, field)
	}
}

func (l *Loader) validateLinkString(field, link string, docid URL) (Node, error) {
	_, inRvocab := l.context.rvocab[link]
	inIndex := l.index.Has(link)

	if l.context.vocabFields.Has(field) {
		_, inVocab := l.context.vocab[link]
		if inVocab || inIndex || inRvocab {
			return NewString(link), nil
		}
	} else if inIndex || inRvocab {
		return NewString(link), nil
	}

	if depth, ok := l.context.scopedRefFields[field]; ok {
		resolved, err := l.validateScoped(field, link, docid, depth)
		if err != nil {
			return NewString(link), err
		}
		return NewString(resolved), nil
	}
	if checkFile(link) {
		return NewString(link), nil
	}
	return NewString(link), fmt.Errorf("%w: field `%s` contains undefined reference to `%s`", ErrUnknownReference, field, link)
}

// fragmentTokens splits a URL fragment into its "/"-delimited segments,
// the same RFC 6901 escaping rules a JSON Pointer's tokens follow — a
// scoped-ref fragment is exactly that shape even though it is never
// evaluated as a pointer. Grounded on expander.go's use of
// github.com/go-openapi/jsonpointer for ad hoc "/"-segment decomposition.
func fragmentTokens(frag string) []string {
	ptr, err := jsonpointer.New("/" + frag)
	if err != nil {
		return strings.Split(frag, "/")
	}
	return ptr.DecodedTokens()
}

// joinFragmentTokens reassembles segments into a fragment string,
// escaping each with jsonpointer.Escape so a segment containing a literal
// "/" or "~" round-trips through fragmentTokens unambiguously.
func joinFragmentTokens(segments []string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = jsonpointer.Escape(s)
	}
	return strings.Join(escaped, "/")
}

// validateScoped performs the upward fragment-walking search of spec.md
// §4.7.1, grounded on original_source/ref_resolver.py's validate_scoped.
func (l *Loader) validateScoped(field, link string, docid URL, depth int) (string, error) {
	sp := fragmentTokens(docid.Fragment())
	for depth > 0 && len(sp) > 0 {
		sp = sp[:len(sp)-1]
		depth--
	}

	var tried []string
	for {
		sp = append(sp, link)
		candidate := docid.WithFragment(joinFragmentTokens(sp))
		tried = append(tried, candidate.String())
		if l.index.Has(candidate.String()) {
			return candidate.String(), nil
		}
		sp = sp[:len(sp)-1]
		if len(sp) == 0 {
			break
		}
		sp = sp[:len(sp)-1]
	}
	return "", fmt.Errorf("%w: field `%s` contains undefined reference to `%s`, tried %v", ErrUnknownReference, field, link, tried)
}

// getID returns doc's identifier-field string value, if doc is a mapping
// with one present — grounded on original_source/ref_resolver.py's getid.
func (l *Loader) getID(doc Node) (string, bool) {
	if doc.Kind() != KindMapping {
		return "", false
	}
	for _, id := range l.context.identifiers.Items() {
		if v, ok := doc.Mapping().Get(id); ok {
			if s, isString := v.AsString(); isString {
				return s, true
			}
		}
	}
	return "", false
}

// checkFile implements spec.md §9(c): only file:// URLs are accepted,
// checked by the path component alone existing on disk; remote URLs
// absent from the Index always fail.
func checkFile(link string) bool {
	if !strings.HasPrefix(link, "file://") {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	_, err = os.Stat(u.Path)
	return err == nil
}

func indentLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = "  " + ln
	}
	return strings.Join(lines, "\n")
}
