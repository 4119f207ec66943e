// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-openapi/jsonreference"
)

// URL is an absolute URI reference with an optional fragment, in the
// canonical parse-then-reassemble form spec.md §3 requires. It wraps
// jsonreference.Ref exactly as the teacher's Ref type does in ref.go.
type URL struct {
	ref jsonreference.Ref
}

// ParseURL parses raw into a URL, canonicalizing it by reassembly.
func ParseURL(raw string) (URL, error) {
	r, err := jsonreference.New(raw)
	if err != nil {
		return URL{}, fmt.Errorf("%w: %s: %s", ErrSyntax, raw, err)
	}
	return URL{ref: r}, nil
}

// MustParseURL is ParseURL but panics on error; used only for URLs this
// package has itself constructed and already knows to be well-formed.
func MustParseURL(raw string) URL {
	u, err := ParseURL(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// String returns the canonical string form.
func (u URL) String() string { return u.ref.String() }

// IsZero reports whether u is the zero value (no URL at all, as opposed
// to a URL with an empty path).
func (u URL) IsZero() bool { return u.ref.String() == "" }

func (u URL) rawURL() *url.URL {
	if ur := u.ref.GetURL(); ur != nil {
		cp := *ur
		return &cp
	}
	return &url.URL{}
}

// Fragment returns the URL's fragment (without '#').
func (u URL) Fragment() string { return u.rawURL().Fragment }

// WithFragment returns a copy of u with its fragment replaced.
func (u URL) WithFragment(frag string) URL {
	ur := u.rawURL()
	ur.Fragment = frag
	nu, err := ParseURL(ur.String())
	if err != nil {
		return u
	}
	return nu
}

// WithoutFragment returns u with its fragment cleared.
func (u URL) WithoutFragment() URL { return u.WithFragment("") }

// ExpandFlags carries the optional behavior switches of expand_url
// (spec.md §4.1).
type ExpandFlags struct {
	ScopedID  bool
	VocabTerm bool
	ScopedRef *int // non-nil => a scoped-ref field with the given depth
}

// ExpandURL implements the URL Expander (spec.md §4.1), translated line
// for line from original_source/ref_resolver.py's Loader.expand_url.
func (c *Context) ExpandURL(ref string, base URL, flags ExpandFlags) string {
	if ref == "@id" || ref == "@type" {
		return ref
	}
	if flags.VocabTerm {
		if _, ok := c.vocab[ref]; ok {
			return ref
		}
	}
	if len(c.vocab) > 0 {
		if i := strings.IndexByte(ref, ':'); i >= 0 {
			prefix := ref[:i]
			if expansion, ok := c.vocab[prefix]; ok {
				ref = expansion + ref[i+1:]
			}
		}
	}

	split, _ := url.Parse(ref)
	hasScheme := split != nil && split.Scheme != ""
	hasFragment := split != nil && split.Fragment != ""
	special := strings.HasPrefix(ref, "$(") || strings.HasPrefix(ref, "${")

	switch {
	case hasScheme || special:
		// leave ref unchanged: it already names a scheme, or is an
		// expression-language token that must pass through untouched.
	case flags.ScopedID && !hasFragment:
		baseURL := base.rawURL()
		var frg string
		if baseURL.Fragment != "" {
			frg = baseURL.Fragment + "/" + split.Path
		} else {
			frg = split.Path
		}
		pt := baseURL.Path
		if pt == "" {
			pt = "/"
		}
		merged := url.URL{Scheme: baseURL.Scheme, Host: baseURL.Host, Path: pt, Fragment: frg}
		ref = merged.String()
	case flags.ScopedRef != nil && !hasFragment:
		// leave ref as-is; the Link Validator performs the upward search.
	default:
		// a zero base leaves ref unchanged; joining against its empty path
		// would otherwise prefix ref with "/".
		if split != nil && !base.IsZero() {
			ref = base.rawURL().ResolveReference(split).String()
		}
	}

	if flags.VocabTerm {
		if term, ok := c.rvocab[ref]; ok {
			return term
		}
	}
	return ref
}
