// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import (
	"fmt"
	"net/url"

	"github.com/go-openapi/swag"
)

// PathLoader fetches the raw bytes for an http(s):// or file:// URL. It is
// a package-level override point, grounded directly on schema_loader.go's
// `var PathLoader func(string) (json.RawMessage, error)` / loadDoc
// indirection — the same reason that one exists: callers and tests can
// swap the transport without touching the Fetcher logic around it.
var PathLoader func(string) ([]byte, error) = swag.LoadFromFileOrHTTP

// FetchText implements the Fetcher contract's fetch_text (spec.md §4.4):
// cached text if present, otherwise scheme dispatch: file:// and http(s)://
// go through PathLoader, everything else fails with ErrUnsupportedScheme.
func (l *Loader) FetchText(raw string) (string, error) {
	if text, ok := l.textCache[raw]; ok {
		l.debugf("fetch_text cache hit: %s", raw)
		return text, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %s", ErrSyntax, raw, err)
	}

	switch u.Scheme {
	case "http", "https", "file":
		b, err := PathLoader(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %s", ErrTransport, raw, err)
		}
		text := string(b)
		l.textCache[raw] = text
		return text, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, raw)
	}
}

// Fetch implements the Fetcher contract's fetch (spec.md §4.4): returns
// the indexed node if url is already cached; otherwise fetches and parses
// the text, optionally injecting a default identifier value before
// indexing under the identifier's expanded URL (injectIDs).
func (l *Loader) Fetch(rawURL string, injectIDs bool) (Node, error) {
	if n, ok := l.index.GetNode(rawURL); ok {
		return n, nil
	}

	text, err := l.FetchText(rawURL)
	if err != nil {
		return Node{}, err
	}

	result, err := parseYAML(text, rawURL)
	if err != nil {
		return Node{}, err
	}

	if result.Kind() == KindMapping && injectIDs && l.context.identifiers.Len() > 0 {
		m := result.Mapping()
		for _, identifier := range l.context.identifiers.Items() {
			if !hasNonEmptyString(m, identifier) {
				m.Set(identifier, NewString(rawURL))
			}
			idVal, _ := m.Get(identifier)
			if s, ok := idVal.AsString(); ok {
				expanded := l.context.ExpandURL(s, MustParseURL(rawURL), ExpandFlags{})
				l.index.Put(expanded, result)
			}
		}
	} else {
		l.index.Put(rawURL, result)
	}
	return result, nil
}

// hasNonEmptyString reports whether m[key] is present and not the empty
// string (a present non-string value counts as present). An identifier
// field present but holding the empty string is treated as absent for fetch's default-injection purposes (DESIGN.md
// Open Question (d): spec.md is silent on this edge case).
func hasNonEmptyString(m *Mapping, key string) bool {
	v, ok := m.Get(key)
	if !ok {
		return false
	}
	s, isString := v.AsString()
	return !isString || s != ""
}

func (l *Loader) debugf(format string, args ...any) {
	if l.logger != nil {
		l.logger.Debug(fmt.Sprintf(format, args...))
	}
}
