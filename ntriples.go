// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import (
	"fmt"
	"strings"
)

// NTriplesSource is a dependency-free TripleSource for the W3C N-Triples
// line format (one "<s> <p> <o-or-literal> ." statement per line,
// comments and blank lines ignored). It exists because no repo in the
// retrieval pack imports a Turtle/RDF-XML/RDFa library (see DESIGN.md);
// it is enough to exercise add_schemas/_add_properties end to end.
type NTriplesSource struct{}

// Triples implements TripleSource. base is unused: N-Triples terms are
// always absolute, unlike Turtle's relative-IRI shorthand.
func (NTriplesSource) Triples(text string, base URL) ([]Triple, error) {
	var out []Triple
	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSuffix(strings.TrimSpace(line), ".")
		line = strings.TrimSpace(line)
		fields, err := splitNTripleTerms(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", ErrSyntax, lineNo+1, err)
		}
		subj, err := parseNTripleTerm(fields[0])
		if err != nil {
			return nil, err
		}
		pred, err := parseNTripleTerm(fields[1])
		if err != nil {
			return nil, err
		}
		obj, literal, err := parseNTripleObject(fields[2])
		if err != nil {
			return nil, err
		}
		out = append(out, Triple{Subject: subj, Predicate: pred, Object: obj, ObjectIsLiteral: literal})
	}
	return out, nil
}

// splitNTripleTerms splits a triple's three terms, respecting quoted
// literals and IRI refs so embedded spaces don't break the split.
func splitNTripleTerms(line string) ([3]string, error) {
	var fields [3]string
	rest := line
	for i := 0; i < 3; i++ {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return fields, fmt.Errorf("too few terms")
		}
		var term string
		switch rest[0] {
		case '<':
			end := strings.IndexByte(rest, '>')
			if end < 0 {
				return fields, fmt.Errorf("unterminated IRI")
			}
			term = rest[:end+1]
			rest = rest[end+1:]
		case '"':
			_, end := findQuoteEnd(rest)
			if end < 0 {
				return fields, fmt.Errorf("unterminated literal")
			}
			term = rest[:end]
			rest = rest[end:]
		default:
			sp := strings.IndexAny(rest, " \t")
			if sp < 0 {
				term = rest
				rest = ""
			} else {
				term = rest[:sp]
				rest = rest[sp:]
			}
		}
		fields[i] = term
	}
	return fields, nil
}

// findQuoteEnd scans a literal starting with '"' at s[0] and returns the
// index of the closing quote, and the index just past any trailing
// ^^<datatype> or @lang suffix, or (-1, -1) if the literal is unterminated.
func findQuoteEnd(s string) (closeQuote, end int) {
	for i := 1; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == '"' {
			closeQuote = i
			end = i + 1
			if strings.HasPrefix(s[end:], "^^<") {
				if c := strings.IndexByte(s[end:], '>'); c >= 0 {
					end += c + 1
				}
			} else if strings.HasPrefix(s[end:], "@") {
				j := end + 1
				for j < len(s) && (isAlnum(s[j]) || s[j] == '-') {
					j++
				}
				end = j
			}
			return closeQuote, end
		}
	}
	return -1, -1
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func parseNTripleTerm(term string) (string, error) {
	if !strings.HasPrefix(term, "<") || !strings.HasSuffix(term, ">") {
		return "", fmt.Errorf("%w: expected IRI, got %q", ErrSyntax, term)
	}
	return term[1 : len(term)-1], nil
}

func parseNTripleObject(term string) (value string, literal bool, err error) {
	if strings.HasPrefix(term, "<") {
		v, err := parseNTripleTerm(term)
		return v, false, err
	}
	if strings.HasPrefix(term, "\"") {
		closeQuote, end := findQuoteEnd(term)
		if end < 0 {
			return "", false, fmt.Errorf("%w: unterminated literal %q", ErrSyntax, term)
		}
		body := term[1:closeQuote]
		return body, true, nil
	}
	// blank node or bare prefixed name: treat as an opaque resource value.
	return term, false, nil
}
