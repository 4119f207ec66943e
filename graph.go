// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import "strings"

// RDF vocabulary terms consulted by _add_properties (spec.md §4.3).
const (
	rdfType            = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	rdfProperty         = "http://www.w3.org/1999/02/22-rdf-syntax-ns#Property"
	rdfsSubPropertyOf   = "http://www.w3.org/2000/01/rdf-schema#subPropertyOf"
	rdfsRange           = "http://www.w3.org/2000/01/rdf-schema#range"
	rdfsLiteral         = "http://www.w3.org/2000/01/rdf-schema#Literal"
	owlObjectProperty   = "http://www.w3.org/2002/07/owl#ObjectProperty"
	xsdNamespace        = "http://www.w3.org/2001/XMLSchema#"
	xsdAnyURI           = xsdNamespace + "anyURI"
)

// Triple is a single RDF statement. ObjectIsLiteral distinguishes a
// literal object (quoted string, possibly with a datatype IRI) from a
// resource reference, mattering only for _add_properties's range check.
type Triple struct {
	Subject         string
	Predicate       string
	Object          string
	ObjectIsLiteral bool
}

// TripleSource parses text into triples. spec.md §1/§6 places the actual
// RDF/XML, Turtle, and RDFa parsers out of scope — "only the triples [it]
// yields are consumed" — so this interface is the seam a real parser
// would implement; graph.go ships one dependency-free implementation
// (ntriples.go) since no repo in the retrieval pack imports an RDF
// library to ground a third-party choice against (see DESIGN.md).
type TripleSource interface {
	Triples(text string, base URL) ([]Triple, error)
}

// Graph is the RDF triple store of spec.md §3, consulted only at context
// build time via add_schemas.
type Graph struct {
	triples []Triple
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph { return &Graph{} }

// Add appends triples to the graph.
func (g *Graph) Add(triples []Triple) { g.triples = append(g.triples, triples...) }

func (g *Graph) subjectsWith(pred, obj string) []string {
	var out []string
	for _, t := range g.triples {
		if t.Predicate == pred && t.Object == obj {
			out = append(out, t.Subject)
		}
	}
	return out
}

func (g *Graph) objectsWith(subj, pred string) []string {
	var out []string
	for _, t := range g.triples {
		if t.Subject == subj && t.Predicate == pred {
			out = append(out, t.Object)
		}
	}
	return out
}

// classifyForeignProperties runs _add_properties over the whole graph
// (spec.md §4.3): every subject of rdf:type rdf:Property, both subject and
// object of rdfs:subPropertyOf, every subject of rdfs:range, and every
// subject of rdf:type owl:ObjectProperty is classified; every subject of
// any triple is inserted into idx as a placeholder.
func (c *Context) classifyForeignProperties(g *Graph, idx *Index) {
	for _, s := range g.subjectsWith(rdfType, rdfProperty) {
		c.addProperty(g, s)
	}
	for _, t := range g.triples {
		if t.Predicate == rdfsSubPropertyOf {
			c.addProperty(g, t.Subject)
			c.addProperty(g, t.Object)
		}
	}
	for _, t := range g.triples {
		if t.Predicate == rdfsRange {
			c.addProperty(g, t.Subject)
		}
	}
	for _, s := range g.subjectsWith(rdfType, owlObjectProperty) {
		c.addProperty(g, s)
	}
	for _, t := range g.triples {
		if !idx.Has(t.Subject) {
			idx.Put(t.Subject, t.Subject)
		}
	}
}

func (c *Context) addProperty(g *Graph, subject string) {
	for _, rng := range g.objectsWith(subject, rdfsRange) {
		if !isLiteralRange(rng) {
			c.urlFields.Add(subject)
		}
	}
	c.foreignProperties.Add(subject)
}

func isLiteralRange(rng string) bool {
	if rng == xsdAnyURI {
		return false
	}
	if rng == rdfsLiteral {
		return true
	}
	return strings.HasPrefix(rng, xsdNamespace)
}
