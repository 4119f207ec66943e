// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNTriplesSourceParsesBasicTriples(t *testing.T) {
	text := `
# a comment line
<https://example.com/ns#label> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/1999/02/22-rdf-syntax-ns#Property> .
<https://example.com/ns#label> <http://www.w3.org/2000/01/rdf-schema#range> <http://www.w3.org/2000/01/rdf-schema#Literal> .
`
	triples, err := NTriplesSource{}.Triples(text, URL{})
	require.NoError(t, err)
	require.Len(t, triples, 2)
	assert.Equal(t, "https://example.com/ns#label", triples[0].Subject)
	assert.Equal(t, rdfType, triples[0].Predicate)
	assert.False(t, triples[0].ObjectIsLiteral)
}

func TestNTriplesSourceParsesQuotedLiteral(t *testing.T) {
	text := `<https://example.com/ns#a> <https://example.com/ns#label> "hello world" .`
	triples, err := NTriplesSource{}.Triples(text, URL{})
	require.NoError(t, err)
	require.Len(t, triples, 1)
	assert.Equal(t, "hello world", triples[0].Object)
	assert.True(t, triples[0].ObjectIsLiteral)
}

func TestClassifyForeignPropertiesMarksURLFieldForResourceRange(t *testing.T) {
	g := NewGraph()
	g.Add([]Triple{
		{Subject: "https://example.com/ns#source", Predicate: rdfType, Object: rdfProperty},
		{Subject: "https://example.com/ns#source", Predicate: rdfsRange, Object: xsdAnyURI},
	})
	c := NewContext()
	idx := NewIndex()
	c.classifyForeignProperties(g, idx)

	assert.True(t, c.foreignProperties.Has("https://example.com/ns#source"))
	assert.True(t, c.urlFields.Has("https://example.com/ns#source"))
	assert.True(t, idx.Has("https://example.com/ns#source"))
}

func TestClassifyForeignPropertiesLiteralRangeIsNotAURLField(t *testing.T) {
	g := NewGraph()
	g.Add([]Triple{
		{Subject: "https://example.com/ns#label", Predicate: rdfType, Object: rdfProperty},
		{Subject: "https://example.com/ns#label", Predicate: rdfsRange, Object: rdfsLiteral},
	})
	c := NewContext()
	idx := NewIndex()
	c.classifyForeignProperties(g, idx)

	assert.True(t, c.foreignProperties.Has("https://example.com/ns#label"))
	assert.False(t, c.urlFields.Has("https://example.com/ns#label"))
}

func TestClassifyForeignPropertiesSubPropertyOf(t *testing.T) {
	g := NewGraph()
	g.Add([]Triple{
		{Subject: "https://example.com/ns#child", Predicate: rdfsSubPropertyOf, Object: "https://example.com/ns#parent"},
	})
	c := NewContext()
	idx := NewIndex()
	c.classifyForeignProperties(g, idx)

	assert.True(t, c.foreignProperties.Has("https://example.com/ns#child"))
	assert.True(t, c.foreignProperties.Has("https://example.com/ns#parent"))
}
