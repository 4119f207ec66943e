// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	l, err := NewLoader(NewContext())
	require.NoError(t, err)
	return l
}

// TestResolveIdmapDesugarsLexicographically is scenario S3 of spec.md §8.
func TestResolveIdmapDesugarsLexicographically(t *testing.T) {
	l := newTestLoader(t)
	l.context.idmap["inputs"] = "id"
	l.context.mapPredicate["inputs"] = "type"

	inner := NewMapping()
	inner.Set("y", func() Node {
		m := NewMapping()
		m.Set("type", NewString("int"))
		return NewMappingNode(m)
	}())
	inner.Set("x", NewString("string"))

	doc := NewMapping()
	doc.Set("inputs", NewMappingNode(inner))

	require.NoError(t, l.resolveIdmap(doc))

	v, ok := doc.Get("inputs")
	require.True(t, ok)
	seq := v.Seq()
	require.Equal(t, 2, seq.Len())

	first := seq.At(0).Mapping()
	id0, _ := first.Get("id")
	s0, _ := id0.AsString()
	assert.Equal(t, "x", s0, "lexicographic key order: x before y")
	ty0, _ := first.Get("type")
	tys0, _ := ty0.AsString()
	assert.Equal(t, "string", tys0)

	second := seq.At(1).Mapping()
	id1, _ := second.Get("id")
	s1, _ := id1.AsString()
	assert.Equal(t, "y", s1)
	ty1, _ := second.Get("type")
	tys1, _ := ty1.AsString()
	assert.Equal(t, "int", tys1)
}

// TestResolveTypeDSLSingleValue is scenario S4 (first half) of spec.md §8.
func TestResolveTypeDSLSingleValue(t *testing.T) {
	l := newTestLoader(t)
	l.context.typeDSLFields.Add("type")

	doc := NewMapping()
	doc.Set("type", NewString("File[]?"))
	l.resolveTypeDSL(doc)

	v, _ := doc.Get("type")
	require.Equal(t, KindSequence, v.Kind())
	seq := v.Seq()
	require.Equal(t, 2, seq.Len())
	nullVal, _ := seq.At(0).AsString()
	assert.Equal(t, "null", nullVal)

	arr := seq.At(1).Mapping()
	typeVal, _ := arr.Get("type")
	ts, _ := typeVal.AsString()
	assert.Equal(t, "array", ts)
	itemsVal, _ := arr.Get("items")
	is, _ := itemsVal.AsString()
	assert.Equal(t, "File", is)
}

// TestResolveTypeDSLListFlattensAndDedupes is scenario S4 (second half).
func TestResolveTypeDSLListFlattensAndDedupes(t *testing.T) {
	l := newTestLoader(t)
	l.context.typeDSLFields.Add("type")

	doc := NewMapping()
	doc.Set("type", NewSequenceNode([]Node{NewString("int"), NewString("int?")}))
	l.resolveTypeDSL(doc)

	v, _ := doc.Get("type")
	seq := v.Seq()
	var got []string
	for i := 0; i < seq.Len(); i++ {
		s, _ := seq.At(i).AsString()
		got = append(got, s)
	}
	assert.Equal(t, []string{"int", "null"}, got)
}

func TestResolveIdentifierAdvancesBase(t *testing.T) {
	l := newTestLoader(t)
	l.context.identifiers.Add("id")

	doc := NewMapping()
	doc.Set("id", NewString("step1"))
	base := MustParseURL("file:///w.yaml")

	newBase, err := l.resolveIdentifier(doc, base)
	require.NoError(t, err)
	assert.Equal(t, "file:///w.yaml#step1", newBase.String())

	idVal, _ := doc.Get("id")
	s, _ := idVal.AsString()
	assert.Equal(t, "file:///w.yaml#step1", s)

	_, ok := l.index.GetNode("file:///w.yaml#step1")
	assert.True(t, ok)
}

func TestResolveIdentityExpandsListAndPlaceholders(t *testing.T) {
	l := newTestLoader(t)
	l.context.identityLinks.Add("successors")

	doc := NewMapping()
	doc.Set("successors", NewSequenceNode([]Node{NewString("step2")}))
	base := MustParseURL("file:///w.yaml#step1")

	l.resolveIdentity(doc, base)

	v, _ := doc.Get("successors")
	s, _ := v.Seq().At(0).AsString()
	assert.Equal(t, "file:///w.yaml#step1/step2", s)
	assert.True(t, l.index.Has("file:///w.yaml#step1/step2"))
}

func TestResolveURLFieldsExpandsScalarAndList(t *testing.T) {
	l := newTestLoader(t)
	l.context.urlFields.Add("source")
	base := MustParseURL("file:///w.yaml")

	doc := NewMapping()
	doc.Set("source", NewString("other.yaml"))
	l.resolveURLFields(doc, base)

	v, _ := doc.Get("source")
	s, _ := v.AsString()
	assert.Equal(t, "file:///other.yaml", s)

	doc.Set("source", NewSequenceNode([]Node{NewString("a.yaml"), NewString("b.yaml")}))
	l.resolveURLFields(doc, base)

	v, _ = doc.Get("source")
	require.Equal(t, KindSequence, v.Kind())
	s0, _ := v.Seq().At(0).AsString()
	s1, _ := v.Seq().At(1).AsString()
	assert.Equal(t, "file:///a.yaml", s0)
	assert.Equal(t, "file:///b.yaml", s1)
}

func TestNormalizeFieldNamesExpandsVocabPrefixed(t *testing.T) {
	l := newTestLoader(t)
	l.context.vocab["cwl"] = "https://w3id.org/cwl/cwl#"

	doc := NewMapping()
	doc.Set("cwl:class", NewString("CommandLineTool"))
	l.normalizeFieldNames(doc)

	assert.False(t, doc.Has("cwl:class"))
	assert.True(t, doc.Has("https://w3id.org/cwl/cwl#class"))
}
