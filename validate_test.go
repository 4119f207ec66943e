// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateScopedPopsFragmentComponents is scenario S5 of spec.md §8:
// a depth-2 scoped search pops the two innermost fragment components
// (here "sourceHolder" and "step1") before appending the candidate link,
// landing on "main/outA" — tried and found in the Index on the first
// iteration of validate_scoped's upward walk.
func TestValidateScopedPopsFragmentComponents(t *testing.T) {
	l := newTestLoader(t)
	l.index.Put("file:///w#main/outA", NewString("file:///w#main/outA"))
	docid := MustParseURL("file:///w#main/step1/sourceHolder")

	resolved, err := l.validateScoped("source", "outA", docid, 2)
	require.NoError(t, err)
	assert.Equal(t, "file:///w#main/outA", resolved)
}

func TestValidateScopedFailsWhenNothingMatches(t *testing.T) {
	l := newTestLoader(t)
	docid := MustParseURL("file:///w#main/step1")
	_, err := l.validateScoped("source", "missing", docid, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownReference))
}

func TestValidateLinkStringAcceptsIndexedTarget(t *testing.T) {
	l := newTestLoader(t)
	l.context.urlFields.Add("source")
	l.index.Put("file:///b.yaml", "placeholder")

	_, err := l.validateLinkString("source", "file:///b.yaml", URL{})
	assert.NoError(t, err)
}

func TestValidateLinkStringRejectsUnknownReference(t *testing.T) {
	l := newTestLoader(t)
	_, err := l.validateLinkString("source", "file:///missing.yaml", URL{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownReference))
}

func TestValidateLinkStringAcceptsFileThatExistsOnDisk(t *testing.T) {
	l := newTestLoader(t)
	_, err := l.validateLinkString("source", "file:///etc/passwd", URL{})
	assert.NoError(t, err)
}

func TestValidateLinksSkipsNolinkcheckFields(t *testing.T) {
	l := newTestLoader(t)
	l.context.urlFields.Add("doc")
	l.context.nolinkcheck.Add("doc")

	doc := NewMapping()
	doc.Set("doc", NewString("not-a-url-at-all"))
	err := l.validateLinks(NewMappingNode(doc), URL{})
	assert.NoError(t, err)
}

func TestValidateLinksCollectsMultipleErrors(t *testing.T) {
	l := newTestLoader(t)
	l.context.urlFields.Add("a")
	l.context.urlFields.Add("b")

	doc := NewMapping()
	doc.Set("a", NewString("file:///missing-a.yaml"))
	doc.Set("b", NewString("file:///missing-b.yaml"))

	err := l.validateLinks(NewMappingNode(doc), URL{})
	require.Error(t, err)

	var agg *ValidationAggregate
	require.True(t, errors.As(err, &agg))
	assert.Len(t, agg.Errors, 2)
}

// Membership in foreignProperties classifies a field as URL-typed (it
// controls add_context's auto-classification, spec.md's Graph invariant);
// it is not itself a validation success criterion. validate_link's
// criteria are exhaustive (vocab/Index/rvocab, scoped search, check_file)
// per spec.md §4.7, so an otherwise-unresolved foreign property must still
// fail link validation.
func TestValidateLinkStringRejectsForeignPropertyRegardless(t *testing.T) {
	l := newTestLoader(t)
	l.context.foreignProperties.Add("https://example.com/ns#extra")

	_, err := l.validateLinkString("extra", "https://example.com/ns#extra", URL{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownReference))
}
