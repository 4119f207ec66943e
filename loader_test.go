// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubLoaderSharesIndexGraphAndCache(t *testing.T) {
	parent, err := NewLoader(NewContext())
	require.NoError(t, err)
	parent.context.foreignProperties.Add("https://example.com/ns#already")
	parent.textCache["file:///a.yaml"] = "cached"

	sub := parent.SubLoader()

	assert.Same(t, parent.index, sub.index)
	assert.Same(t, parent.graph, sub.graph)
	assert.Same(t, parent.context.foreignProperties, sub.context.foreignProperties)
	assert.Equal(t, "cached", sub.textCache["file:///a.yaml"])

	sub.index.Put("file:///b.yaml", "placeholder")
	assert.True(t, parent.index.Has("file:///b.yaml"), "the Index is shared read-write with sub-loaders")
}

func TestSubLoaderStartsWithEmptyVocab(t *testing.T) {
	parent, err := NewLoader(NewContext())
	require.NoError(t, err)
	require.NoError(t, parent.AddNamespaces(map[string]string{"cwl": "https://w3id.org/cwl/cwl#"}))

	sub := parent.SubLoader()
	assert.Empty(t, sub.context.vocab, "a sub-loader's context is compiled fresh, not inherited from the parent")
}

func TestNewLoaderDefaultsToEmptyContext(t *testing.T) {
	l, err := NewLoader(nil)
	require.NoError(t, err)
	assert.NotNil(t, l.Context())
	assert.NotNil(t, l.Index())
	assert.NotNil(t, l.Graph())
}
