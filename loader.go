// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import "log/slog"

// Loader is the top-level resolver (spec.md §2's components wired
// together): an Index, a Graph, a compiled Context, and the shared
// caches a SubLoader hands down unchanged. Grounded on
// original_source/ref_resolver.py's Loader class and on schema_loader.go's
// schemaLoader (root/options/cache/context indirection) for the Go shape.
type Loader struct {
	context *Context
	index   *Index
	graph   *Graph

	tripleSources []TripleSource
	textCache     map[string]string

	logger *slog.Logger
}

// LoaderOption configures a Loader at construction, the functional-options
// idiom the corpus uses pervasively for optional constructor
// configuration (e.g. pb33f/libopenapi's options.go).
type LoaderOption func(*Loader)

// WithLogger overrides the default (slog.Default()) logger.
func WithLogger(l *slog.Logger) LoaderOption {
	return func(ld *Loader) { ld.logger = l }
}

// WithTripleSources overrides the default RDF parser chain tried in
// AddSchemas, in order.
func WithTripleSources(sources ...TripleSource) LoaderOption {
	return func(ld *Loader) { ld.tripleSources = sources }
}

// NewLoader builds a Loader around ctx with a fresh Index, Graph, and
// text cache.
func NewLoader(ctx *Context, opts ...LoaderOption) (*Loader, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	l := &Loader{
		context:       ctx,
		index:         NewIndex(),
		graph:         NewGraph(),
		tripleSources: []TripleSource{NTriplesSource{}},
		textCache:     map[string]string{},
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// SubLoader produces a child Loader sharing the Index, Graph, foreign
// property set, and text cache, but starting from an empty compiled
// Context (spec.md §4.8) that $namespaces/$schemas subsequently populate.
func (l *Loader) SubLoader() *Loader {
	return &Loader{
		context:       sharingForeignProperties(l.context.foreignProperties),
		index:         l.index,
		graph:         l.graph,
		tripleSources: l.tripleSources,
		textCache:     l.textCache,
		logger:        l.logger,
	}
}

// Context returns the Loader's compiled Context.
func (l *Loader) Context() *Context { return l.context }

// Index returns the Loader's shared Index.
func (l *Loader) Index() *Index { return l.index }

// Graph returns the Loader's shared Graph.
func (l *Loader) Graph() *Graph { return l.graph }
