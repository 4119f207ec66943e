// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import (
	"strings"

	"golang.org/x/mod/semver"
)

// AddNamespaces augments the vocabulary with ns, without touching rvocab
// — original_source/ref_resolver.py's add_namespaces only ever does
// `self.vocab.update(ns)`; rvocab is rebuilt solely by add_context. Kept
// faithful rather than "fixed", since nothing in spec.md's invariants
// depends on rvocab reflecting namespace-added entries.
func (c *Context) AddNamespaces(ns map[string]string) {
	for k, v := range ns {
		c.vocab[k] = v
	}
}

// splitProfileVersion splits a "$profile" value of the form "name@vX.Y.Z"
// into its name and version, validating the version with
// golang.org/x/mod/semver. A profile name without a recognized version
// suffix is returned unchanged with ok=false; it is still a valid plain
// profile reference, just without a version to report.
func splitProfileVersion(raw string) (name string, version string, ok bool) {
	i := strings.LastIndexByte(raw, '@')
	if i < 0 {
		return raw, "", false
	}
	candidate := raw[i+1:]
	if !semver.IsValid(candidate) {
		return raw, "", false
	}
	return raw[:i], candidate, true
}
