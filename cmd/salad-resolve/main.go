// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

// Command salad-resolve resolves a schema-salad style document: it loads
// an optional @context, builds a Loader, resolves $import/$include/$mixin
// directives and identifier/type-DSL desugaring throughout the document,
// validates every link, and prints the resolved tree.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	salad "github.com/igormusinov/schema-salad-go"
)

var (
	flagContext      string
	flagBase         string
	flagNamespaces   []string
	flagSchemas      []string
	flagNoCheckLinks bool
	flagFormat       = outputFormat("json")
	flagDebug        bool
)

// outputFormat is a pflag.Value so an invalid --format is rejected at
// flag-parse time rather than after the document has already resolved,
// the same addFlagVar/pflag.Value idiom cuelang.org/go's cmd/cue uses for
// its own enum-shaped flags.
type outputFormat string

func (f *outputFormat) String() string { return string(*f) }

func (f *outputFormat) Set(s string) error {
	switch s {
	case "json", "yaml":
		*f = outputFormat(s)
		return nil
	default:
		return fmt.Errorf("must be json or yaml, got %q", s)
	}
}

func (f *outputFormat) Type() string { return "format" }

var _ pflag.Value = (*outputFormat)(nil)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "salad-resolve <document>",
		Short: "Resolve a schema-salad document's references and links",
		Args:  cobra.ExactArgs(1),
		RunE:  runResolve,
	}
	flags := cmd.Flags()
	flags.StringVar(&flagContext, "context", "", "path or URL of an @context document (default: empty context)")
	flags.StringVar(&flagBase, "base", "", "base URL to resolve the document against (default: file://<cwd>/)")
	flags.StringArrayVar(&flagNamespaces, "namespace", nil, "vocabulary namespace as prefix=URL (repeatable)")
	flags.StringArrayVar(&flagSchemas, "schema", nil, "RDF schema URL to load (repeatable)")
	flags.BoolVar(&flagNoCheckLinks, "no-check-links", false, "skip link validation")
	flags.Var(&flagFormat, "format", "output format: json or yaml")
	flags.BoolVar(&flagDebug, "debug", false, "enable debug logging")
	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if flagDebug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With("request_id", uuid.New().String())

	ctx := salad.NewContext()
	loader, err := salad.NewLoader(ctx, salad.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("building loader: %w", err)
	}

	if flagContext != "" {
		logger.Debug("loading context document", "path", flagContext)
		contextURL := flagContext
		if !strings.Contains(contextURL, "://") {
			abs, err := filepath.Abs(contextURL)
			if err != nil {
				return fmt.Errorf("resolving context path %s: %w", flagContext, err)
			}
			contextURL = "file://" + filepath.ToSlash(abs)
		}
		contextDoc, err := loader.Fetch(contextURL, false)
		if err != nil {
			return fmt.Errorf("fetching context %s: %w", flagContext, err)
		}
		if err := ctx.AddContext(contextDoc, salad.URL{}); err != nil {
			return fmt.Errorf("compiling context %s: %w", flagContext, err)
		}
	}

	ns, err := parseNamespaces(flagNamespaces)
	if err != nil {
		return err
	}
	if len(ns) > 0 {
		if err := loader.AddNamespaces(ns); err != nil {
			return fmt.Errorf("adding namespaces: %w", err)
		}
	}
	if len(flagSchemas) > 0 {
		base := flagBase
		if base == "" {
			base = "."
		}
		if err := loader.AddSchemas(flagSchemas, base); err != nil {
			return fmt.Errorf("adding schemas: %w", err)
		}
	}

	var baseURL *salad.URL
	if flagBase != "" {
		u, err := salad.ParseURL(flagBase)
		if err != nil {
			return fmt.Errorf("parsing --base: %w", err)
		}
		baseURL = &u
	}

	logger.Info("resolving document", "document", args[0])
	resolved, metadata, err := loader.ResolveRef(salad.NewString(args[0]), baseURL, !flagNoCheckLinks)
	if err != nil {
		logger.Error("resolution failed", "error", err.Error())
		return err
	}

	if err := printNode(cmd, resolved, metadata); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// parseNamespaces turns repeated --namespace prefix=URL flags into a map,
// the same key=value shape cobra/pflag-based teacher-pack CLIs use for
// repeatable label flags.
func parseNamespaces(raw []string) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for _, kv := range raw {
		prefix, url, ok := strings.Cut(kv, "=")
		if !ok || prefix == "" {
			return nil, fmt.Errorf("--namespace must be prefix=URL, got %q", kv)
		}
		out[prefix] = url
	}
	return out, nil
}

// printNode writes the resolved document (and, if present, its $graph
// metadata) to the command's stdout in the requested format.
func printNode(cmd *cobra.Command, resolved, metadata salad.Node) error {
	out := cmd.OutOrStdout()
	payload := resolved
	if metadata.Kind() == salad.KindMapping {
		wrapper := salad.NewMapping()
		wrapper.Set("graph", resolved)
		wrapper.Set("metadata", metadata)
		payload = salad.NewMappingNode(wrapper)
	}

	switch flagFormat {
	case "yaml":
		return salad.EncodeYAML(out, payload)
	default:
		b, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}
}
