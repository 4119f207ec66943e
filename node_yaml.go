// SPDX-FileCopyrightText: Copyright 2015-2025 go-swagger maintainers
// SPDX-License-Identifier: Apache-2.0

package salad

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// parseYAML decodes text (YAML, or JSON as its flow-style subset) into a
// Node tree, preserving mapping key order by decoding through *yaml.Node
// first — gopkg.in/yaml.v3 keeps a mapping's key/value pairs in document
// order in its Content slice, which is exactly the ordering guarantee
// spec.md §3 requires and encoding/json's map-based decoding cannot give.
func parseYAML(text string, sourceURL string) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return Node{}, fmt.Errorf("%w: %s: %s", ErrSyntax, sourceURL, err)
	}
	if len(doc.Content) == 0 {
		return NewNull(), nil
	}
	return nodeFromYAML(doc.Content[0])
}

func nodeFromYAML(n *yaml.Node) (Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NewNull(), nil
		}
		return nodeFromYAML(n.Content[0])
	case yaml.AliasNode:
		return nodeFromYAML(n.Alias)
	case yaml.ScalarNode:
		return scalarFromYAML(n), nil
	case yaml.SequenceNode:
		items := make([]Node, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeFromYAML(c)
			if err != nil {
				return Node{}, err
			}
			items = append(items, v)
		}
		return NewSequenceNode(items), nil
	case yaml.MappingNode:
		m := NewMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			valNode := n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return Node{}, fmt.Errorf("%w: mapping key must be a scalar", ErrSyntax)
			}
			val, err := nodeFromYAML(valNode)
			if err != nil {
				return Node{}, err
			}
			m.Set(keyNode.Value, val)
		}
		return NewMappingNode(m), nil
	default:
		return NewNull(), nil
	}
}

func scalarFromYAML(n *yaml.Node) Node {
	switch n.Tag {
	case "!!null":
		return NewNull()
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err == nil {
			return NewBool(b)
		}
	case "!!int", "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err == nil {
			return NewNumber(f)
		}
	}
	return NewString(n.Value)
}

// EncodeYAML writes n to w as YAML, used by the CLI's --format yaml
// output path.
func EncodeYAML(w io.Writer, n Node) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(nodeToYAML(n))
}

// nodeToYAML lowers a Node back into a *yaml.Node for encoding — used by
// the CLI's --format yaml output path.
func nodeToYAML(n Node) *yaml.Node {
	switch n.kind {
	case KindMapping:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		n.mapping.Range(func(key string, value Node) {
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				nodeToYAML(value),
			)
		})
		return out
	case KindSequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.seq.items {
			out.Content = append(out.Content, nodeToYAML(item))
		}
		return out
	default:
		return scalarToYAML(n.scalar)
	}
}

func scalarToYAML(v any) *yaml.Node {
	switch t := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(t)}
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(t, 'g', -1, 64)}
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprintf("%v", t)}
	}
}
