// Package translator provides a Translator that reads component trees written as YAML.
//
// A unit describes one component tree:
//
//	kind: Screen
//	id: main
//	props:
//	  title: Hello
//	children:
//	  - kind: Card
//	  - kind: Button
//	    props:
//	      label: OK
package translator

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/recomp/internal/core/domain"
	"go.trai.ch/recomp/internal/core/ports"
	"gopkg.in/yaml.v3"
)

var _ ports.Translator = (*YAML)(nil)

const (
	keyKind     = "kind"
	keyID       = "id"
	keyProps    = "props"
	keyChildren = "children"
)

// maxAliasedNodes bounds how many components may be produced by expanding
// aliases in one document.
const maxAliasedNodes = 10000

// yamlLineError matches the positioned syntax errors produced by yaml.v3.
var yamlLineError = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

// YAML translates YAML component descriptions.
type YAML struct{}

// NewYAML creates a new YAML translator.
func NewYAML() *YAML {
	return &YAML{}
}

// Translate parses source into a component tree.
func (y *YAML) Translate(source []byte) (*domain.ComponentTree, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, domain.NewInvalidComponentError("", "empty document")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return nil, syntaxError(err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, domain.NewInvalidComponentError("", "empty document")
	}

	d := &decoder{expanding: make(map[*yaml.Node]struct{})}
	return d.decode(doc.Content[0])
}

// syntaxError converts a yaml.v3 error into a positioned TranslationError.
func syntaxError(err error) error {
	msg := err.Error()
	if m := yamlLineError.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return &domain.TranslationError{Line: line, Column: 1, Message: m[2]}
	}
	return &domain.TranslationError{Message: strings.TrimPrefix(msg, "yaml: ")}
}

func positioned(n *yaml.Node, format string, args ...any) error {
	return &domain.TranslationError{
		Line:    n.Line,
		Column:  n.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

// decoder tracks alias expansion across one document.
type decoder struct {
	// expanding holds the alias targets on the current decoding path.
	expanding map[*yaml.Node]struct{}
	// aliased counts components decoded inside an alias expansion.
	aliased int
}

func (d *decoder) decode(n *yaml.Node) (*domain.ComponentTree, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		target := n.Alias
		if _, ok := d.expanding[target]; ok {
			return nil, positioned(n, "recursive alias")
		}
		d.expanding[target] = struct{}{}
		defer delete(d.expanding, target)
		n = target
	}
	if n.Kind != yaml.MappingNode {
		return nil, positioned(n, "expected a component mapping, got %s", nodeKindName(n))
	}
	if len(d.expanding) > 0 {
		d.aliased++
		if d.aliased > maxAliasedNodes {
			return nil, positioned(n, "too many components expanded from aliases (limit %d)", maxAliasedNodes)
		}
	}

	tree := &domain.ComponentTree{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]

		switch key.Value {
		case keyKind:
			if value.Kind != yaml.ScalarNode {
				return nil, positioned(value, "kind must be a string")
			}
			tree.Kind = strings.TrimSpace(value.Value)
		case keyID:
			if value.Kind != yaml.ScalarNode {
				return nil, positioned(value, "id must be a string")
			}
			tree.ID = value.Value
		case keyProps:
			if value.Kind != yaml.MappingNode {
				return nil, positioned(value, "props must be a mapping")
			}
			props := make(map[string]any)
			if err := value.Decode(&props); err != nil {
				return nil, positioned(value, "invalid props: %v", err)
			}
			tree.Props = props
		case keyChildren:
			if value.Kind != yaml.SequenceNode {
				return nil, positioned(value, "children must be a list")
			}
			for _, c := range value.Content {
				child, err := d.decode(c)
				if err != nil {
					return nil, err
				}
				tree.Children = append(tree.Children, child)
			}
		default:
			return nil, positioned(key, "unknown field %q", key.Value)
		}
	}

	if tree.Kind == "" {
		return nil, domain.NewInvalidComponentError("",
			fmt.Sprintf("component at %d:%d has no kind", n.Line, n.Column))
	}
	return tree, nil
}

func nodeKindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "document"
	}
}
