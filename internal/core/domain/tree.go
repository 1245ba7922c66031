package domain

import (
	"errors"
	"fmt"
	"iter"

	"go.trai.ch/zerr"
)

// metaNode is the error metadata key carrying the offending node's location.
const metaNode = "node"

// ComponentTree is the artifact produced by a translator for one unit.
// The root Kind is the symbol the unit exports; the Kind of every node is a
// potential reference to a component defined in another unit.
type ComponentTree struct {
	ID       string
	Kind     string
	Props    map[string]any
	Children []*ComponentTree
}

// Walk yields every node of the tree in pre-order, starting with the root.
func (t *ComponentTree) Walk() iter.Seq[*ComponentTree] {
	return func(yield func(*ComponentTree) bool) {
		t.walk(yield)
	}
}

func (t *ComponentTree) walk(yield func(*ComponentTree) bool) bool {
	if t == nil {
		return true
	}
	if !yield(t) {
		return false
	}
	for _, child := range t.Children {
		if !child.walk(yield) {
			return false
		}
	}
	return true
}

// Kinds returns the distinct node kinds in order of first encounter.
func (t *ComponentTree) Kinds() []string {
	seen := make(map[string]struct{})
	var kinds []string
	for node := range t.Walk() {
		if _, ok := seen[node.Kind]; ok {
			continue
		}
		seen[node.Kind] = struct{}{}
		kinds = append(kinds, node.Kind)
	}
	return kinds
}

// Exports returns the symbols this tree defines. Only the root kind is exported.
func (t *ComponentTree) Exports() []string {
	if t == nil || t.Kind == "" {
		return nil
	}
	return []string{t.Kind}
}

// Size returns the number of nodes in the tree.
func (t *ComponentTree) Size() int {
	n := 0
	for range t.Walk() {
		n++
	}
	return n
}

// Clone returns a deep copy of the tree. Props values that are maps or
// slices are copied as well.
func (t *ComponentTree) Clone() *ComponentTree {
	if t == nil {
		return nil
	}
	clone := &ComponentTree{ID: t.ID, Kind: t.Kind}
	if t.Props != nil {
		clone.Props = cloneProps(t.Props)
	}
	if t.Children != nil {
		clone.Children = make([]*ComponentTree, len(t.Children))
		for i, child := range t.Children {
			clone.Children[i] = child.Clone()
		}
	}
	return clone
}

func cloneProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneProps(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Validate checks the structural invariants a compiled tree must satisfy:
// every node, the root included, has a kind and no child is nil.
func (t *ComponentTree) Validate() error {
	if t == nil {
		return ErrTreeMissing
	}
	return t.validate("root")
}

func (t *ComponentTree) validate(at string) error {
	if t.Kind == "" {
		return zerr.With(ErrNodeMissingKind, metaNode, at)
	}
	for i, child := range t.Children {
		childAt := fmt.Sprintf("%s/%s[%d]", at, t.Kind, i)
		if child == nil {
			return zerr.With(ErrNodeEmpty, metaNode, childAt)
		}
		if err := child.validate(childAt); err != nil {
			return err
		}
	}
	return nil
}

// MalformedNode returns the location of the node a Validate error refers to,
// such as "root/Card[0]", or "" when err carries none.
func MalformedNode(err error) string {
	var zerrErr *zerr.Error
	if !errors.As(err, &zerrErr) {
		return ""
	}
	at, _ := zerrErr.Metadata()[metaNode].(string)
	return at
}
