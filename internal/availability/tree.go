package availability

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Operator joins the children of a Tree
type Operator string

const (
	OpAnd    Operator = "&"
	OpOr     Operator = "|"
	OpNotAnd Operator = "!&"
	OpNotOr  Operator = "!|"
)

// negates reports whether the operator inverts its children
func (o Operator) negates() bool {
	return o == OpNotAnd || o == OpNotOr
}

// Node is either a *Tree or a *Condition
type Node interface {
	node()
}

// Tree is a boolean combination of child nodes
type Tree struct {
	Op       Operator
	Children []Node
}

// Condition is a leaf of a given type. Params holds the leaf's raw JSON.
type Condition struct {
	Type   string
	Params json.RawMessage
}

func (*Tree) node()      {}
func (*Condition) node() {}

// Match is a condition found in a tree together with the negation in force at its position
type Match struct {
	Condition *Condition
	Negated   bool
}

type rawNode struct {
	Type     *string           `json:"type"`
	Op       *Operator         `json:"op"`
	Children []json.RawMessage `json:"c"`
}

// ParseTree decodes an availability JSON document
func ParseTree(data []byte) (*Tree, error) {
	if len(data) == 0 {
		return nil, errors.New("empty availability")
	}

	n, err := parseNode(data)
	if err != nil {
		return nil, err
	}

	tree, ok := n.(*Tree)
	if !ok {
		return nil, errors.New("availability root is not a tree")
	}
	return tree, nil
}

func parseNode(data []byte) (Node, error) {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode availability node: %w", err)
	}

	if raw.Op == nil {
		if raw.Type == nil {
			return nil, errors.New("availability node has neither op nor type")
		}
		return &Condition{Type: *raw.Type, Params: json.RawMessage(data)}, nil
	}

	switch *raw.Op {
	case OpAnd, OpOr, OpNotAnd, OpNotOr:
	default:
		return nil, fmt.Errorf("unknown availability operator %q", *raw.Op)
	}

	tree := &Tree{Op: *raw.Op, Children: make([]Node, 0, len(raw.Children))}
	for _, c := range raw.Children {
		child, err := parseNode(c)
		if err != nil {
			return nil, err
		}
		tree.Children = append(tree.Children, child)
	}
	return tree, nil
}

// FindFirst returns the first condition of the given type in depth-first order
func (t *Tree) FindFirst(conditionType string) (Match, bool) {
	return findFirst(t, conditionType, false)
}

func findFirst(t *Tree, conditionType string, negated bool) (Match, bool) {
	negated = negated != t.Op.negates()
	for _, child := range t.Children {
		switch n := child.(type) {
		case *Condition:
			if n.Type == conditionType {
				return Match{Condition: n, Negated: negated}, true
			}
		case *Tree:
			if m, ok := findFirst(n, conditionType, negated); ok {
				return m, true
			}
		}
	}
	return Match{}, false
}
