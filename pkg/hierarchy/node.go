package hierarchy

import (
	"fmt"
	"strings"

	"github.com/matzehuels/skillgraph/pkg/errors"
)

// Kind selects one of the two parallel hierarchies.
type Kind string

// Hierarchy kinds.
const (
	KindRole  Kind = "role"
	KindSkill Kind = "skill"
)

// Kinds lists every hierarchy kind in display order.
var Kinds = []Kind{KindRole, KindSkill}

// ParseKind converts a user-supplied string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindRole:
		return KindRole, nil
	case KindSkill:
		return KindSkill, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidSource, "unknown hierarchy source %q (must be role or skill)", s)
	}
}

// Node is one entity at any hierarchy level (root, domain, skill, sub-skill).
//
// Nodes are built once per data load and treated as immutable afterwards;
// layout results refer to them by pointer identity.
type Node struct {
	Name      string  `json:"name" bson:"name"`
	Weight    int     `json:"weight" bson:"weight"`
	Frequency float64 `json:"frequency" bson:"frequency"` // 0-100; zero on roots
	Children  []*Node `json:"children,omitempty" bson:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Child returns the direct child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Find follows a path of child names from n. An empty path returns n.
func (n *Node) Find(path ...string) *Node {
	cur := n
	for _, name := range path {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Walk visits n and its descendants depth-first in child order. fn receives
// the node, its parent (nil for n) and its depth relative to n. Returning
// false from fn skips the node's subtree.
func (n *Node) Walk(fn func(node, parent *Node, depth int) bool) {
	var visit func(node, parent *Node, depth int)
	visit = func(node, parent *Node, depth int) {
		if !fn(node, parent, depth) {
			return
		}
		for _, c := range node.Children {
			visit(c, node, depth+1)
		}
	}
	visit(n, nil, 0)
}

// Leaves returns the leaf descendants of n in depth-first order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(node, _ *Node, _ int) bool {
		if node.IsLeaf() {
			out = append(out, node)
		}
		return true
	})
	return out
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, *Node, int) bool {
		count++
		return true
	})
	return count
}

// Validate checks the structural invariants of a tree: non-negative weights,
// frequencies within [0,100], unique sibling names, and every non-leaf weight
// equal to the sum of its children's weights. Node values are checked across
// the whole tree before any sum, so a bad leaf is reported as itself.
func Validate(root *Node) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidHierarchy, "hierarchy is empty")
	}
	var err error
	root.Walk(func(node, _ *Node, _ int) bool {
		if err != nil {
			return false
		}
		if node.Weight < 0 {
			err = errors.New(errors.ErrCodeInvalidHierarchy, "node %q has negative weight %d", node.Name, node.Weight)
			return false
		}
		if node.Frequency < 0 || node.Frequency > 100 {
			err = errors.New(errors.ErrCodeInvalidHierarchy, "node %q has frequency %.2f outside [0,100]", node.Name, node.Frequency)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	root.Walk(func(node, _ *Node, _ int) bool {
		if err != nil {
			return false
		}
		if node.IsLeaf() {
			return true
		}
		sum := 0
		seen := make(map[string]bool, len(node.Children))
		for _, c := range node.Children {
			if seen[c.Name] {
				err = errors.New(errors.ErrCodeInvalidHierarchy, "node %q has duplicate child %q", node.Name, c.Name)
				return false
			}
			seen[c.Name] = true
			sum += c.Weight
		}
		if sum != node.Weight {
			err = errors.New(errors.ErrCodeInvalidHierarchy, "node %q weight %d != children sum %d", node.Name, node.Weight, sum)
			return false
		}
		return true
	})
	return err
}

// String returns a short description used in logs.
func (n *Node) String() string {
	return fmt.Sprintf("%s(w=%d f=%.0f)", n.Name, n.Weight, n.Frequency)
}
