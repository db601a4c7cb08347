package hierarchy

// Project returns the two-level render projection of root: a copy of root
// whose children keep their own direct children, with everything deeper
// dropped. Weights and frequencies are copied as-is, so a projected skill
// still carries the totals of the sub-skills it no longer shows.
//
// The returned tree shares no nodes with root.
func Project(root *Node) *Node {
	if root == nil {
		return nil
	}
	out := shallowCopy(root)
	for _, top := range root.Children {
		t := shallowCopy(top)
		for _, leaf := range top.Children {
			t.Children = append(t.Children, shallowCopy(leaf))
		}
		out.Children = append(out.Children, t)
	}
	return out
}

func shallowCopy(n *Node) *Node {
	return &Node{Name: n.Name, Weight: n.Weight, Frequency: n.Frequency}
}

// Clone returns a deep copy of the tree rooted at n.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	out := shallowCopy(n)
	for _, c := range n.Children {
		out.Children = append(out.Children, Clone(c))
	}
	return out
}

// Equal reports whether two trees have identical names, weights, frequencies
// and child order.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || a.Weight != b.Weight || a.Frequency != b.Frequency || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
