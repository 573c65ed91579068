package toolkit

import "fmt"

// Tree is a headless Toolkit keeping its controls in memory.
// It is used where no screen is available, e.g. for inspecting sessions or in
// tests.
type Tree struct {
	root    *Node
	created int
	live    int
}

// Node is a control of a Tree.
type Node struct {
	tree     *Tree
	parent   *Node
	children []*Node
	visible  bool
	disposed bool
}

// NewTree returns a new tree toolkit with a single root control.
func NewTree() *Tree {
	t := &Tree{}
	t.root = &Node{tree: t, visible: true}
	return t
}

// Root returns the root control of the tree.
func (t *Tree) Root() *Node { return t.root }

// CreateControl creates a new, initially invisible control under the given
// parent, which must be a live node of this tree.
func (t *Tree) CreateControl(parent Control) (Control, error) {
	p, ok := parent.(*Node)
	if !ok || p == nil || p.tree != t {
		return nil, fmt.Errorf("parent '%v' is not a control of this toolkit", parent)
	}
	if p.disposed {
		return nil, ErrDisposed
	}
	n := &Node{tree: t, parent: p}
	p.children = append(p.children, n)
	t.created++
	t.live++
	return n, nil
}

// Created returns the number of controls created, excluding the root.
func (t *Tree) Created() int { return t.created }

// Live returns the number of created controls not yet disposed.
func (t *Tree) Live() int { return t.live }

// Dispose disposes the node and all its descendants and detaches it from its
// parent.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	for _, c := range n.children {
		c.Dispose()
	}
	n.children = nil
	n.disposed = true
	if n.parent != nil {
		n.tree.live--
		n.parent.detach(n)
	}
}

func (n *Node) detach(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// IsDisposed indicates whether the node was disposed.
func (n *Node) IsDisposed() bool { return n.disposed }

// SetVisible sets the node's own visibility.
func (n *Node) SetVisible(visible bool) { n.visible = visible }

// IsVisible indicates whether the node and all its ancestors are visible.
func (n *Node) IsVisible() bool {
	if n.disposed || !n.visible {
		return false
	}
	return n.parent == nil || n.parent.IsVisible()
}

// Children returns the live children of the node.
func (n *Node) Children() []*Node {
	result := make([]*Node, len(n.children))
	copy(result, n.children)
	return result
}
