package input

import (
	"fmt"

	"github.com/ja-he/workbench/internal/control/action"
)

// node is a node of a Tree. It has either children or an action.
type node struct {
	children map[Key]*node
	action   action.Action
}

func newNode() *node { return &node{children: map[Key]*node{}} }

// Tree maps key sequences to actions.
//
// Example:
//
//	tree:                       mapping:
//
//	x
//	+-y
//	| +-z   -> action1          "xyz" -> action1
//	+-z     -> action2          "xz"  -> action2
//	z       -> action3          "z"   -> action3
type Tree struct {
	root    *node
	current *node
	help    Help
}

// NewTree constructs a Tree for the given mappings.
// A mapping that is a prefix of another, or that can not be parsed, is an
// error.
func NewTree(spec map[Keyspec]action.Action) (*Tree, error) {
	t := EmptyTree()
	for keyspec, a := range spec {
		if err := t.Bind(keyspec, a); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// EmptyTree returns a tree without bindings.
func EmptyTree() *Tree {
	root := newNode()
	return &Tree{root: root, current: root, help: Help{}}
}

// Bind adds a binding of the given sequence to the given action.
func (t *Tree) Bind(keyspec Keyspec, a action.Action) error {
	sequence, err := ParseKeyspec(keyspec)
	if err != nil {
		return fmt.Errorf("could not bind '%s' (%w)", keyspec, err)
	}
	if len(sequence) == 0 {
		return fmt.Errorf("could not bind empty keyspec")
	}

	current := t.root
	for i, key := range sequence {
		if current.action != nil {
			return fmt.Errorf("could not bind '%s' (prefix already bound)", keyspec)
		}
		next, ok := current.children[key]
		if !ok {
			next = newNode()
			current.children[key] = next
		}
		if i == len(sequence)-1 {
			if len(next.children) > 0 || next.action != nil {
				return fmt.Errorf("could not bind '%s' (sequence already bound or prefix of a binding)", keyspec)
			}
			next.action = a
		}
		current = next
	}
	t.help[keyspec] = a.Explain()
	return nil
}

// ProcessInput attempts to process the provided input.
// Returns whether the provided input "applied", i.E. it either continued a
// sequence or completed one and performed its action.
func (t *Tree) ProcessInput(k Key) (applied bool) {
	next, ok := t.current.children[k]
	switch {
	case !ok:
		t.current = t.root
		return false
	case next.action != nil:
		t.current = t.root
		next.action.Do()
		return true
	default:
		t.current = next
		return true
	}
}

// CapturesInput returns whether the tree is in the middle of a sequence.
func (t *Tree) CapturesInput() bool {
	return t.current != t.root
}

// GetHelp returns the bindings of this tree.
func (t *Tree) GetHelp() Help {
	result := Help{}
	for k, v := range t.help {
		result[k] = v
	}
	return result
}
