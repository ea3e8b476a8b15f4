// Package tree provides a generic n-ary tree whose leaves can be walked
// with a restartable, wrap-around cursor.
package tree

import (
	"iter"

	pkerrors "github.com/odvcencio/panelkit/pkg/errors"
)

// Node is a named tree node carrying an opaque payload.
// Names are unique among the children of one parent.
type Node[T any] struct {
	name     string
	payload  T
	parent   *Node[T]
	children []*Node[T]

	// generation is bumped on this node and every ancestor whenever the
	// structure below it changes.
	generation uint64
}

// NewNode creates a detached node.
func NewNode[T any](name string, payload T) *Node[T] {
	return &Node[T]{name: name, payload: payload}
}

// Name returns the node identifier.
func (n *Node[T]) Name() string {
	return n.name
}

// Payload returns the object carried by the node.
func (n *Node[T]) Payload() T {
	return n.payload
}

// Parent returns the parent node, or nil for a root.
func (n *Node[T]) Parent() *Node[T] {
	return n.parent
}

// Root walks up the parent chain and returns the topmost node.
func (n *Node[T]) Root() *Node[T] {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// HasChildren reports whether the node has at least one child.
func (n *Node[T]) HasChildren() bool {
	return len(n.children) > 0
}

// Len returns the number of direct children.
func (n *Node[T]) Len() int {
	return len(n.children)
}

// Children returns a copy of the child list in insertion order.
func (n *Node[T]) Children() []*Node[T] {
	out := make([]*Node[T], len(n.children))
	copy(out, n.children)
	return out
}

// Generation returns the structural generation of the subtree.
func (n *Node[T]) Generation() uint64 {
	return n.generation
}

// AddChild appends child, detaching it from any previous parent.
// It fails with DUPLICATE_NAME when a sibling already uses the child's name
// and with INVALID_ARGUMENT when the insertion would create a cycle. On
// failure the tree is left unchanged.
func (n *Node[T]) AddChild(child *Node[T]) error {
	if child == nil {
		return pkerrors.New(pkerrors.ErrCodeInvalidArgument, "cannot add a nil child")
	}
	for _, existing := range n.children {
		if existing.name == child.name {
			return pkerrors.Newf(pkerrors.ErrCodeDuplicateName,
				"node %q already has a child named %q", n.name, child.name).
				WithContext("parent", n.name)
		}
	}
	for a := n; a != nil; a = a.parent {
		if a == child {
			return pkerrors.Newf(pkerrors.ErrCodeInvalidArgument,
				"adding %q under %q would create a cycle", child.name, n.name)
		}
	}

	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	n.children = append(n.children, child)
	child.parent = n
	n.touch()
	return nil
}

// RemoveChild detaches child. It is a no-op when child is not a direct child.
func (n *Node[T]) RemoveChild(child *Node[T]) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			n.touch()
			return
		}
	}
}

// Child returns the first direct child with the given name, or nil.
func (n *Node[T]) Child(name string) *Node[T] {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Find searches the subtree depth-first, the node itself included.
func (n *Node[T]) Find(name string) *Node[T] {
	if n.name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Leaves yields the leaves of the subtree depth-first, children in
// insertion order. A node without children yields itself.
func (n *Node[T]) Leaves() iter.Seq[*Node[T]] {
	return func(yield func(*Node[T]) bool) {
		n.walkLeaves(yield)
	}
}

func (n *Node[T]) walkLeaves(yield func(*Node[T]) bool) bool {
	if len(n.children) == 0 {
		return yield(n)
	}
	for _, c := range n.children {
		if !c.walkLeaves(yield) {
			return false
		}
	}
	return true
}

// Ancestors yields the node itself followed by each ancestor up to the root.
func (n *Node[T]) Ancestors() iter.Seq[*Node[T]] {
	return func(yield func(*Node[T]) bool) {
		for a := n; a != nil; a = a.parent {
			if !yield(a) {
				return
			}
		}
	}
}

// String returns the node name.
func (n *Node[T]) String() string {
	return n.name
}

// touch marks this node and all ancestors as structurally changed.
func (n *Node[T]) touch() {
	for a := n; a != nil; a = a.parent {
		a.generation++
	}
}
