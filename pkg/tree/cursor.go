package tree

// Cursor walks the leaves of a tree as an endless cycle.
// The leaf list is recomputed lazily whenever the tree structure changes.
type Cursor[T any] struct {
	root       *Node[T]
	leaves     []*Node[T]
	index      int // -1 before the first leaf
	generation uint64
	synced     bool
}

// NewCursor creates a cursor positioned before the first leaf of root.
func NewCursor[T any](root *Node[T]) *Cursor[T] {
	return &Cursor[T]{root: root, index: -1}
}

// Root returns the node whose leaves the cursor walks.
func (c *Cursor[T]) Root() *Node[T] {
	return c.root
}

// Len returns the number of leaves in the current tree.
func (c *Cursor[T]) Len() int {
	c.sync()
	return len(c.leaves)
}

// Current returns the leaf the cursor points at, or nil before the first advance.
func (c *Cursor[T]) Current() *Node[T] {
	c.sync()
	if c.index < 0 || c.index >= len(c.leaves) {
		return nil
	}
	return c.leaves[c.index]
}

// Advance moves to the next leaf and returns it, wrapping back to the first
// leaf after the last one.
func (c *Cursor[T]) Advance() *Node[T] {
	c.sync()
	if len(c.leaves) == 0 {
		return nil
	}
	c.index = (c.index + 1) % len(c.leaves)
	return c.leaves[c.index]
}

// Reset rewinds the cursor so the next Advance returns the first leaf.
func (c *Cursor[T]) Reset() {
	c.sync()
	c.index = -1
}

// Seek positions the cursor on leaf. It returns false and leaves the cursor
// untouched when leaf is not a leaf of the tree.
func (c *Cursor[T]) Seek(leaf *Node[T]) bool {
	c.sync()
	for i, l := range c.leaves {
		if l == leaf {
			c.index = i
			return true
		}
	}
	return false
}

// SeekBefore positions the cursor so the next Advance returns leaf. It
// returns false and leaves the cursor untouched when leaf is not a leaf of
// the tree.
func (c *Cursor[T]) SeekBefore(leaf *Node[T]) bool {
	if !c.Seek(leaf) {
		return false
	}
	c.index--
	return true
}

func (c *Cursor[T]) sync() {
	if c.synced && c.root.generation == c.generation {
		return
	}

	var current *Node[T]
	if c.index >= 0 && c.index < len(c.leaves) {
		current = c.leaves[c.index]
	}

	c.leaves = c.leaves[:0]
	for leaf := range c.root.Leaves() {
		c.leaves = append(c.leaves, leaf)
	}
	c.generation = c.root.generation
	c.synced = true

	c.index = -1
	if current == nil {
		return
	}
	for i, l := range c.leaves {
		if l == current {
			c.index = i
			return
		}
	}
}
