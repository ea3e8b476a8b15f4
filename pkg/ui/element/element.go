// Package element implements the retained widget tree: elements that
// resolve their geometry from constraints against their parent and draw
// through their parent's coordinate space.
package element

import (
	"github.com/odvcencio/panelkit/pkg/tree"
	"github.com/odvcencio/panelkit/pkg/ui/backend"
	"github.com/odvcencio/panelkit/pkg/ui/constraint"

	pkerrors "github.com/odvcencio/panelkit/pkg/errors"
)

// Canvas is the drawing capability an element needs from whatever sits
// above it: another element, or the window manager at the root.
// Coordinates are local to the receiver.
type Canvas interface {
	// Bounds returns the space offered to children.
	Bounds() (height, width int, err error)
	Draw(y, x int, text string, style backend.TextStyle) error
	DrawRectangle(uly, ulx, lry, lrx int) error
}

// Element is a node payload with resolvable geometry and a render behavior.
type Element interface {
	Canvas

	// Node returns the tree node backing the element.
	Node() *tree.Node[Canvas]
	// Render draws the element. Failures never escape: an element that
	// cannot be drawn marks itself invisible.
	Render()

	ID() string
	Title() string
	Active() bool
	SetActive(active bool)
	Visible() bool
	SetVisible(visible bool)
}

// Focusable is implemented by leaves that opt out of focus cycling.
// Leaves that do not implement it can always take focus.
type Focusable interface {
	CanFocus() bool
}

// Geometry bundles the four constraints owned by an element.
type Geometry struct {
	Y      constraint.Position
	X      constraint.Position
	Height constraint.Size
	Width  constraint.Size
}

func (g Geometry) validate() error {
	switch {
	case g.Y == nil:
		return missingConstraint("y")
	case g.X == nil:
		return missingConstraint("x")
	case g.Height == nil:
		return missingConstraint("height")
	case g.Width == nil:
		return missingConstraint("width")
	}
	return nil
}

func missingConstraint(name string) error {
	return pkerrors.Newf(pkerrors.ErrCodeInvalidArgument, "%s constraint is required", name)
}

// Limits bounds the resolved size of an element. A zero maximum is unbounded.
type Limits struct {
	MinHeight int
	MinWidth  int
	MaxHeight int
	MaxWidth  int
}

// Hide marks e and every element below it invisible.
func Hide(e Element) {
	e.SetVisible(false)
	for _, c := range Children(e.Node()) {
		Hide(c)
	}
}

// Children returns the elements attached below n, in insertion order.
func Children(n *tree.Node[Canvas]) []Element {
	nodes := n.Children()
	out := make([]Element, 0, len(nodes))
	for _, c := range nodes {
		if el, ok := c.Payload().(Element); ok {
			out = append(out, el)
		}
	}
	return out
}
