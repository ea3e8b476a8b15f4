package element

import (
	"github.com/mattn/go-runewidth"

	pkerrors "github.com/odvcencio/panelkit/pkg/errors"
	"github.com/odvcencio/panelkit/pkg/tree"
	"github.com/odvcencio/panelkit/pkg/ui/backend"
	"github.com/odvcencio/panelkit/pkg/ui/constraint"
)

// Base provides geometry resolution and coordinate translation.
// Embed it in concrete elements and call Init from their constructor.
//
// Geometry is never stored: every accessor re-imposes the constraints
// against the parent's current bounds.
type Base struct {
	node   *tree.Node[Canvas]
	geom   Geometry
	limits Limits
	title  string

	active  bool
	visible bool

	// inset is the margin reserved on every side, 1 for bordered panels.
	inset int
}

// Init binds the element to a fresh tree node named id. self must be the
// concrete element embedding b.
func (b *Base) Init(self Element, id string, g Geometry) error {
	if id == "" {
		return pkerrors.New(pkerrors.ErrCodeInvalidArgument, "element id is required")
	}
	if err := g.validate(); err != nil {
		return err
	}
	b.node = tree.NewNode[Canvas](id, self)
	b.geom = g
	return nil
}

// Node returns the tree node backing the element.
func (b *Base) Node() *tree.Node[Canvas] {
	return b.node
}

// ID returns the element's name in the tree.
func (b *Base) ID() string {
	return b.node.Name()
}

// Title returns the element title.
func (b *Base) Title() string {
	return b.title
}

// SetTitle sets the element title.
func (b *Base) SetTitle(title string) {
	b.title = title
}

// Active reports whether the element lies on the active path.
func (b *Base) Active() bool {
	return b.active
}

// SetActive sets the active flag.
func (b *Base) SetActive(active bool) {
	b.active = active
}

// Visible reports whether the last render of the element succeeded.
func (b *Base) Visible() bool {
	return b.visible
}

// SetVisible sets the visible flag.
func (b *Base) SetVisible(visible bool) {
	b.visible = visible
}

// Limits returns the configured size limits.
func (b *Base) Limits() Limits {
	return b.limits
}

// SetLimits replaces the size limits.
func (b *Base) SetLimits(l Limits) {
	b.limits = l
}

// SetY replaces the y constraint.
func (b *Base) SetY(p constraint.Position) error {
	if p == nil {
		return missingConstraint("y")
	}
	b.geom.Y = p
	return nil
}

// SetX replaces the x constraint.
func (b *Base) SetX(p constraint.Position) error {
	if p == nil {
		return missingConstraint("x")
	}
	b.geom.X = p
	return nil
}

// SetHeight replaces the height constraint.
func (b *Base) SetHeight(s constraint.Size) error {
	if s == nil {
		return missingConstraint("height")
	}
	b.geom.Height = s
	return nil
}

// SetWidth replaces the width constraint.
func (b *Base) SetWidth(s constraint.Size) error {
	if s == nil {
		return missingConstraint("width")
	}
	b.geom.Width = s
	return nil
}

// Geometry returns the element's constraints.
func (b *Base) Geometry() Geometry {
	return b.geom
}

// Parent returns the canvas the element draws on.
func (b *Base) Parent() (Canvas, error) {
	if b.node == nil || b.node.Parent() == nil {
		id := ""
		if b.node != nil {
			id = b.node.Name()
		}
		return nil, pkerrors.New(pkerrors.ErrCodeDetached, "element is not attached to a tree").
			WithContext("element", id)
	}
	return b.node.Parent().Payload(), nil
}

// ParentVisible reports whether the parent element is visible. The window
// manager at the root always counts as visible.
func (b *Base) ParentVisible() bool {
	p, err := b.Parent()
	if err != nil {
		return false
	}
	if el, ok := p.(Element); ok {
		return el.Visible()
	}
	return true
}

func (b *Base) parentBounds() (height, width int, err error) {
	p, err := b.Parent()
	if err != nil {
		return 0, 0, err
	}
	return p.Bounds()
}

func (b *Base) annotate(err error) error {
	if e, ok := err.(*pkerrors.Error); ok {
		return e.WithContext("element", b.node.Name())
	}
	return err
}

// Height resolves the element height, clamped to MaxHeight when set.
func (b *Base) Height() (int, error) {
	return b.length(constraint.AxisY, b.geom.Height, b.limits.MinHeight, b.limits.MinWidth, b.limits.MaxHeight)
}

// Width resolves the element width, clamped to MaxWidth when set.
func (b *Base) Width() (int, error) {
	return b.length(constraint.AxisX, b.geom.Width, b.limits.MinWidth, b.limits.MinHeight, b.limits.MaxWidth)
}

func (b *Base) length(axis constraint.Axis, s constraint.Size, minOnAxis, minOther, maxOnAxis int) (int, error) {
	bh, bw, err := b.parentBounds()
	if err != nil {
		return 0, err
	}
	n, err := s.Impose(axis, minOnAxis, minOther, bh, bw)
	if err != nil {
		return 0, b.annotate(err)
	}
	if maxOnAxis > 0 && n > maxOnAxis {
		n = maxOnAxis
	}
	return n, nil
}

// Y resolves the element row inside its parent.
func (b *Base) Y() (int, error) {
	return b.position(constraint.AxisY, b.geom.Y)
}

// X resolves the element column inside its parent.
func (b *Base) X() (int, error) {
	return b.position(constraint.AxisX, b.geom.X)
}

func (b *Base) position(axis constraint.Axis, p constraint.Position) (int, error) {
	h, err := b.Height()
	if err != nil {
		return 0, err
	}
	w, err := b.Width()
	if err != nil {
		return 0, err
	}
	bh, bw, err := b.parentBounds()
	if err != nil {
		return 0, err
	}
	n, err := p.Impose(axis, h, w, bh, bw)
	if err != nil {
		return 0, b.annotate(err)
	}
	return n, nil
}

// Rect resolves the full geometry in parent coordinates.
func (b *Base) Rect() (y, x, height, width int, err error) {
	if height, err = b.Height(); err != nil {
		return
	}
	if width, err = b.Width(); err != nil {
		return
	}
	if y, err = b.Y(); err != nil {
		return
	}
	x, err = b.X()
	return
}

// Bounds returns the space offered to children: the resolved size less
// the inset on every side.
func (b *Base) Bounds() (height, width int, err error) {
	h, err := b.Height()
	if err != nil {
		return 0, 0, err
	}
	w, err := b.Width()
	if err != nil {
		return 0, 0, err
	}
	return max(0, h-2*b.inset), max(0, w-2*b.inset), nil
}

// origin returns the parent coordinates of the element's local (0, 0).
func (b *Base) origin() (y, x int, err error) {
	if y, err = b.Y(); err != nil {
		return 0, 0, err
	}
	if x, err = b.X(); err != nil {
		return 0, 0, err
	}
	return y + b.inset, x + b.inset, nil
}

// Draw writes text at the local (y, x), truncated to the inner width, and
// forwards it to the parent. Origins outside the inner area draw nothing.
func (b *Base) Draw(y, x int, text string, style backend.TextStyle) error {
	ih, iw, err := b.Bounds()
	if err != nil {
		return err
	}
	if y < 0 || x < 0 || y >= ih || x >= iw {
		return nil
	}
	oy, ox, err := b.origin()
	if err != nil {
		return err
	}
	parent, err := b.Parent()
	if err != nil {
		return err
	}
	return parent.Draw(oy+y, ox+x, runewidth.Truncate(text, iw-x, ""), style)
}

// DrawRectangle outlines a rectangle given in local coordinates, clipped
// to the inner area. A rectangle with equal rows or equal columns, before
// or after clipping, draws nothing.
func (b *Base) DrawRectangle(uly, ulx, lry, lrx int) error {
	if uly == lry || ulx == lrx {
		return nil
	}
	ih, iw, err := b.Bounds()
	if err != nil {
		return err
	}
	uly, ulx = max(uly, 0), max(ulx, 0)
	lry, lrx = min(lry, ih-1), min(lrx, iw-1)
	if uly >= lry || ulx >= lrx {
		return nil
	}
	oy, ox, err := b.origin()
	if err != nil {
		return err
	}
	parent, err := b.Parent()
	if err != nil {
		return err
	}
	return parent.DrawRectangle(uly+oy, ulx+ox, lry+oy, lrx+ox)
}
