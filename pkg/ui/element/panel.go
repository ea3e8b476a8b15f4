package element

import (
	"github.com/mattn/go-runewidth"

	pkerrors "github.com/odvcencio/panelkit/pkg/errors"
	"github.com/odvcencio/panelkit/pkg/ui/backend"
)

const ellipsis = "..."

// Panel is a container element. When bordered it outlines itself, shows
// its title on the top border and offers children the space inside the
// border.
type Panel struct {
	Base
	borders bool
}

// NewPanel creates a bordered panel.
func NewPanel(id, title string, g Geometry) (*Panel, error) {
	p := &Panel{}
	if err := p.Init(p, id, g); err != nil {
		return nil, err
	}
	p.title = title
	p.SetBorders(true)
	return p, nil
}

// Borders reports whether the panel draws a border.
func (p *Panel) Borders() bool {
	return p.borders
}

// SetBorders enables or disables the border.
func (p *Panel) SetBorders(on bool) {
	p.borders = on
	p.inset = 0
	if on {
		p.inset = 1
	}
}

// AddChild attaches e below the panel. Ids must be unique among siblings.
func (p *Panel) AddChild(e Element) error {
	if e == nil {
		return pkerrors.New(pkerrors.ErrCodeInvalidArgument, "child element is nil")
	}
	return p.node.AddChild(e.Node())
}

// RemoveChild detaches e. It is a no-op when e is not a child.
func (p *Panel) RemoveChild(e Element) {
	if e == nil {
		return
	}
	p.node.RemoveChild(e.Node())
}

// Children returns the child elements in insertion order.
func (p *Panel) Children() []Element {
	return Children(p.node)
}

// Render draws the frame then every child. A panel whose frame cannot be
// drawn, or whose parent is hidden, hides itself and all its descendants
// without rendering them.
func (p *Panel) Render() {
	if !p.ParentVisible() {
		Hide(p)
		return
	}
	if err := p.drawFrame(); err != nil {
		Hide(p)
		return
	}
	p.visible = true
	for _, c := range p.Children() {
		c.Render()
	}
}

func (p *Panel) drawFrame() error {
	y, x, h, w, err := p.Rect()
	if err != nil {
		return err
	}
	parent, err := p.Parent()
	if err != nil {
		return err
	}
	if !p.borders {
		return nil
	}
	if h < 2 || w < 2 {
		return pkerrors.New(pkerrors.ErrCodeOutOfBounds, "panel too small for its border").
			WithContext("element", p.ID()).
			WithContext("height", h).
			WithContext("width", w)
	}
	if err := parent.DrawRectangle(y, x, y+h-1, x+w-1); err != nil {
		return err
	}
	if p.title == "" {
		return nil
	}

	style := backend.Normal
	if p.active {
		style = backend.Bold | backend.Highlighted
	}
	col, label := titleLabel(p.title, w)
	if label == "" {
		return nil
	}
	return parent.Draw(y, x+col, label, style)
}

// titleLabel places " title " on a top border w cells wide. It is centered
// when it fits between the corners, otherwise left-aligned after the corner
// and cut with a trailing ellipsis.
func titleLabel(title string, w int) (col int, label string) {
	label = " " + title + " "
	room := w - 2
	if room <= 0 {
		return 1, ""
	}
	if lw := runewidth.StringWidth(label); lw <= room {
		return (w - lw) / 2, label
	}
	if room <= len(ellipsis) {
		return 1, runewidth.Truncate(label, room, "")
	}
	return 1, runewidth.Truncate(label, room, ellipsis)
}
