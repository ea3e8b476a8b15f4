package widgets

import (
	"github.com/odvcencio/panelkit/pkg/ui/backend"
	"github.com/odvcencio/panelkit/pkg/ui/constraint"
	"github.com/odvcencio/panelkit/pkg/ui/element"
	"github.com/odvcencio/panelkit/pkg/ui/terminal"
)

// Checkbox is a one-row toggle rendered as "(x) text" or "( ) text".
type Checkbox struct {
	element.Base
	text    string
	checked bool
}

// NewCheckbox creates an unchecked checkbox at (y, x).
func NewCheckbox(id, text string, y, x constraint.Position) (*Checkbox, error) {
	g, err := rowGeometry(y, x)
	if err != nil {
		return nil, err
	}
	c := &Checkbox{text: text}
	if err := c.Init(c, id, g); err != nil {
		return nil, err
	}
	return c, nil
}

// Text returns the label.
func (c *Checkbox) Text() string {
	return c.text
}

// Checked reports whether the box is ticked.
func (c *Checkbox) Checked() bool {
	return c.checked
}

// SetChecked ticks or clears the box.
func (c *Checkbox) SetChecked(on bool) {
	c.checked = on
}

// Render draws the box, cyan while active.
func (c *Checkbox) Render() {
	style := backend.Normal
	if c.Active() {
		style = backend.Cyan
	}
	err := c.Draw(0, 0, mark(c.checked)+c.text, style)
	c.SetVisible(err == nil && c.ParentVisible())
}

// Interact toggles the box on enter or space.
func (c *Checkbox) Interact(ev terminal.KeyEvent) bool {
	if !activates(ev) {
		return false
	}
	c.checked = !c.checked
	c.Render()
	return true
}

var (
	_ element.Element = (*Checkbox)(nil)
	_ Interactive     = (*Checkbox)(nil)
)
