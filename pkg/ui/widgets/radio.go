package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/panelkit/pkg/ui/backend"
	"github.com/odvcencio/panelkit/pkg/ui/constraint"
	"github.com/odvcencio/panelkit/pkg/ui/element"
	"github.com/odvcencio/panelkit/pkg/ui/terminal"
)

// RadioButton is a one-row option. Selecting one clears every sibling
// RadioButton under the same parent.
type RadioButton struct {
	element.Base
	text     string
	selected bool
}

// NewRadioButton creates an unselected radio button at (y, x). It needs at
// least the width of its text plus the mark.
func NewRadioButton(id, text string, y, x constraint.Position) (*RadioButton, error) {
	g, err := rowGeometry(y, x)
	if err != nil {
		return nil, err
	}
	r := &RadioButton{text: text}
	if err := r.Init(r, id, g); err != nil {
		return nil, err
	}
	r.SetLimits(element.Limits{MinWidth: runewidth.StringWidth(text) + len(mark(false))})
	return r, nil
}

// Text returns the label.
func (r *RadioButton) Text() string {
	return r.text
}

// Selected reports whether this option is chosen.
func (r *RadioButton) Selected() bool {
	return r.selected
}

// Render draws the option, cyan while active.
func (r *RadioButton) Render() {
	style := backend.Normal
	if r.Active() {
		style = backend.Cyan
	}
	err := r.Draw(0, 0, mark(r.selected)+r.text, style)
	r.SetVisible(err == nil && r.ParentVisible())
}

// Select chooses this option and clears its siblings.
func (r *RadioButton) Select() {
	parent := r.Node().Parent()
	if parent == nil {
		r.selected = true
		return
	}
	for _, n := range parent.Children() {
		if sib, ok := n.Payload().(*RadioButton); ok {
			sib.selected = false
		}
	}
	r.selected = true
}

// Interact selects the option on enter or space and repaints the group.
func (r *RadioButton) Interact(ev terminal.KeyEvent) bool {
	if !activates(ev) {
		return false
	}
	if r.selected {
		return true
	}
	r.Select()
	r.repaintGroup()
	return true
}

func (r *RadioButton) repaintGroup() {
	parent := r.Node().Parent()
	if parent == nil {
		return
	}
	if el, ok := parent.Payload().(element.Element); ok {
		el.Render()
		return
	}
	for _, n := range parent.Children() {
		if sib, ok := n.Payload().(*RadioButton); ok {
			sib.Render()
		}
	}
}

var (
	_ element.Element = (*RadioButton)(nil)
	_ Interactive     = (*RadioButton)(nil)
)
