package widgets

import (
	"github.com/odvcencio/panelkit/pkg/ui/backend"
	"github.com/odvcencio/panelkit/pkg/ui/constraint"
	"github.com/odvcencio/panelkit/pkg/ui/element"
)

// Label is a one-row static text leaf. It never takes focus.
type Label struct {
	element.Base
	text  string
	style backend.TextStyle
}

// NewLabel creates a label at (y, x).
func NewLabel(id, text string, y, x constraint.Position) (*Label, error) {
	g, err := rowGeometry(y, x)
	if err != nil {
		return nil, err
	}
	l := &Label{text: text}
	if err := l.Init(l, id, g); err != nil {
		return nil, err
	}
	return l, nil
}

// Text returns the label text.
func (l *Label) Text() string {
	return l.text
}

// SetText replaces the label text.
func (l *Label) SetText(text string) {
	l.text = text
}

// SetStyle sets the text style.
func (l *Label) SetStyle(style backend.TextStyle) {
	l.style = style
}

// CanFocus returns false.
func (l *Label) CanFocus() bool {
	return false
}

// Render draws the text.
func (l *Label) Render() {
	err := l.Draw(0, 0, l.text, l.style)
	l.SetVisible(err == nil && l.ParentVisible())
}

var (
	_ element.Element   = (*Label)(nil)
	_ element.Focusable = (*Label)(nil)
)
