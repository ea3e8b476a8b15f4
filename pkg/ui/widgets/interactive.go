// Package widgets provides the leaf elements of a panel tree.
package widgets

import (
	"github.com/odvcencio/panelkit/pkg/ui/constraint"
	"github.com/odvcencio/panelkit/pkg/ui/element"
	"github.com/odvcencio/panelkit/pkg/ui/terminal"
)

// Interactive is implemented by leaves that react to input while active.
type Interactive interface {
	// Interact handles ev and reports whether it was consumed.
	Interact(ev terminal.KeyEvent) bool
}

// activates reports whether ev presses the widget: enter or space.
func activates(ev terminal.KeyEvent) bool {
	return ev.Key == terminal.KeyEnter || (ev.Key == terminal.KeyRune && ev.Rune == ' ')
}

// rowGeometry spans one row and the full parent width from (y, x).
func rowGeometry(y, x constraint.Position) (element.Geometry, error) {
	h, err := constraint.AbsoluteSize(1)
	if err != nil {
		return element.Geometry{}, err
	}
	w, err := constraint.RelativeSize(1)
	if err != nil {
		return element.Geometry{}, err
	}
	return element.Geometry{Y: y, X: x, Height: h, Width: w}, nil
}

func mark(on bool) string {
	if on {
		return "(x) "
	}
	return "( ) "
}
