// Package terminal provides the input event types returned by a window's
// GetInput, and key bindings matched against them.
package terminal

import (
	"fmt"
	"strings"
)

// Event represents a terminal input event.
type Event interface {
	eventMarker()
}

// KeyEvent represents a key press.
type KeyEvent struct {
	Key  Key
	Rune rune
	Alt  bool
	Ctrl bool
}

func (KeyEvent) eventMarker() {}

// String renders the event in binding syntax, e.g. "ctrl+c", "tab", "q".
func (e KeyEvent) String() string {
	var b strings.Builder
	if e.Ctrl && e.Key != KeyCtrlC {
		b.WriteString("ctrl+")
	}
	if e.Alt {
		b.WriteString("alt+")
	}
	if e.Key == KeyRune {
		b.WriteRune(e.Rune)
	} else {
		b.WriteString(e.Key.String())
	}
	return b.String()
}

// ResizeEvent indicates terminal size changed.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) eventMarker() {}

// Key represents special keys.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Regular character
	KeyEnter
	KeyBackspace
	KeyTab
	KeyBacktab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyInsert
	KeyCtrlC
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyRune:      "rune",
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyBacktab:   "backtab",
	KeyEscape:    "esc",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdn",
	KeyDelete:    "delete",
	KeyInsert:    "insert",
	KeyCtrlC:     "ctrl+c",
}

// String returns the binding name of the key.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// Binding matches key events.
type Binding struct {
	Key  Key
	Rune rune
	Alt  bool
}

// ParseBinding parses "q", "tab", "enter", "alt+n", "ctrl+c", "space".
func ParseBinding(s string) (Binding, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return Binding{}, fmt.Errorf("empty key binding")
	}
	if raw == "ctrl+c" {
		return Binding{Key: KeyCtrlC}, nil
	}

	var b Binding
	if rest, ok := strings.CutPrefix(raw, "alt+"); ok {
		b.Alt = true
		raw = rest
	}
	if raw == "space" {
		b.Key, b.Rune = KeyRune, ' '
		return b, nil
	}
	for k, name := range keyNames {
		if name == raw && k != KeyRune && k != KeyNone {
			b.Key = k
			return b, nil
		}
	}
	if r := []rune(raw); len(r) == 1 {
		b.Key, b.Rune = KeyRune, r[0]
		return b, nil
	}
	return Binding{}, fmt.Errorf("unknown key binding %q", s)
}

// Matches reports whether ev is the bound key.
func (b Binding) Matches(ev Event) bool {
	k, ok := ev.(KeyEvent)
	if !ok || k.Key != b.Key || k.Alt != b.Alt {
		return false
	}
	return b.Key != KeyRune || k.Rune == b.Rune
}
