// Package backend defines the terminal boundary the widget tree draws through.
//
// Backend is the cell-level surface a concrete terminal library implements
// (tcell for real terminals, a simulation screen for tests). Window is the
// text-and-rectangle canvas the element tree consumes; Screen adapts any
// Backend into a Window.
package backend

import (
	"time"

	"github.com/odvcencio/panelkit/pkg/ui/terminal"
)

// Backend is the terminal abstraction layer.
// Implementations handle terminal I/O, input events, and cell output.
type Backend interface {
	// Init initializes the backend (enters alt screen, raw mode, etc).
	Init() error

	// Fini cleans up the backend (restores terminal state).
	Fini()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetContent sets a cell at position (x, y) with the given rune and style.
	SetContent(x, y int, mainc rune, comb []rune, style Style)

	// Show synchronizes the internal buffer to the terminal.
	Show()

	// Clear clears the internal buffer.
	Clear()

	// Sync forces a full redraw on next Show().
	Sync()

	// HideCursor hides the terminal cursor.
	HideCursor()

	// PollEvent blocks until an event is available and returns it.
	// Returns nil if the backend is shutting down.
	PollEvent() terminal.Event

	// PostEvent injects an event into the event queue.
	PostEvent(ev terminal.Event) error
}

// Window is the canvas boundary consumed by the window manager.
// Coordinates are (row, col) with the origin at the top-left corner.
type Window interface {
	// Bounds returns the drawable height and width.
	Bounds() (height, width int)

	// Draw writes text at (row, col). Text is clipped to the remaining
	// columns; an origin outside the bounds draws nothing.
	Draw(row, col int, text string, style TextStyle)

	// DrawRectangle outlines the rectangle with the given corners.
	// A degenerate rectangle (equal rows or equal columns) draws nothing.
	DrawRectangle(top, left, bottom, right int)

	// Delete blanks a single cell.
	Delete(row, col int)

	// Clear blanks the screen and forces a full repaint on the next Refresh.
	Clear()

	// Erase blanks the screen buffer.
	Erase()

	// Refresh flushes pending output to the terminal.
	Refresh()

	// GetInput waits up to timeout for the next input event and returns nil
	// when none arrived. A zero timeout polls; a negative one blocks.
	GetInput(timeout time.Duration) terminal.Event
}
