package backend

import (
	"sync"
	"time"

	"github.com/mattn/go-runewidth"

	pkerrors "github.com/odvcencio/panelkit/pkg/errors"
	"github.com/odvcencio/panelkit/pkg/ui/terminal"
)

// Box drawing runes used by DrawRectangle.
const (
	RuneULCorner = '┌'
	RuneURCorner = '┐'
	RuneLLCorner = '└'
	RuneLRCorner = '┘'
	RuneHLine    = '─'
	RuneVLine    = '│'
)

const inputQueueSize = 64

// Screen adapts a cell-level Backend into a Window.
type Screen struct {
	backend Backend

	events chan terminal.Event
	quit   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewScreen wraps b. Call Init before drawing.
func NewScreen(b Backend) *Screen {
	return &Screen{
		backend: b,
		events:  make(chan terminal.Event, inputQueueSize),
		quit:    make(chan struct{}),
	}
}

// Backend returns the wrapped backend.
func (s *Screen) Backend() Backend {
	return s.backend
}

// Init initializes the backend and starts forwarding its events.
func (s *Screen) Init() error {
	if err := s.backend.Init(); err != nil {
		return pkerrors.Wrap(err, pkerrors.ErrCodeBackendInit, "initializing terminal backend")
	}
	s.backend.HideCursor()
	s.backend.Clear()
	s.backend.Show()

	s.wg.Add(1)
	go s.pump()
	return nil
}

// Fini stops input forwarding and restores the terminal.
func (s *Screen) Fini() {
	s.once.Do(func() {
		close(s.quit)
		s.backend.Fini()
		s.wg.Wait()
	})
}

// pump moves backend events into the input queue until the backend shuts down.
func (s *Screen) pump() {
	defer s.wg.Done()
	for {
		ev := s.backend.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.quit:
			return
		}
	}
}

// Bounds returns the terminal height and width.
func (s *Screen) Bounds() (height, width int) {
	w, h := s.backend.Size()
	return h, w
}

// Draw writes text at (row, col), clipped to the right edge.
func (s *Screen) Draw(row, col int, text string, style TextStyle) {
	height, width := s.Bounds()
	if row < 0 || col < 0 || row >= height || col >= width {
		return
	}
	text = runewidth.Truncate(text, width-col, "")
	cellStyle := style.Style()

	x := col
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			rw = 1
		}
		s.backend.SetContent(x, row, r, nil, cellStyle)
		x += rw
	}
}

// DrawRectangle outlines the rectangle with box drawing runes.
func (s *Screen) DrawRectangle(top, left, bottom, right int) {
	if top == bottom || left == right {
		return
	}
	if top > bottom {
		top, bottom = bottom, top
	}
	if left > right {
		left, right = right, left
	}
	st := DefaultStyle()

	for x := left + 1; x < right; x++ {
		s.setCell(x, top, RuneHLine, st)
		s.setCell(x, bottom, RuneHLine, st)
	}
	for y := top + 1; y < bottom; y++ {
		s.setCell(left, y, RuneVLine, st)
		s.setCell(right, y, RuneVLine, st)
	}
	s.setCell(left, top, RuneULCorner, st)
	s.setCell(right, top, RuneURCorner, st)
	s.setCell(left, bottom, RuneLLCorner, st)
	s.setCell(right, bottom, RuneLRCorner, st)
}

// Delete blanks the cell at (row, col).
func (s *Screen) Delete(row, col int) {
	s.setCell(col, row, ' ', DefaultStyle())
}

// Clear blanks the screen and forces a full repaint on the next Refresh.
func (s *Screen) Clear() {
	s.backend.Clear()
	s.backend.Sync()
}

// Erase blanks the screen buffer.
func (s *Screen) Erase() {
	s.backend.Clear()
}

// Refresh flushes the buffer to the terminal.
func (s *Screen) Refresh() {
	s.backend.Show()
}

// GetInput returns the next event, waiting at most timeout.
func (s *Screen) GetInput(timeout time.Duration) terminal.Event {
	switch {
	case timeout < 0:
		select {
		case ev := <-s.events:
			return ev
		case <-s.quit:
			return nil
		}
	case timeout == 0:
		select {
		case ev := <-s.events:
			return ev
		default:
			return nil
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ev := <-s.events:
		return ev
	case <-timer.C:
		return nil
	case <-s.quit:
		return nil
	}
}

func (s *Screen) setCell(x, y int, r rune, st Style) {
	w, h := s.backend.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	s.backend.SetContent(x, y, r, nil, st)
}

var _ Window = (*Screen)(nil)
