// Package sim provides a simulation backend for golden-frame tests.
package sim

import (
	"strings"
	"sync"

	tcellv2 "github.com/gdamore/tcell/v2"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/odvcencio/panelkit/pkg/ui/backend"
	"github.com/odvcencio/panelkit/pkg/ui/backend/tcell"
	"github.com/odvcencio/panelkit/pkg/ui/terminal"
)

// Backend is a testable backend using tcell's simulation screen.
type Backend struct {
	*tcell.Backend
	screen tcellv2.SimulationScreen
	mu     sync.Mutex
}

// New creates a new simulation backend with the given dimensions.
func New(width, height int) *Backend {
	screen := tcellv2.NewSimulationScreen("")
	screen.SetSize(width, height)

	return &Backend{
		Backend: tcell.NewWithScreen(screen),
		screen:  screen,
	}
}

// NewScreen creates an initialized Window over a width x height simulation.
// The caller must Fini the returned screen.
func NewScreen(width, height int) (*backend.Screen, *Backend, error) {
	b := New(width, height)
	s := backend.NewScreen(b)
	if err := s.Init(); err != nil {
		return nil, nil, err
	}
	// Init may reset the simulated size.
	b.Resize(width, height)
	return s, b, nil
}

// Resize changes the simulation screen size.
func (s *Backend) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.SetSize(width, height)
}

// InjectKey injects a key event into the simulation.
func (s *Backend) InjectKey(key terminal.Key, r rune) {
	_ = s.PostEvent(terminal.KeyEvent{Key: key, Rune: r})
}

// InjectKeyRune injects a regular character keypress.
func (s *Backend) InjectKeyRune(r rune) {
	s.InjectKey(terminal.KeyRune, r)
}

// InjectResize resizes the screen and posts the matching resize event.
func (s *Backend) InjectResize(width, height int) {
	s.mu.Lock()
	s.screen.SetSize(width, height)
	s.mu.Unlock()
	_ = s.PostEvent(terminal.ResizeEvent{Width: width, Height: height})
}

// Lines returns the screen content, one string per row.
func (s *Backend) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.screen.Size()
	lines := make([]string, 0, h)
	for y := 0; y < h; y++ {
		lines = append(lines, s.rowLocked(y, 0, w))
	}
	return lines
}

// Capture captures the current screen content as a string.
func (s *Backend) Capture() string {
	return strings.Join(s.Lines(), "\n")
}

// CaptureRegion captures a rectangular region of the screen.
func (s *Backend) CaptureRegion(x, y, w, h int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]string, 0, h)
	for row := y; row < y+h; row++ {
		lines = append(lines, s.rowLocked(row, x, w))
	}
	return strings.Join(lines, "\n")
}

func (s *Backend) rowLocked(y, x, w int) string {
	var line strings.Builder
	for col := x; col < x+w; col++ {
		mainc, comb, _, width := s.screen.GetContent(col, y)
		if mainc == 0 {
			mainc = ' '
		}
		line.WriteRune(mainc)
		for _, c := range comb {
			line.WriteRune(c)
		}
		if width > 1 {
			col += width - 1
		}
	}
	return line.String()
}

// CaptureCell returns the content and style of a single cell.
func (s *Backend) CaptureCell(x, y int) (mainc rune, style backend.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, _, tcStyle, _ := s.screen.GetContent(x, y)
	return m, convertTcellStyle(tcStyle)
}

// FindText searches for text on the screen and returns its position.
func (s *Backend) FindText(text string) (x, y int) {
	for row, line := range s.Lines() {
		if col := strings.Index(line, text); col >= 0 {
			return len([]rune(line[:col])), row
		}
	}
	return -1, -1
}

// ContainsText returns true if the text appears anywhere on screen.
func (s *Backend) ContainsText(text string) bool {
	x, y := s.FindText(text)
	return x >= 0 && y >= 0
}

// DiffFrame compares the screen against want, row by row with trailing
// blanks ignored, and returns a unified diff or "" when they match.
func (s *Backend) DiffFrame(want []string) string {
	got := s.Lines()
	for i := range got {
		got[i] = strings.TrimRight(got[i], " ")
	}
	for len(got) > 0 && got[len(got)-1] == "" {
		got = got[:len(got)-1]
	}
	expected := make([]string, len(want))
	for i, line := range want {
		expected[i] = strings.TrimRight(line, " ")
	}
	for len(expected) > 0 && expected[len(expected)-1] == "" {
		expected = expected[:len(expected)-1]
	}

	if strings.Join(got, "\n") == strings.Join(expected, "\n") {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(strings.Join(expected, "\n") + "\n"),
		B:        difflib.SplitLines(strings.Join(got, "\n") + "\n"),
		FromFile: "want",
		ToFile:   "screen",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

// convertTcellStyle converts tcellv2.Style to backend.Style.
func convertTcellStyle(ts tcellv2.Style) backend.Style {
	fg, bg, attrs := ts.Decompose()
	return backend.DefaultStyle().
		Foreground(convertTcellColor(fg)).
		Background(convertTcellColor(bg)).
		Bold(attrs&tcellv2.AttrBold != 0).
		Underline(attrs&tcellv2.AttrUnderline != 0).
		Dim(attrs&tcellv2.AttrDim != 0).
		Reverse(attrs&tcellv2.AttrReverse != 0)
}

// convertTcellColor converts tcellv2.Color to backend.Color.
func convertTcellColor(tc tcellv2.Color) backend.Color {
	if tc == tcellv2.ColorDefault {
		return backend.ColorDefault
	}
	if tc&tcellv2.ColorIsRGB != 0 {
		r, g, b := tc.RGB()
		return backend.ColorRGB(uint8(r), uint8(g), uint8(b))
	}
	return backend.Color(tc & 0xFF)
}

// Ensure Backend implements backend.Backend
var _ backend.Backend = (*Backend)(nil)
