package sim

import (
	"strings"
	"testing"
	"time"

	"github.com/odvcencio/panelkit/pkg/ui/backend"
	"github.com/odvcencio/panelkit/pkg/ui/terminal"
)

func newInit(t *testing.T, w, h int) *Backend {
	t.Helper()
	sim := New(w, h)
	if err := sim.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	sim.Resize(w, h)
	t.Cleanup(sim.Fini)
	return sim
}

func TestBackend_BasicRendering(t *testing.T) {
	sim := newInit(t, 20, 5)

	style := backend.DefaultStyle().Foreground(backend.ColorWhite)
	for i, r := range "Hello, World!" {
		sim.SetContent(i, 0, r, nil, style)
	}
	sim.Show()

	lines := sim.Lines()
	if len(lines) != 5 {
		t.Fatalf("Expected 5 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Hello, World!") {
		t.Errorf("Expected first line to start with 'Hello, World!', got %q", lines[0])
	}
	if got := len([]rune(lines[0])); got != 20 {
		t.Errorf("Expected row width 20, got %d", got)
	}
}

func TestBackend_Resize(t *testing.T) {
	sim := newInit(t, 80, 24)

	sim.Resize(40, 12)

	w, h := sim.Size()
	if w != 40 || h != 12 {
		t.Errorf("Expected size 40x12 after resize, got %dx%d", w, h)
	}
}

func TestBackend_FindText(t *testing.T) {
	sim := newInit(t, 40, 10)

	for i, r := range "target" {
		sim.SetContent(5+i, 3, r, nil, backend.DefaultStyle())
	}
	sim.Show()

	x, y := sim.FindText("target")
	if x != 5 || y != 3 {
		t.Errorf("Expected to find 'target' at (5, 3), got (%d, %d)", x, y)
	}
	x, y = sim.FindText("missing")
	if x != -1 || y != -1 {
		t.Errorf("Expected (-1, -1) for missing text, got (%d, %d)", x, y)
	}
	if !sim.ContainsText("target") || sim.ContainsText("missing") {
		t.Error("ContainsText disagrees with FindText")
	}
}

func TestBackend_CaptureRegion(t *testing.T) {
	sim := newInit(t, 20, 10)

	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			sim.SetContent(x, y, 'X', nil, backend.DefaultStyle())
		}
	}
	sim.Show()

	region := sim.CaptureRegion(0, 0, 5, 3)
	expected := "XXXXX\nXXXXX\nXXXXX"
	if region != expected {
		t.Errorf("Expected region:\n%s\nGot:\n%s", expected, region)
	}
}

func TestBackend_InjectKey(t *testing.T) {
	sim := newInit(t, 20, 10)

	sim.InjectKeyRune('a')

	done := make(chan terminal.Event, 1)
	go func() { done <- sim.PollEvent() }()

	var ev terminal.Event
	select {
	case ev = <-done:
	case <-time.After(time.Second):
		t.Fatal("PollEvent did not return the injected key")
	}

	keyEv, ok := ev.(terminal.KeyEvent)
	if !ok {
		t.Fatalf("Expected terminal.KeyEvent, got %T", ev)
	}
	if keyEv.Key != terminal.KeyRune || keyEv.Rune != 'a' {
		t.Errorf("Expected KeyRune 'a', got key=%v rune=%c", keyEv.Key, keyEv.Rune)
	}
}

func TestBackend_Styles(t *testing.T) {
	sim := newInit(t, 20, 10)

	style := backend.DefaultStyle().
		Foreground(backend.ColorRed).
		Background(backend.ColorBlue).
		Bold(true).
		Reverse(true)
	sim.SetContent(0, 0, 'S', nil, style)
	sim.Show()

	mainc, got := sim.CaptureCell(0, 0)
	if mainc != 'S' {
		t.Errorf("Expected 'S', got %c", mainc)
	}
	attrs := got.Attributes()
	if attrs&backend.AttrBold == 0 {
		t.Error("Expected bold attribute to be set")
	}
	if attrs&backend.AttrReverse == 0 {
		t.Error("Expected reverse attribute to be set")
	}
	if attrs&backend.AttrUnderline != 0 {
		t.Error("Underline should not be set")
	}
	if got.FG() != backend.ColorRed {
		t.Errorf("Expected red foreground, got %v", got.FG())
	}
}

func TestNewScreen(t *testing.T) {
	screen, sim, err := NewScreen(30, 6)
	if err != nil {
		t.Fatalf("NewScreen failed: %v", err)
	}
	defer screen.Fini()

	h, w := screen.Bounds()
	if h != 6 || w != 30 {
		t.Fatalf("Bounds = (%d, %d), want (6, 30)", h, w)
	}
	screen.Draw(2, 3, "hi", backend.Bold)
	screen.Refresh()

	if x, y := sim.FindText("hi"); x != 3 || y != 2 {
		t.Errorf("Expected 'hi' at (3, 2), got (%d, %d)", x, y)
	}
}

func TestNewScreen_GetInput(t *testing.T) {
	screen, sim, err := NewScreen(10, 4)
	if err != nil {
		t.Fatalf("NewScreen failed: %v", err)
	}
	defer screen.Fini()

	if ev := screen.GetInput(10 * time.Millisecond); ev != nil {
		t.Fatalf("Expected nil on timeout, got %v", ev)
	}

	sim.InjectKey(terminal.KeyTab, 0)
	ev := screen.GetInput(time.Second)
	keyEv, ok := ev.(terminal.KeyEvent)
	if !ok || keyEv.Key != terminal.KeyTab {
		t.Fatalf("Expected tab key, got %#v", ev)
	}
}

func TestBackend_DiffFrame(t *testing.T) {
	sim := newInit(t, 10, 3)
	for i, r := range "abc" {
		sim.SetContent(i, 1, r, nil, backend.DefaultStyle())
	}
	sim.Show()

	if diff := sim.DiffFrame([]string{"", "abc"}); diff != "" {
		t.Fatalf("expected matching frame, got diff:\n%s", diff)
	}

	diff := sim.DiffFrame([]string{"", "abd"})
	if !strings.Contains(diff, "-abd") || !strings.Contains(diff, "+abc") {
		t.Fatalf("unexpected diff:\n%s", diff)
	}
}
