package main

import (
	"context"
	"errors"
	"flag"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/panelkit/pkg/config"
	"github.com/odvcencio/panelkit/pkg/telemetry"
	"github.com/odvcencio/panelkit/pkg/ui/backend/sim"
	"github.com/odvcencio/panelkit/pkg/ui/terminal"
	"github.com/odvcencio/panelkit/pkg/ui/widgets"
)

func newTestApp(t *testing.T, cfg *config.Config) (*app, *sim.Backend) {
	t.Helper()
	screen, b, err := sim.NewScreen(80, 25)
	require.NoError(t, err)
	t.Cleanup(screen.Fini)

	hub := telemetry.NewHub()
	t.Cleanup(hub.Close)
	a, err := newApp(screen, cfg, nil, telemetry.NewMetrics(prometheus.NewRegistry()), hub)
	require.NoError(t, err)
	return a, b
}

func key(r rune) terminal.KeyEvent {
	return terminal.KeyEvent{Key: terminal.KeyRune, Rune: r}
}

func TestAppBuildsDemoLayout(t *testing.T) {
	a, b := newTestApp(t, config.DefaultConfig())
	require.NoError(t, a.build())

	assert.True(t, b.ContainsText(" Main "))
	assert.True(t, b.ContainsText(" Radio Buttons "))
	assert.True(t, b.ContainsText(" Check Boxes "))
	assert.True(t, b.ContainsText("( ) Radio 1"))
	assert.True(t, b.ContainsText("( ) Check 2"))

	require.NotNil(t, a.wm.GetActive())
	assert.Equal(t, "rad1", a.wm.GetActive().ID())
	assert.True(t, b.ContainsText("active: rad1"))
}

func TestAppKeyBindings(t *testing.T) {
	a, b := newTestApp(t, config.DefaultConfig())
	require.NoError(t, a.build())

	assert.False(t, a.handle(key('a')))
	assert.Equal(t, "rad2", a.wm.GetActive().ID())

	assert.False(t, a.handle(key('e')))
	rad2 := a.wm.Find("rad2").(*widgets.RadioButton)
	assert.True(t, rad2.Selected())
	assert.True(t, b.ContainsText("(x) Radio 2"))

	a.handle(key('a'))
	a.handle(key('a'))
	assert.Equal(t, "chk2", a.wm.GetActive().ID())
	a.handle(terminal.KeyEvent{Key: terminal.KeyEnter})
	assert.True(t, a.wm.Find("chk2").(*widgets.Checkbox).Checked())

	a.handle(key('r'))
	assert.Equal(t, "rad1", a.wm.GetActive().ID())

	a.syncStatus()
	assert.True(t, b.ContainsText("active: rad1"))

	assert.True(t, a.handle(key('q')))
	assert.True(t, a.handle(terminal.KeyEvent{Key: terminal.KeyCtrlC}))
}

func TestAppResizeKeepsFocusVisible(t *testing.T) {
	a, b := newTestApp(t, config.DefaultConfig())
	require.NoError(t, a.build())

	b.Resize(30, 8)
	a.handle(terminal.ResizeEvent{Width: 30, Height: 8})
	assert.False(t, b.ContainsText("Radio 1"))
	assert.Nil(t, a.wm.GetActive())

	b.Resize(80, 25)
	a.handle(terminal.ResizeEvent{Width: 80, Height: 25})
	assert.True(t, b.ContainsText("Radio 1"))
	require.NotNil(t, a.wm.GetActive())
}

func TestAppApplyReload(t *testing.T) {
	a, b := newTestApp(t, config.DefaultConfig())
	require.NoError(t, a.build())

	next := config.DefaultConfig()
	next.Input.Keys.Next = "tab"
	next.Layout = []config.ElementConfig{{
		Kind: config.KindCheckbox, ID: "solo", Text: "Solo",
		Y: config.ConstraintConfig{Kind: "absolute", Value: 2},
		X: config.ConstraintConfig{Kind: "absolute"},
	}}
	a.queueReload(config.DefaultConfig())
	a.queueReload(next)

	cfg := <-a.reloads
	a.apply(cfg)

	assert.False(t, b.ContainsText("Radio Buttons"))
	assert.True(t, b.ContainsText("( ) Solo"))
	assert.Equal(t, "solo", a.wm.GetActive().ID())
	assert.True(t, b.ContainsText("[tab] next"))

	a.handle(terminal.KeyEvent{Key: terminal.KeyTab})
	assert.Equal(t, "solo", a.wm.GetActive().ID())
}

func TestAppRunQuits(t *testing.T) {
	a, b := newTestApp(t, config.DefaultConfig())

	done := make(chan error, 1)
	go func() { done <- a.run(context.Background()) }()

	require.Eventually(t, func() bool { return b.ContainsText(" Main ") }, 2*time.Second, 10*time.Millisecond)
	b.InjectKeyRune('q')

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after quit key")
	}
}

func TestAppRunStopsOnCancel(t *testing.T) {
	a, _ := newTestApp(t, config.DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, a.run(ctx))
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, exitCodeForError(nil))
	assert.Equal(t, 1, exitCodeForError(errors.New("boom")))
	assert.Equal(t, 2, exitCodeForError(withExitCode(errors.New("usage"), 2)))
	assert.Equal(t, 0, exitCodeForError(withExitCode(flag.ErrHelp, 2)))
}
