package main

import (
	"context"
	"fmt"

	"github.com/odvcencio/panelkit/pkg/config"
	"github.com/odvcencio/panelkit/pkg/logging"
	"github.com/odvcencio/panelkit/pkg/telemetry"
	"github.com/odvcencio/panelkit/pkg/ui/backend"
	"github.com/odvcencio/panelkit/pkg/ui/constraint"
	"github.com/odvcencio/panelkit/pkg/ui/terminal"
	"github.com/odvcencio/panelkit/pkg/ui/widgets"
	"github.com/odvcencio/panelkit/pkg/ui/window"
)

const statusID = "status-line"

// app owns the window manager and the input loop. Everything that touches
// the element tree runs on the loop goroutine.
type app struct {
	wm       *window.Manager
	cfg      *config.Config
	bindings config.Bindings
	logger   *logging.Logger
	status   *widgets.Label
	events   <-chan telemetry.Event
	reloads  chan *config.Config

	active string
	note   string
}

func newApp(win backend.Window, cfg *config.Config, logger *logging.Logger, metrics *telemetry.Metrics, hub *telemetry.Hub) (*app, error) {
	bindings, err := cfg.Input.Keys.Bindings()
	if err != nil {
		return nil, err
	}
	origin, err := constraint.AbsolutePosition(0)
	if err != nil {
		return nil, err
	}
	status, err := widgets.NewLabel(statusID, "", origin, origin)
	if err != nil {
		return nil, err
	}
	status.SetStyle(backend.Bold)

	a := &app{
		wm: window.New(win,
			window.WithLogger(logger),
			window.WithMetrics(metrics),
			window.WithHub(hub),
		),
		cfg:      cfg,
		bindings: bindings,
		logger:   logger,
		status:   status,
		reloads:  make(chan *config.Config, 1),
	}
	if hub != nil {
		a.events, _ = hub.Subscribe()
	}
	return a, nil
}

// queueReload hands cfg to the loop, replacing any reload not yet applied.
// Safe to call from any goroutine.
func (a *app) queueReload(cfg *config.Config) {
	for {
		select {
		case a.reloads <- cfg:
			return
		default:
		}
		select {
		case <-a.reloads:
		default:
		}
	}
}

// build replaces the element tree from the current config and focuses the
// first leaf.
func (a *app) build() error {
	elems, err := a.cfg.Elements()
	if err != nil {
		return err
	}
	for _, e := range a.wm.Elements() {
		a.wm.RemoveElement(e)
	}
	for _, e := range elems {
		if err := a.wm.AddElement(e); err != nil {
			return err
		}
	}
	if err := a.wm.AddElement(a.status); err != nil {
		return err
	}
	a.refreshStatus()
	a.wm.Render()
	a.wm.ResetActive()
	a.syncStatus()
	return nil
}

// run polls input until the quit key, ctx cancellation, or an error.
func (a *app) run(ctx context.Context) error {
	if err := a.build(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case cfg := <-a.reloads:
			a.apply(cfg)
		default:
		}

		ev := a.wm.GetInput(a.cfg.Input.PollTimeout)
		if ev != nil && a.handle(ev) {
			return nil
		}
		a.syncStatus()
	}
}

// handle dispatches one input event and reports whether the app should quit.
func (a *app) handle(ev terminal.Event) bool {
	switch ev := ev.(type) {
	case terminal.ResizeEvent:
		a.wm.Resize()
		if a.wm.GetActive() == nil {
			a.wm.ResetActive()
		}
	case terminal.KeyEvent:
		switch {
		case ev.Key == terminal.KeyCtrlC, a.bindings.Quit.Matches(ev):
			return true
		case a.bindings.Next.Matches(ev):
			a.wm.GetNext()
		case a.bindings.Reset.Matches(ev):
			a.wm.ResetActive()
		case a.bindings.Interact.Matches(ev):
			a.wm.Interact(terminal.KeyEvent{Key: terminal.KeyEnter})
		default:
			a.wm.Interact(ev)
		}
	}
	return false
}

// apply swaps in a reloaded config and rebuilds the tree. A layout that
// fails to build keeps the previous tree.
func (a *app) apply(cfg *config.Config) {
	bindings, err := cfg.Input.Keys.Bindings()
	if err != nil {
		a.note = "config error"
		return
	}
	prev := a.cfg
	a.cfg, a.bindings = cfg, bindings
	a.logger.SetMinLevel(cfg.LogLevel())
	if err := a.build(); err != nil {
		a.logger.Warn(logging.CategoryConfig, "layout_failed", err.Error(), nil)
		a.cfg = prev
		a.note = "layout error"
		if err := a.build(); err != nil {
			a.logger.Error(logging.CategoryConfig, "layout_failed", err.Error(), nil)
		}
	}
}

// syncStatus folds queued telemetry into the status line and repaints the
// frame when the line changed.
func (a *app) syncStatus() {
	events := telemetry.Drain(a.events)
	if len(events) == 0 {
		return
	}
	for _, ev := range events {
		switch ev.Type {
		case telemetry.EventFocusChanged:
			a.active = ev.Element
		case telemetry.EventFocusLost:
			a.active = ""
		case telemetry.EventConfigReloaded:
			a.note = "config reloaded"
		case telemetry.EventConfigFailed:
			a.note = "config error"
		}
	}
	if a.refreshStatus() {
		a.wm.Render()
	}
}

// refreshStatus rewrites the status text and reports whether it changed.
func (a *app) refreshStatus() bool {
	keys := a.cfg.Input.Keys
	active := a.active
	if active == "" {
		active = "-"
	}
	text := fmt.Sprintf("[%s] next  [%s] reset  [%s] interact  [%s] quit  active: %s",
		keys.Next, keys.Reset, keys.Interact, keys.Quit, active)
	if a.note != "" {
		text += "  (" + a.note + ")"
	}
	if text == a.status.Text() {
		return false
	}
	a.status.SetText(text)
	return true
}
