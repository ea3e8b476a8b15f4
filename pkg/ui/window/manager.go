// Package window binds an element tree to a terminal window and drives
// the render pass.
package window

import (
	"time"

	"github.com/odvcencio/panelkit/pkg/logging"
	"github.com/odvcencio/panelkit/pkg/telemetry"
	"github.com/odvcencio/panelkit/pkg/tree"
	"github.com/odvcencio/panelkit/pkg/ui/backend"
	"github.com/odvcencio/panelkit/pkg/ui/element"
	"github.com/odvcencio/panelkit/pkg/ui/focus"
	"github.com/odvcencio/panelkit/pkg/ui/terminal"
	"github.com/odvcencio/panelkit/pkg/ui/widgets"
)

// RootName is the tree name of the window node.
const RootName = "window"

// Manager is the root of the element tree. Top-level elements draw on it
// and it forwards everything to the backend window.
type Manager struct {
	win     backend.Window
	root    *tree.Node[element.Canvas]
	focus   *focus.Manager
	logger  *logging.Logger
	metrics *telemetry.Metrics
	hub     *telemetry.Hub
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the event logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithMetrics sets the Prometheus collectors.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// WithHub publishes frame and focus events to hub.
func WithHub(hub *telemetry.Hub) Option {
	return func(m *Manager) { m.hub = hub }
}

// New creates a window manager drawing on win.
func New(win backend.Window, opts ...Option) *Manager {
	m := &Manager{win: win}
	for _, opt := range opts {
		opt(m)
	}
	m.root = tree.NewNode[element.Canvas](RootName, m)
	m.focus = focus.NewManager(m.root, focus.WithLogger(m.logger), focus.WithMetrics(m.metrics))
	return m
}

// Root returns the tree root.
func (m *Manager) Root() *tree.Node[element.Canvas] {
	return m.root
}

// Window returns the backend window.
func (m *Manager) Window() backend.Window {
	return m.win
}

// AddElement attaches a top-level element.
func (m *Manager) AddElement(e element.Element) error {
	return m.focus.AddElement(e)
}

// RemoveElement detaches a top-level element.
func (m *Manager) RemoveElement(e element.Element) {
	m.focus.RemoveElement(e)
}

// Elements returns the top-level elements in insertion order.
func (m *Manager) Elements() []element.Element {
	return m.focus.Elements()
}

// Find returns the element named id anywhere in the tree.
func (m *Manager) Find(id string) element.Element {
	n := m.root.Find(id)
	if n == nil {
		return nil
	}
	el, _ := n.Payload().(element.Element)
	return el
}

// Bounds returns the window size.
func (m *Manager) Bounds() (height, width int, err error) {
	height, width = m.win.Bounds()
	return height, width, nil
}

// Draw writes text at window coordinates.
func (m *Manager) Draw(y, x int, text string, style backend.TextStyle) error {
	m.win.Draw(y, x, text, style)
	return nil
}

// DrawRectangle outlines a rectangle in window coordinates.
func (m *Manager) DrawRectangle(uly, ulx, lry, lrx int) error {
	m.win.DrawRectangle(uly, ulx, lry, lrx)
	return nil
}

// Render erases the window, renders every top-level element and flushes.
// If the active leaf could not be drawn, focus moves to the next visible
// leaf before the flush.
func (m *Manager) Render() {
	start := time.Now()

	m.win.Erase()
	for _, e := range m.Elements() {
		e.Render()
	}
	if m.focus.EnsureVisible() {
		active := m.focus.Active()
		if active != nil {
			active.Render()
		}
		m.publishFocus(active, telemetry.FocusAuto)
	}
	m.win.Refresh()

	hidden := m.reportHidden()
	m.metrics.ObserveFrame(time.Since(start), hidden)
	m.hub.Publish(telemetry.Event{
		Type:      telemetry.EventFrameRendered,
		SessionID: m.logger.SessionID(),
		Data:      map[string]any{"hidden": hidden},
	})
}

// reportHidden logs every element dropped from the frame and returns the count.
func (m *Manager) reportHidden() int {
	hidden := 0
	var walk func(n *tree.Node[element.Canvas])
	walk = func(n *tree.Node[element.Canvas]) {
		for _, e := range element.Children(n) {
			if !e.Visible() {
				hidden++
				m.logger.Debug(logging.CategoryRender, "element_hidden", "element dropped from frame",
					map[string]any{"element": e.ID()})
				m.hub.Publish(telemetry.Event{
					Type:      telemetry.EventElementHidden,
					SessionID: m.logger.SessionID(),
					Element:   e.ID(),
				})
			}
			walk(e.Node())
		}
	}
	walk(m.root)
	return hidden
}

// GetNext moves focus to the next visible leaf and repaints the leaves
// that changed.
func (m *Manager) GetNext() element.Element {
	prev := m.focus.Active()
	next := m.focus.ActivateNext()
	m.repaint(prev, next, telemetry.FocusNext)
	return next
}

// ResetActive moves focus to the first visible leaf and repaints the
// leaves that changed.
func (m *Manager) ResetActive() element.Element {
	prev := m.focus.Active()
	next := m.focus.ResetActive()
	m.repaint(prev, next, telemetry.FocusReset)
	return next
}

// GetActive returns the active leaf, or nil.
func (m *Manager) GetActive() element.Element {
	return m.focus.Active()
}

func (m *Manager) repaint(prev, next element.Element, reason string) {
	if prev != nil && prev != next {
		prev.Render()
	}
	if next != nil {
		next.Render()
	}
	m.win.Refresh()
	m.publishFocus(next, reason)
}

func (m *Manager) publishFocus(active element.Element, reason string) {
	ev := telemetry.Event{
		Type:      telemetry.EventFocusLost,
		SessionID: m.logger.SessionID(),
		Data:      map[string]any{"reason": reason},
	}
	if active != nil {
		ev.Type = telemetry.EventFocusChanged
		ev.Element = active.ID()
	}
	m.hub.Publish(ev)
}

// Interact forwards ev to the active leaf and flushes. It reports whether
// the leaf consumed the event.
func (m *Manager) Interact(ev terminal.KeyEvent) bool {
	active := m.focus.Active()
	target, ok := active.(widgets.Interactive)
	if !ok {
		return false
	}
	handled := target.Interact(ev)
	if handled {
		m.win.Refresh()
		m.logger.Debug(logging.CategoryInput, "interact", "", map[string]any{
			"element": active.ID(),
			"key":     ev.String(),
		})
	}
	return handled
}

// GetInput returns the next input event, or nil after timeout.
// A negative timeout blocks.
func (m *Manager) GetInput(timeout time.Duration) terminal.Event {
	ev := m.win.GetInput(timeout)
	switch ev.(type) {
	case terminal.KeyEvent:
		m.metrics.InputReceived("key")
	case terminal.ResizeEvent:
		m.metrics.InputReceived("resize")
	}
	return ev
}

// Resize forces a full repaint after the terminal changed size.
func (m *Manager) Resize() {
	m.win.Clear()
	m.Render()
}

var _ element.Canvas = (*Manager)(nil)
