// Package focus tracks the active leaf of an element tree.
//
// At most one leaf is active. When a leaf is active every element on the
// path up to the root is active too. The manager only reads visibility,
// which elements write during their own render.
package focus

import (
	"github.com/odvcencio/panelkit/pkg/logging"
	"github.com/odvcencio/panelkit/pkg/telemetry"
	"github.com/odvcencio/panelkit/pkg/tree"
	"github.com/odvcencio/panelkit/pkg/ui/element"
)

// Manager cycles focus through the visible leaves below root.
type Manager struct {
	root    *tree.Node[element.Canvas]
	cursor  *tree.Cursor[element.Canvas]
	active  *tree.Node[element.Canvas]
	path    []element.Element // leaf first, as activated
	logger  *logging.Logger
	metrics *telemetry.Metrics
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger logs focus changes.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithMetrics counts focus changes.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// NewManager manages the leaves below root. The root payload is the
// drawing surface and never takes focus itself.
func NewManager(root *tree.Node[element.Canvas], opts ...Option) *Manager {
	m := &Manager{
		root:   root,
		cursor: tree.NewCursor(root),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Root returns the managed tree root.
func (m *Manager) Root() *tree.Node[element.Canvas] {
	return m.root
}

// Elements returns the top-level elements in insertion order.
func (m *Manager) Elements() []element.Element {
	return element.Children(m.root)
}

// AddElement attaches e below the root.
func (m *Manager) AddElement(e element.Element) error {
	return m.root.AddChild(e.Node())
}

// RemoveElement detaches e from the root. Focus is dropped if it was on
// the removed subtree.
func (m *Manager) RemoveElement(e element.Element) {
	for _, el := range m.path {
		if el == e {
			m.deactivate()
			break
		}
	}
	m.root.RemoveChild(e.Node())
}

// Active returns the active leaf element, or nil. A leaf detached from
// the tree behind the manager's back no longer counts as active.
func (m *Manager) Active() element.Element {
	if !m.attached() {
		return nil
	}
	el, _ := m.active.Payload().(element.Element)
	return el
}

// ResetActive deactivates the current path and activates the first
// visible leaf. It returns nil when no leaf is visible.
func (m *Manager) ResetActive() element.Element {
	m.deactivate()
	m.cursor.Reset()
	return m.activateFrom(telemetry.FocusReset)
}

// ActivateNext moves focus to the next visible leaf after the current
// one, wrapping around. It returns nil when no leaf is visible.
func (m *Manager) ActivateNext() element.Element {
	return m.next(telemetry.FocusNext)
}

// EnsureVisible moves focus on when the active leaf is no longer visible,
// no longer a leaf, or no longer in the tree. It reports whether focus moved.
func (m *Manager) EnsureVisible() bool {
	if m.active == nil {
		return false
	}
	if m.attached() && !m.active.HasChildren() && eligible(m.active) {
		return false
	}
	m.next(telemetry.FocusAuto)
	return true
}

func (m *Manager) next(reason string) element.Element {
	m.seekActive()
	m.deactivate()
	return m.activateFrom(reason)
}

// seekActive points the cursor at the active leaf. If that node has since
// gained children the cursor stops just before its first descendant leaf.
// A detached node leaves the cursor where the last tree edit put it.
func (m *Manager) seekActive() {
	if !m.attached() {
		return
	}
	if !m.active.HasChildren() {
		m.cursor.Seek(m.active)
		return
	}
	for leaf := range m.active.Leaves() {
		m.cursor.SeekBefore(leaf)
		return
	}
}

func (m *Manager) attached() bool {
	return m.active != nil && m.active.Root() == m.root
}

// activateFrom advances the cursor until a visible leaf is found, trying
// every leaf at most once.
func (m *Manager) activateFrom(reason string) element.Element {
	for range m.cursor.Len() {
		leaf := m.cursor.Advance()
		if !eligible(leaf) {
			continue
		}
		m.activate(leaf)
		m.metrics.FocusChanged(reason)
		m.logger.Info(logging.CategoryFocus, "activated", "", map[string]any{
			"element": leaf.Name(),
			"reason":  reason,
		})
		return m.Active()
	}
	m.logger.Debug(logging.CategoryFocus, "no_visible_leaf", "no leaf can take focus", nil)
	return nil
}

func eligible(n *tree.Node[element.Canvas]) bool {
	el, ok := n.Payload().(element.Element)
	if !ok || !el.Visible() {
		return false
	}
	if f, ok := el.(element.Focusable); ok && !f.CanFocus() {
		return false
	}
	return true
}

// activate marks leaf and every element above it active.
func (m *Manager) activate(leaf *tree.Node[element.Canvas]) {
	m.path = m.path[:0]
	for n := range leaf.Ancestors() {
		if el, ok := n.Payload().(element.Element); ok {
			el.SetActive(true)
			m.path = append(m.path, el)
		}
	}
	m.active = leaf
}

// deactivate clears the path recorded by activate, which still reaches the
// old ancestors after the leaf was moved or detached.
func (m *Manager) deactivate() {
	for _, el := range m.path {
		el.SetActive(false)
	}
	m.path = m.path[:0]
	m.active = nil
}
