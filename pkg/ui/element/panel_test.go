package element

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkerrors "github.com/odvcencio/panelkit/pkg/errors"
	"github.com/odvcencio/panelkit/pkg/ui/backend"
)

func fixedPanel(t *testing.T, id string, y, x, h, w int) *Panel {
	t.Helper()
	p, err := NewPanel(id, id, Geometry{
		Y:      absPos(t, y),
		X:      absPos(t, x),
		Height: absSize(t, h),
		Width:  absSize(t, w),
	})
	require.NoError(t, err)
	return p
}

func TestPanel_Render(t *testing.T) {
	r := &recorder{height: 40, width: 100}
	p := scenarioPanel(t, "main")
	leaf := newSpy(t, "leaf")
	attach(t, r, p)
	require.NoError(t, p.AddChild(leaf))

	p.Render()

	assert.True(t, p.Visible())
	assert.True(t, leaf.Visible())
	assert.Equal(t, 1, leaf.renders)
	assert.Equal(t, [][4]int{{8, 35, 23, 64}}, r.rects)
	require.Len(t, r.draws, 2)
	assert.Equal(t, drawCall{8, 35 + 12, " Main ", backend.Normal}, r.draws[0])
	assert.Equal(t, drawCall{9, 36, "leaf", backend.Normal}, r.draws[1])
}

func TestPanel_ActiveTitle(t *testing.T) {
	r := &recorder{height: 40, width: 100}
	p := scenarioPanel(t, "main")
	attach(t, r, p)
	p.SetActive(true)

	p.Render()

	require.Len(t, r.draws, 1)
	assert.Equal(t, backend.Bold|backend.Highlighted, r.draws[0].style)
}

func TestPanel_TooWideHidesSubtree(t *testing.T) {
	r := &recorder{height: 40, width: 30}
	p := fixedPanel(t, "wide", 0, 0, 10, 50)
	inner := fixedPanel(t, "inner", 0, 0, 4, 10)
	leaf := newSpy(t, "leaf")
	deep := newSpy(t, "deep")
	attach(t, r, p)
	require.NoError(t, p.AddChild(leaf))
	require.NoError(t, p.AddChild(inner))
	require.NoError(t, inner.AddChild(deep))
	for _, e := range []Element{p, inner, leaf, deep} {
		e.SetVisible(true)
	}

	p.Render()

	assert.False(t, p.Visible())
	assert.False(t, inner.Visible())
	assert.False(t, leaf.Visible())
	assert.False(t, deep.Visible())
	assert.Zero(t, leaf.renders)
	assert.Zero(t, deep.renders)
	assert.Empty(t, r.draws)
	assert.Empty(t, r.rects)
}

func TestPanel_FailureStaysLocal(t *testing.T) {
	r := &recorder{height: 40, width: 100}
	outer := scenarioPanel(t, "outer")
	bad := fixedPanel(t, "bad", 0, 0, 3, 40)
	good := newSpy(t, "good")
	attach(t, r, outer)
	require.NoError(t, outer.AddChild(bad))
	require.NoError(t, outer.AddChild(good))

	outer.Render()

	assert.True(t, outer.Visible())
	assert.False(t, bad.Visible())
	assert.True(t, good.Visible())
	assert.Equal(t, 1, good.renders)
}

func TestPanel_HiddenParentHidesSubtree(t *testing.T) {
	r := &recorder{height: 40, width: 100}
	outer := scenarioPanel(t, "outer")
	inner := fixedPanel(t, "inner", 0, 0, 4, 10)
	leaf := newSpy(t, "leaf")
	attach(t, r, outer)
	require.NoError(t, outer.AddChild(inner))
	require.NoError(t, inner.AddChild(leaf))

	outer.Render()
	require.True(t, inner.Visible())
	r.draws, r.rects = nil, nil
	leaf.renders = 0

	Hide(outer)
	inner.Render()

	assert.False(t, outer.Visible())
	assert.False(t, inner.Visible())
	assert.False(t, leaf.Visible())
	assert.Zero(t, leaf.renders)
	assert.Empty(t, r.draws)
	assert.Empty(t, r.rects)
}

func TestPanel_TooSmallForBorder(t *testing.T) {
	r := &recorder{height: 10, width: 10}
	p, err := NewPanel("thin", "", Geometry{
		Y:      absPos(t, 0),
		X:      absPos(t, 0),
		Height: absSize(t, 1),
		Width:  absSize(t, 5),
	})
	require.NoError(t, err)
	attach(t, r, p)

	p.Render()
	assert.False(t, p.Visible())

	p.SetBorders(false)
	p.Render()
	assert.True(t, p.Visible())
	assert.Empty(t, r.rects)
}

func TestPanel_Children(t *testing.T) {
	p := scenarioPanel(t, "main")
	a := newSpy(t, "a")
	b := newSpy(t, "b")
	require.NoError(t, p.AddChild(a))
	require.NoError(t, p.AddChild(b))

	err := p.AddChild(newSpy(t, "a"))
	assert.True(t, errors.Is(err, pkerrors.ErrDuplicateName))
	assert.True(t, errors.Is(p.AddChild(nil), pkerrors.ErrInvalidArgument))

	assert.Equal(t, []Element{a, b}, p.Children())

	p.RemoveChild(a)
	p.RemoveChild(a)
	assert.Equal(t, []Element{b}, p.Children())

	_, err = a.Parent()
	assert.True(t, errors.Is(err, pkerrors.ErrDetached))
}

func TestTitleLabel(t *testing.T) {
	tests := []struct {
		title string
		width int
		col   int
		label string
	}{
		{"Main", 30, 12, " Main "},
		{"Main", 8, 1, " Main "},
		{"A long title here", 10, 1, " A lo..."},
		{"Main", 5, 1, " Ma"},
		{"Main", 2, 1, ""},
	}
	for _, tt := range tests {
		col, label := titleLabel(tt.title, tt.width)
		assert.Equal(t, tt.col, col, "%s/%d", tt.title, tt.width)
		assert.Equal(t, tt.label, label, "%s/%d", tt.title, tt.width)
	}
}
