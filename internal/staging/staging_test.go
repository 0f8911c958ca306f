package staging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poster/internal/document"
	"poster/internal/history"
)

func newLayer() (*Layer, *history.Store, document.CanvasState) {
	base := document.NewCanvasState().Appended(document.NewText("a"))
	h := history.New(base)
	return New(h), h, base
}

func TestEffectiveFallsBackToHistory(t *testing.T) {
	l, _, base := newLayer()
	assert.False(t, l.Staged())
	assert.True(t, l.Effective().Equal(base))
}

func TestGestureCoalescing(t *testing.T) {
	l, h, base := newLayer()
	e, _ := base.Find("a")

	var last document.CanvasState
	for i := 0; i < 100; i++ {
		last, _ = base.WithElement(document.Move(float64(i), float64(i)).Apply(e))
		l.Stage(last)
		require.True(t, l.Effective().Equal(last))
		require.Equal(t, 1, h.Len(), "staging must not touch history")
	}

	require.True(t, l.Commit("move element"))
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "move element", h.Label())
	assert.True(t, h.Current().Equal(last))
	assert.False(t, l.Staged())
	assert.True(t, l.Effective().Equal(last))
}

func TestCommitWithNothingStaged(t *testing.T) {
	l, h, _ := newLayer()
	assert.False(t, l.Commit("noop"))
	assert.False(t, l.Commit("noop"))
	assert.Equal(t, 1, h.Len())

	l.Stage(document.NewCanvasState())
	assert.True(t, l.Commit("clear"))
	assert.False(t, l.Commit("clear"))
	assert.Equal(t, 2, h.Len())
}

func TestDiscard(t *testing.T) {
	l, h, base := newLayer()
	l.Stage(document.NewCanvasState())
	require.True(t, l.Staged())

	l.Discard()
	assert.False(t, l.Staged())
	assert.True(t, l.Effective().Equal(base))
	assert.Equal(t, 1, h.Len())
}

func TestStageCopies(t *testing.T) {
	l, _, base := newLayer()
	next := base.Clone()
	l.Stage(next)
	next.Elements[0].Text.Content = "mutated"
	assert.Equal(t, "Double-click to edit", l.Effective().Elements[0].Text.Content)
}
