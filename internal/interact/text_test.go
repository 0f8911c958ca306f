package interact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poster/internal/document"
	"poster/internal/history"
	"poster/internal/staging"
)

func TestTextEditCommit(t *testing.T) {
	r := newRig(t)
	require.True(t, r.c.BeginTextEdit("a"))
	assert.Equal(t, EditingText, r.c.State())
	assert.True(t, r.c.Busy())
	assert.Equal(t, "Double-click to edit", r.c.Draft())

	r.c.SetDraft("Summer sale")
	assert.False(t, r.c.PointerDown("a", PartBody, pt(150, 120)), "no gesture while editing")
	assert.Equal(t, 1, r.h.Len(), "drafts are not committed")

	require.True(t, r.c.FinishTextEdit())
	assert.Equal(t, Idle, r.c.State())
	assert.Equal(t, LabelText, r.h.Label())
	el, _ := r.h.Current().Find("a")
	assert.Equal(t, "Summer sale", el.Text.Content)
}

func TestTextEditUnchangedCommitsNothing(t *testing.T) {
	r := newRig(t)
	require.True(t, r.c.BeginTextEdit("a"))
	assert.False(t, r.c.FinishTextEdit())
	assert.Equal(t, 1, r.h.Len())
}

func TestTextEditCancel(t *testing.T) {
	r := newRig(t)
	require.True(t, r.c.BeginTextEdit("a"))
	r.c.SetDraft("discard me")
	r.c.Cancel()
	assert.Equal(t, Idle, r.c.State())
	assert.False(t, r.c.FinishTextEdit())
	assert.Equal(t, 1, r.h.Len())
	assert.Equal(t, "Double-click to edit", r.element(t).Text.Content)
}

func TestTextEditOnlyForText(t *testing.T) {
	h := history.New(document.NewCanvasState().Appended(document.NewImage("img", "a.png")))
	c := New(staging.New(h), portrait)
	assert.False(t, c.BeginTextEdit("img"))
	assert.False(t, c.BeginTextEdit("missing"))
	assert.Equal(t, Idle, c.State())

	c.SetDraft("ignored")
	assert.Equal(t, "", c.Draft())
}
