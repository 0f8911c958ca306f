package main

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poster/internal/config"
	"poster/internal/document"
	"poster/internal/interact"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestModel(t *testing.T) (model, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := initialModel(config.Default(), clock.now)
	return send(m, tea.WindowSizeMsg{Width: 120, Height: 50}), clock
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(typ tea.MouseEventType, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Type: typ}
}

func TestAddTextAndUndo(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, key("t"))
	require.Len(t, m.editor.Effective().Elements, 1)

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	assert.Empty(t, m.editor.Effective().Elements)
	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Len(t, m.editor.Effective().Elements, 1)
}

func TestMouseDragCommitsOnce(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, key("t"))
	n := len(m.editor.Records())

	// The default text element spans cells 12-37 x 6-9.
	m = send(m, mouse(tea.MouseLeft, 15, 7))
	require.Equal(t, interact.Dragging, m.editor.Controller().State())
	m = send(m, mouse(tea.MouseMotion, 18, 7), mouse(tea.MouseMotion, 20, 7))
	assert.Equal(t, n, len(m.editor.Records()), "frames are staged, not committed")

	m = send(m, mouse(tea.MouseRelease, 20, 7))
	assert.Equal(t, interact.Idle, m.editor.Controller().State())
	records := m.editor.Records()
	require.Len(t, records, n+1)
	assert.Equal(t, "move element", records[n].Label)

	el, _ := m.editor.Selected()
	assert.Equal(t, document.Point{X: 140, Y: 100}, el.Position())
}

func TestHeldButtonReportedAsPresses(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, key("t"))
	m = send(m, mouse(tea.MouseLeft, 15, 7), mouse(tea.MouseLeft, 16, 7), mouse(tea.MouseRelease, 16, 7))
	el, _ := m.editor.Selected()
	assert.Equal(t, 108.0, el.X)
}

func TestDoubleClickEditsText(t *testing.T) {
	m, clock := newTestModel(t)
	m = send(m, key("t"))
	m = send(m, mouse(tea.MouseLeft, 15, 7), mouse(tea.MouseRelease, 15, 7))
	clock.t = clock.t.Add(150 * time.Millisecond)
	m = send(m, mouse(tea.MouseLeft, 15, 7))
	require.Equal(t, ModeTextEdit, m.mode)

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlU}, key("Hi"), tea.KeyMsg{Type: tea.KeySpace}, key("there"))
	assert.Contains(t, m.View(), "Hi there")

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeNormal, m.mode)
	el, _ := m.editor.Selected()
	assert.Equal(t, "Hi there", el.Text.Content)
	assert.Equal(t, "edit text", m.editor.Records()[len(m.editor.Records())-1].Label)
}

func TestSlowSecondClickDoesNotEdit(t *testing.T) {
	m, clock := newTestModel(t)
	m = send(m, key("t"))
	m = send(m, mouse(tea.MouseLeft, 15, 7), mouse(tea.MouseRelease, 15, 7))
	clock.t = clock.t.Add(time.Second)
	m = send(m, mouse(tea.MouseLeft, 15, 7))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, interact.Dragging, m.editor.Controller().State())
}

func TestEscapeCancelsTextEdit(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, key("t"), key("e"), key("zzz"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeNormal, m.mode)
	el, _ := m.editor.Selected()
	assert.Equal(t, "Double-click to edit", el.Text.Content)
}

func TestUndoIgnoredWhileDragging(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, key("t"), mouse(tea.MouseLeft, 15, 7), mouse(tea.MouseMotion, 20, 7))
	m = send(m, key("u"))
	assert.NotEmpty(t, m.errorMessage)
	assert.Len(t, m.editor.Effective().Elements, 1)
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, key("t"), key("x"))
	require.Equal(t, ModeConfirm, m.mode)
	m = send(m, key("n"))
	assert.Len(t, m.editor.Effective().Elements, 1)

	m = send(m, key("x"), key("y"))
	assert.Empty(t, m.editor.Effective().Elements)
}

func TestHistoryModeJumps(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, key("t"), key("t"), key("t"))
	m = send(m, key("H"))
	require.Equal(t, ModeHistory, m.mode)
	m = send(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ModeNormal, m.mode)
	assert.Len(t, m.editor.Effective().Elements, 1)
	assert.Len(t, m.editor.Records(), 4, "jumping keeps every record")
}

func TestPastedImage(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, pastedMsg{source: "data:image/png;base64,AAAA"})
	el, ok := m.editor.Selected()
	require.True(t, ok)
	assert.Equal(t, document.KindImage, el.Kind)

	m = send(m, pastedMsg{err: errNoImage})
	assert.Contains(t, m.errorMessage, "no image")
}

func TestCyclePreset(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, key("c"))
	assert.Equal(t, document.Presets[1].Size, m.editor.Size())
}

func TestHitTest(t *testing.T) {
	el := document.NewText("a")
	state := document.NewCanvasState().Appended(el)

	tests := []struct {
		name string
		p    document.Point
		want interact.Part
	}{
		{"body", document.Point{X: 150, Y: 120}, interact.PartBody},
		{"nw corner", document.Point{X: 100, Y: 104}, interact.PartResizeNW},
		{"se corner", document.Point{X: 300, Y: 152}, interact.PartResizeSE},
		{"rotate", document.Point{X: 204, Y: 88}, interact.PartRotate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, part, ok := hitTest(state, "a", tt.p)
			require.True(t, ok)
			assert.Equal(t, "a", id)
			assert.Equal(t, tt.want, part)
		})
	}

	_, part, ok := hitTest(state, "", document.Point{X: 100, Y: 104})
	require.True(t, ok)
	assert.Equal(t, interact.PartBody, part, "handles belong to the selection only")
	_, _, ok = hitTest(state, "a", document.Point{X: 5, Y: 5})
	assert.False(t, ok)
}

func TestHandlesFollowRotation(t *testing.T) {
	el := document.NewText("a")
	el.Rotation = 180
	h := handlePoints(el)
	assert.InDelta(t, 300, h[interact.PartResizeNW].X, 1e-9)
	assert.InDelta(t, 150, h[interact.PartResizeNW].Y, 1e-9)
}

func TestImageSource(t *testing.T) {
	exists := func(p string) bool { return strings.HasSuffix(p, "/tmp/cat.png") }
	tests := []struct {
		in   string
		want string
	}{
		{"  data:image/png;base64,AAAA\n", "data:image/png;base64,AAAA"},
		{"https://example.com/a.jpg", "https://example.com/a.jpg"},
		{"file:///tmp/cat.png", "/tmp/cat.png"},
		{"/tmp/cat.png", "/tmp/cat.png"},
		{`<html><body><p>x</p><img alt="c" src="https://example.com/c.png"></body></html>`, "https://example.com/c.png"},
	}
	for _, tt := range tests {
		got, err := imageSource(tt.in, exists)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"", "hello world", "/tmp/notes.txt", "ftp://example.com/a.png", "<div>no image</div>"} {
		_, err := imageSource(bad, exists)
		assert.ErrorIs(t, err, errNoImage, bad)
	}
}

func TestCleanClipboardText(t *testing.T) {
	assert.Equal(t, "one\ntwo", cleanClipboardText("one\r\ntwo"))
	assert.Equal(t, "Hello\nworld", cleanClipboardText(`{\rtf1\ansi Hello\par world}`))
	assert.Equal(t, "Hi\nthere", cleanClipboardText("<div>Hi</div><div>there</div>"))
}

func TestLayoutText(t *testing.T) {
	assert.Equal(t, []string{"Double-click", "to edit"}, layoutText("Double-click to edit", 12))
	assert.Equal(t, []string{"abcd", "ef"}, layoutText("abcdef", 4))
	assert.Equal(t, []string{"a", "", "b"}, layoutText("a\n\nb", 4))
}

func TestGradientAtEnds(t *testing.T) {
	g := document.LinearGradient(90, "#000000", "#ffffff").Gradient
	size := document.Size{Width: 100, Height: 50}
	assert.Equal(t, "#000000", gradientAt(g, size, document.Point{X: 0, Y: 25}).Hex())
	assert.Equal(t, "#ffffff", gradientAt(g, size, document.Point{X: 100, Y: 25}).Hex())
}

func TestViewShowsHistoryPanel(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, key("t"))
	view := m.View()
	assert.Contains(t, view, "History 2/50")
	assert.Contains(t, view, "add text")
}

func TestTextStyleKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, key("t"))

	m = send(m, key("a"))
	el, _ := m.editor.Selected()
	assert.Equal(t, document.AlignCenter, el.Text.Align)
	m = send(m, key("a"), key("a"))
	el, _ = m.editor.Selected()
	assert.Equal(t, document.AlignLeft, el.Text.Align)

	m = send(m, key("B"))
	el, _ = m.editor.Selected()
	assert.Equal(t, "bold", el.Text.FontWeight)
	m = send(m, key("B"))
	el, _ = m.editor.Selected()
	assert.Equal(t, "normal", el.Text.FontWeight)

	m = send(m, key("f"))
	el, _ = m.editor.Selected()
	assert.Equal(t, "Georgia", el.Text.FontFamily)

	n := len(m.editor.Records())
	m = send(m, key("C"))
	el, _ = m.editor.Selected()
	assert.Equal(t, "#ffffff", el.Text.Color)
	records := m.editor.Records()
	require.Len(t, records, n+1)
	assert.Equal(t, "change text color", records[n].Label)
}

func TestBackgroundImageKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, key("F"))
	assert.NotEmpty(t, m.errorMessage, "solid backgrounds have no fit")

	m = send(m, backgroundPastedMsg{source: "data:image/png;base64,AAAA"})
	bg := m.editor.Effective().Background
	require.Equal(t, document.BackgroundImage, bg.Kind)
	assert.Equal(t, "data:image/png;base64,AAAA", bg.Image.Source)
	assert.Equal(t, "set background image", m.editor.Records()[len(m.editor.Records())-1].Label)

	m = send(m, key("F"), key("P"), key("T"))
	img := m.editor.Effective().Background.Image
	assert.Equal(t, document.FitContain, img.Fit)
	assert.Equal(t, document.AnchorTop, img.Position)
	assert.Equal(t, document.RepeatXY, img.Repeat)

	m = send(m, key("u"))
	assert.Equal(t, document.AnchorTop, m.editor.Effective().Background.Image.Position)
	assert.Equal(t, document.NoRepeat, m.editor.Effective().Background.Image.Repeat)

	m = send(m, backgroundPastedMsg{err: errNoImage})
	assert.Contains(t, m.errorMessage, "no image")
}

func TestReleaseClosesGestureUnderHelp(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, key("t"), mouse(tea.MouseLeft, 15, 7), mouse(tea.MouseMotion, 20, 7))
	m = send(m, key("?"))
	require.True(t, m.help)

	m = send(m, mouse(tea.MouseRelease, 20, 7))
	assert.Equal(t, interact.Idle, m.editor.Controller().State())
	assert.True(t, m.help)
	el, _ := m.editor.Selected()
	assert.Equal(t, 140.0, el.X)
}
