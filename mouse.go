package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"poster/internal/document"
	"poster/internal/interact"
	"poster/internal/logging"
)

// rotateHandleOffset is how far above the top edge the rotate handle sits.
const rotateHandleOffset = cellHeight

// handlePoints returns the canvas positions of an element's handles,
// following its rotation.
func handlePoints(el document.Element) map[interact.Part]document.Point {
	c := el.Center()
	at := func(x, y float64) document.Point {
		return rotateAround(document.Point{X: x, Y: y}, c, el.Rotation)
	}
	return map[interact.Part]document.Point{
		interact.PartResizeNW: at(el.X, el.Y),
		interact.PartResizeNE: at(el.X+el.Width, el.Y),
		interact.PartResizeSW: at(el.X, el.Y+el.Height),
		interact.PartResizeSE: at(el.X+el.Width, el.Y+el.Height),
		interact.PartRotate:   at(el.X+el.Width/2, el.Y-rotateHandleOffset),
	}
}

// hitTest resolves p to an element and the part of it under the pointer.
// Handles of the selected element win over any body.
func hitTest(state document.CanvasState, selected string, p document.Point) (string, interact.Part, bool) {
	if el, ok := state.Find(selected); ok {
		for _, part := range []interact.Part{
			interact.PartRotate,
			interact.PartResizeNW, interact.PartResizeNE,
			interact.PartResizeSW, interact.PartResizeSE,
		} {
			h := handlePoints(el)[part]
			if abs(h.X-p.X) <= cellWidth && abs(h.Y-p.Y) <= cellHeight/2 {
				return el.ID, part, true
			}
		}
	}
	if el, ok := state.TopmostAt(p); ok {
		return el.ID, interact.PartBody, true
	}
	return "", interact.PartBody, false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// gestureActive reports a drag, resize or rotate in progress.
func (m model) gestureActive() bool {
	switch m.editor.Controller().State() {
	case interact.Dragging, interact.Resizing, interact.Rotating:
		return true
	}
	return false
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := cellCenter(msg.X, msg.Y)
	// A gesture opened before an overlay still has to be closed by its release.
	if msg.Type == tea.MouseRelease && m.gestureActive() {
		m.editor.Drag(p)
		if m.editor.Release() {
			m.errorMessage = ""
		}
		return m, nil
	}
	if m.help || m.mode == ModeHistory || m.mode == ModeConfirm {
		return m, nil
	}

	switch msg.Type {
	case tea.MouseLeft:
		// Some terminals report held-button motion as repeated presses.
		if m.gestureActive() {
			m.editor.Drag(p)
			return m, nil
		}
		cols, rows := canvasCells(m.editor.Size())
		if msg.X >= cols || msg.Y >= rows {
			return m, nil
		}
		m.pressAt(p)
	case tea.MouseMotion:
		if m.gestureActive() {
			m.editor.Drag(p)
		}
	}
	return m, nil
}

// pressAt handles a primary press on the canvas: it closes an open text
// edit, opens the editor on a double press of a text element, and otherwise
// starts a gesture on whatever is under the pointer.
func (m *model) pressAt(p document.Point) {
	if m.mode == ModeTextEdit {
		m.finishTextEdit()
	}
	id, part, ok := hitTest(m.editor.Effective(), m.editor.SelectedID(), p)
	if !ok {
		m.editor.ClearSelection()
		m.lastClickID = ""
		return
	}

	now := m.now()
	double := part == interact.PartBody && id == m.lastClickID &&
		now.Sub(m.lastClickAt).Milliseconds() <= doubleClickWindow
	m.lastClickID, m.lastClickAt = id, now
	if double {
		m.lastClickID = ""
		m.beginTextEdit(id)
		return
	}

	if !m.editor.Press(id, part, p) {
		logging.Logger().Debug("mouse: press ignored", "id", id)
	}
}
