package editor

import (
	"poster/internal/document"
)

// Operation labels.
const (
	LabelAddText   = "add text"
	LabelAddImage  = "add image"
	LabelDelete    = "delete element"
	LabelDuplicate = "duplicate element"
	LabelForward   = "bring forward"
	LabelBackward  = "send backward"
)

// DuplicateOffset is how far a duplicate is shifted on both axes.
const DuplicateOffset = 20

// AddText appends a default text element, selects it and returns its id.
func (e *Editor) AddText() string {
	e.settle()
	el := document.NewText(e.newID())
	e.commit(LabelAddText, e.Effective().Appended(el))
	e.selected = el.ID
	return el.ID
}

// AddImage appends an image element showing source, selects it and returns
// its id. An empty source adds nothing.
func (e *Editor) AddImage(source string) (string, bool) {
	if source == "" {
		return "", false
	}
	e.settle()
	el := document.NewImage(e.newID(), source)
	e.commit(LabelAddImage, e.Effective().Appended(el))
	e.selected = el.ID
	return el.ID, true
}

// UpdateField merges patch into element id. Unknown ids and patches that
// change nothing leave the state and history untouched.
func (e *Editor) UpdateField(id string, patch document.Patch) bool {
	e.settle()
	cur := e.Effective()
	el, ok := cur.Find(id)
	if !ok {
		return false
	}
	updated := patch.Apply(el)
	if updated.Equal(el) {
		return false
	}
	next, _ := cur.WithElement(updated)
	return e.commit(patch.Label(), next)
}

// Nudge moves element id by (dx, dy), clamped to the canvas like a drag.
func (e *Editor) Nudge(id string, dx, dy float64) bool {
	e.settle()
	el, ok := e.Effective().Find(id)
	if !ok {
		return false
	}
	x := min(max(el.X+dx, 0), max(e.size.Width-el.Width, 0))
	y := min(max(el.Y+dy, 0), max(e.size.Height-el.Height, 0))
	return e.UpdateField(id, document.Move(x, y))
}

// DeleteElement removes element id, clearing the selection if it pointed there.
func (e *Editor) DeleteElement(id string) bool {
	e.settle()
	next, ok := e.Effective().WithoutElement(id)
	if !ok {
		return false
	}
	if e.selected == id {
		e.selected = ""
	}
	return e.commit(LabelDelete, next)
}

// DuplicateElement copies element id under a new id, offset by
// DuplicateOffset, selects the copy and returns its id.
func (e *Editor) DuplicateElement(id string) (string, bool) {
	e.settle()
	cur := e.Effective()
	el, ok := cur.Find(id)
	if !ok {
		return "", false
	}
	dup := el.Clone()
	dup.ID = e.newID()
	dup.X += DuplicateOffset
	dup.Y += DuplicateOffset
	e.commit(LabelDuplicate, cur.Appended(dup))
	e.selected = dup.ID
	return dup.ID, true
}

// SetBackground replaces the background. Malformed or identical backgrounds
// are ignored.
func (e *Editor) SetBackground(bg document.Background) bool {
	if !bg.Valid() {
		return false
	}
	e.settle()
	cur := e.Effective()
	if cur.Background.Equal(bg) {
		return false
	}
	return e.commit(bg.Label(), cur.WithBackground(bg))
}

// RandomBackground applies one of the gradient presets.
func (e *Editor) RandomBackground() bool {
	return e.SetBackground(document.RandomGradient(e.rand))
}

// BringForward moves element id one step up the paint order.
func (e *Editor) BringForward(id string) bool {
	return e.restack(id, 1, LabelForward)
}

// SendBackward moves element id one step down the paint order.
func (e *Editor) SendBackward(id string) bool {
	return e.restack(id, -1, LabelBackward)
}

func (e *Editor) restack(id string, delta int, label string) bool {
	e.settle()
	next, ok := e.Effective().Restacked(id, delta)
	if !ok {
		return false
	}
	return e.commit(label, next)
}
