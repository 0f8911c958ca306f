// Package editor is the application state of a canvas session: committed
// history, the staging layer, the gesture controller, the selection and the
// canvas size, wired together.
//
// Discrete edits (add, delete, duplicate, field updates, background changes)
// bypass staging and commit straight to history. Continuous edits go through
// the interaction controller, which stages every frame and commits once.
package editor

import (
	"math/rand"
	"time"

	"poster/internal/document"
	"poster/internal/history"
	"poster/internal/interact"
	"poster/internal/logging"
	"poster/internal/staging"
)

// Option configures an Editor.
type Option func(*config)

type config struct {
	size    document.Size
	initial document.CanvasState
	newID   func() string
	clock   func() time.Time
	rand    *rand.Rand
}

// WithSize sets the canvas size.
func WithSize(size document.Size) Option {
	return func(c *config) { c.size = size }
}

// WithInitial sets the state of the first history record.
func WithInitial(state document.CanvasState) Option {
	return func(c *config) { c.initial = state }
}

// WithIDs replaces the element id generator.
func WithIDs(newID func() string) Option {
	return func(c *config) { c.newID = newID }
}

// WithClock sets the history timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.clock = now }
}

// WithRand sets the source used for random backgrounds.
func WithRand(r *rand.Rand) Option {
	return func(c *config) { c.rand = r }
}

// Editor owns one document session. It is driven from a single goroutine.
type Editor struct {
	history  *history.Store
	stage    *staging.Layer
	ctl      *interact.Controller
	size     document.Size
	selected string
	newID    func() string
	rand     *rand.Rand
}

// New returns an editor on an empty white canvas unless configured otherwise.
func New(opts ...Option) *Editor {
	cfg := config{
		size:    document.DefaultSize,
		initial: document.NewCanvasState(),
		newID:   document.NewID,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rand == nil {
		cfg.rand = rand.New(rand.NewSource(cfg.clock().UnixNano()))
	}

	h := history.New(cfg.initial, history.WithClock(cfg.clock))
	layer := staging.New(h)
	e := &Editor{
		history: h,
		stage:   layer,
		ctl:     interact.New(layer, cfg.size),
		size:    cfg.size,
		newID:   cfg.newID,
		rand:    cfg.rand,
	}
	h.OnChange(func(c history.Change) {
		if c.Kind != history.ChangeCommit {
			e.refreshSelection()
		}
	})
	return e
}

// Effective is the state to render: the staged frame during a gesture,
// otherwise the committed snapshot.
func (e *Editor) Effective() document.CanvasState {
	return e.stage.Effective()
}

// Snapshot returns an independent copy of the effective state for export.
// Later edits do not affect it.
func (e *Editor) Snapshot() document.CanvasState {
	return e.stage.Effective().Clone()
}

// Size returns the canvas size.
func (e *Editor) Size() document.Size { return e.size }

// SetCanvasSize changes the canvas size and clears the selection. Elements
// are left where they are.
func (e *Editor) SetCanvasSize(size document.Size) {
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	e.settle()
	e.size = size
	e.ctl.SetCanvasSize(size)
	e.selected = ""
}

// Controller exposes the gesture state machine for text editing and state
// queries.
func (e *Editor) Controller() *interact.Controller { return e.ctl }

// Busy reports whether a gesture or text edit is active.
func (e *Editor) Busy() bool { return e.ctl.Busy() }

// Selected returns the selected element as currently rendered.
func (e *Editor) Selected() (document.Element, bool) {
	if e.selected == "" {
		return document.Element{}, false
	}
	return e.Effective().Find(e.selected)
}

// SelectedID returns the selected element id, or "".
func (e *Editor) SelectedID() string { return e.selected }

// Select selects id. It reports false, leaving the selection alone, when id
// does not exist.
func (e *Editor) Select(id string) bool {
	if _, ok := e.Effective().Find(id); !ok {
		return false
	}
	e.selected = id
	return true
}

// ClearSelection deselects.
func (e *Editor) ClearSelection() { e.selected = "" }

// ElementAt returns the topmost element under p.
func (e *Editor) ElementAt(p document.Point) (document.Element, bool) {
	return e.Effective().TopmostAt(p)
}

// Press selects id and starts a gesture on it.
func (e *Editor) Press(id string, part interact.Part, p document.Point) bool {
	if e.ctl.Busy() {
		return false
	}
	if !e.Select(id) {
		return false
	}
	return e.ctl.PointerDown(id, part, p)
}

// Drag feeds a pointer move to the active gesture.
func (e *Editor) Drag(p document.Point) { e.ctl.PointerMove(p) }

// Release ends the active gesture and reports whether it was committed.
func (e *Editor) Release() bool { return e.ctl.PointerUp() }

// Cancel abandons the active gesture or text edit.
func (e *Editor) Cancel() { e.ctl.Cancel() }

// Undo steps history back. It is refused while busy.
func (e *Editor) Undo() bool {
	if e.ctl.Busy() {
		logging.Logger().Debug("editor: undo deferred while busy", "state", e.ctl.State().String())
		return false
	}
	e.stage.Discard()
	_, ok := e.history.Undo()
	return ok
}

// Redo steps history forward. It is refused while busy.
func (e *Editor) Redo() bool {
	if e.ctl.Busy() {
		logging.Logger().Debug("editor: redo deferred while busy", "state", e.ctl.State().String())
		return false
	}
	e.stage.Discard()
	_, ok := e.history.Redo()
	return ok
}

// JumpTo makes history record index current without discarding any records.
// It is refused while busy.
func (e *Editor) JumpTo(index int) bool {
	if e.ctl.Busy() {
		return false
	}
	e.stage.Discard()
	_, ok := e.history.JumpTo(index)
	return ok
}

// Records lists history for display.
func (e *Editor) Records() []history.RecordInfo { return e.history.Records() }

// CanUndo reports whether Undo would do anything.
func (e *Editor) CanUndo() bool { return !e.ctl.Busy() && e.history.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (e *Editor) CanRedo() bool { return !e.ctl.Busy() && e.history.CanRedo() }

// refreshSelection drops a selection that no longer resolves after history
// navigation removed the element.
func (e *Editor) refreshSelection() {
	if e.selected == "" {
		return
	}
	if _, ok := e.history.Current().Find(e.selected); !ok {
		logging.Logger().Debug("editor: selection cleared", "id", e.selected)
		e.selected = ""
	}
}

// settle ends any in-flight interaction before a discrete edit: an open text
// edit is committed, a gesture is abandoned.
func (e *Editor) settle() {
	switch e.ctl.State() {
	case interact.Idle:
	case interact.EditingText:
		e.ctl.FinishTextEdit()
	default:
		e.ctl.Cancel()
	}
}

// commit writes next to history, dropping any stale staged frame so it
// cannot reappear over the new snapshot.
func (e *Editor) commit(label string, next document.CanvasState) bool {
	e.stage.Discard()
	return e.history.Commit(label, next)
}
