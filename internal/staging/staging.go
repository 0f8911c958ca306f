// Package staging holds the uncommitted canvas shown while a gesture is in
// progress.
//
// A Layer sits between the interaction code and the history store. Pointer
// moves overwrite the staged state as often as they like; only Commit reaches
// history. Readers always call Effective, which is either the last staged
// frame or the last committed snapshot, never a mix of both.
package staging

import (
	"poster/internal/document"
	"poster/internal/logging"
)

// Committer is the history side of the layer.
type Committer interface {
	Commit(label string, state document.CanvasState) bool
	Current() document.CanvasState
}

// Layer owns at most one in-flight CanvasState.
type Layer struct {
	history Committer
	staged  *document.CanvasState
	frames  int
}

// New returns an empty layer over history.
func New(history Committer) *Layer {
	return &Layer{history: history}
}

// Stage replaces any staged state with state. History is not touched.
func (l *Layer) Stage(state document.CanvasState) {
	c := state.Clone()
	l.staged = &c
	l.frames++
}

// Staged reports whether an uncommitted state is present.
func (l *Layer) Staged() bool {
	return l.staged != nil
}

// Effective returns the staged state if there is one, else the committed one.
func (l *Layer) Effective() document.CanvasState {
	if l.staged != nil {
		return l.staged.Clone()
	}
	return l.history.Current()
}

// Commit hands the staged state to history under label and clears staging.
// With nothing staged it does nothing and reports false.
func (l *Layer) Commit(label string) bool {
	if l.staged == nil {
		return false
	}
	state := *l.staged
	frames := l.frames
	l.clear()
	ok := l.history.Commit(label, state)
	logging.Logger().Debug("staging: commit", "label", label, "frames", frames, "recorded", ok)
	return ok
}

// Discard drops the staged state without committing it.
func (l *Layer) Discard() {
	if l.staged != nil {
		logging.Logger().Debug("staging: discard", "frames", l.frames)
	}
	l.clear()
}

func (l *Layer) clear() {
	l.staged = nil
	l.frames = 0
}
