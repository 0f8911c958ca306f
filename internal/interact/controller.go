// Package interact turns pointer and keyboard input into canvas edits.
//
// The Controller is a small state machine: Idle, one of three exclusive
// gestures (Dragging, Resizing, Rotating), or EditingText. Every pointer move
// during a gesture stages a new canvas; the pointer release commits exactly
// one history entry for the whole gesture.
package interact

import (
	"math"

	"poster/internal/document"
	"poster/internal/logging"
)

// MinSize is the smallest width or height a resize can produce.
const MinSize = 20

// Commit labels.
const (
	LabelMove   = "move element"
	LabelResize = "resize element"
	LabelRotate = "rotate element"
	LabelText   = "edit text"
)

// State is the controller mode.
type State int

const (
	Idle State = iota
	Dragging
	Resizing
	Rotating
	EditingText
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	case Rotating:
		return "rotating"
	case EditingText:
		return "editing text"
	}
	return "unknown"
}

// Part is the region of an element a pointer-down landed on.
type Part int

const (
	PartBody Part = iota
	PartRotate
	PartResizeNW
	PartResizeNE
	PartResizeSW
	PartResizeSE
)

// Stager is the state the controller reads and writes. staging.Layer
// implements it.
type Stager interface {
	Stage(state document.CanvasState)
	Effective() document.CanvasState
	Commit(label string) bool
	Discard()
}

type gesture struct {
	id     string
	part   Part
	base   document.CanvasState
	start  document.Element
	last   document.Element
	origin document.Point
	offset document.Point
	center document.Point
	angle0 float64
}

type textEdit struct {
	id       string
	original string
	draft    string
}

// Controller drives one gesture or text edit at a time.
type Controller struct {
	stage  Stager
	canvas document.Size
	state  State
	g      gesture
	text   textEdit
}

// New returns an idle controller for a canvas of the given size.
func New(stage Stager, canvas document.Size) *Controller {
	return &Controller{stage: stage, canvas: canvas}
}

// SetCanvasSize changes the bounds used for clamping.
func (c *Controller) SetCanvasSize(size document.Size) { c.canvas = size }

// State returns the current mode.
func (c *Controller) State() State { return c.state }

// Busy reports whether a gesture or a text edit is in progress. Hosts must
// not navigate history while busy.
func (c *Controller) Busy() bool { return c.state != Idle }

// Target returns the id of the element being manipulated or edited.
func (c *Controller) Target() (string, bool) {
	switch c.state {
	case Idle:
		return "", false
	case EditingText:
		return c.text.id, true
	}
	return c.g.id, true
}

// PointerDown starts a gesture on element id. It reports false, starting
// nothing, when another gesture or edit is active or id does not exist.
func (c *Controller) PointerDown(id string, part Part, p document.Point) bool {
	if c.state != Idle {
		logging.Logger().Warn("interact: pointer-down ignored", "state", c.state.String(), "id", id)
		return false
	}
	base := c.stage.Effective()
	el, ok := base.Find(id)
	if !ok {
		return false
	}

	c.g = gesture{
		id:     id,
		part:   part,
		base:   base,
		start:  el,
		last:   el,
		origin: p,
		offset: document.Point{X: p.X - el.X, Y: p.Y - el.Y},
		center: el.Center(),
	}
	switch part {
	case PartBody:
		c.state = Dragging
	case PartRotate:
		c.state = Rotating
		c.g.angle0 = angleAt(c.g.center, p)
	default:
		c.state = Resizing
	}
	logging.Logger().Debug("interact: gesture start", "state", c.state.String(), "id", id)
	return true
}

// PointerMove stages the element geometry for pointer position p.
func (c *Controller) PointerMove(p document.Point) {
	switch c.state {
	case Dragging:
		c.g.last = c.drag(p)
	case Resizing:
		c.g.last = c.resize(p)
	case Rotating:
		c.g.last = c.rotate(p)
	default:
		return
	}
	c.restage()
}

// PointerUp ends the active gesture wherever the pointer is. The last
// computed geometry is staged once more and committed as one history entry.
// A gesture that left the element where it started is discarded. It reports
// whether a record was committed.
func (c *Controller) PointerUp() bool {
	var label string
	switch c.state {
	case Dragging:
		label = LabelMove
	case Resizing:
		label = LabelResize
	case Rotating:
		label = LabelRotate
	default:
		return false
	}

	c.restage()
	changed := !c.g.last.Equal(c.g.start)
	committed := false
	if changed {
		committed = c.stage.Commit(label)
	} else {
		c.stage.Discard()
	}
	logging.Logger().Debug("interact: gesture end", "label", label, "id", c.g.id, "committed", committed)
	c.state = Idle
	c.g = gesture{}
	return committed
}

// Cancel abandons the active gesture, reverting to the committed state
// without touching history. A text edit is cancelled too.
func (c *Controller) Cancel() {
	switch c.state {
	case Idle:
		return
	case EditingText:
		c.CancelTextEdit()
		return
	}
	c.stage.Discard()
	logging.Logger().Debug("interact: gesture cancelled", "id", c.g.id)
	c.state = Idle
	c.g = gesture{}
}

func (c *Controller) restage() {
	next, ok := c.g.base.WithElement(c.g.last)
	if ok {
		c.stage.Stage(next)
	}
}

func (c *Controller) drag(p document.Point) document.Element {
	el := c.g.start.Clone()
	el.X = ClampPosition(p.X-c.g.offset.X, el.Width, c.canvas.Width)
	el.Y = ClampPosition(p.Y-c.g.offset.Y, el.Height, c.canvas.Height)
	return el
}

func (c *Controller) resize(p document.Point) document.Element {
	el := c.g.start.Clone()
	dx, dy := p.X-c.g.origin.X, p.Y-c.g.origin.Y
	growRight := c.g.part == PartResizeNE || c.g.part == PartResizeSE
	growDown := c.g.part == PartResizeSW || c.g.part == PartResizeSE
	el.X, el.Width = resizeAxis(el.X, el.Width, dx, c.canvas.Width, growRight)
	el.Y, el.Height = resizeAxis(el.Y, el.Height, dy, c.canvas.Height, growDown)
	return el
}

func (c *Controller) rotate(p document.Point) document.Element {
	el := c.g.start.Clone()
	el.Rotation = c.g.start.Rotation + (angleAt(c.g.center, p)-c.g.angle0)*180/math.Pi
	return el
}

// ClampPosition keeps an extent of length size starting at pos inside
// [0, limit]. Oversized extents are pinned at 0.
func ClampPosition(pos, size, limit float64) float64 {
	return max(0, min(pos, limit-size))
}

// resizeAxis resizes one axis with the edge opposite the handle anchored.
// The size is capped at the room left before the canvas edge on the growing
// side, then floored at MinSize.
func resizeAxis(pos, size, delta, limit float64, growPositive bool) (float64, float64) {
	if growPositive {
		return pos, max(MinSize, min(size+delta, limit-pos))
	}
	end := pos + size
	n := max(MinSize, min(size-delta, end))
	return end - n, n
}

func angleAt(center, p document.Point) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X)
}
