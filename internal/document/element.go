// Package document defines the canvas data model: elements, backgrounds and
// the CanvasState snapshot that history records hold.
//
// Values in this package carry no behaviour beyond construction, lookup and
// copying. A CanvasState that has been handed to the history store must never be
// modified in place; every edit goes through a method that returns a new value.
package document

import (
	"math"

	"github.com/google/uuid"
)

// Kind discriminates the element variants.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Text alignment values.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Point is a canvas-local coordinate in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Element is a positioned item on the canvas. Exactly one of Text or Image is
// set, matching Kind.
type Element struct {
	ID       string  `json:"id"`
	Kind     Kind    `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"` // degrees, not normalized

	Text  *TextProps  `json:"text,omitempty"`
	Image *ImageProps `json:"image,omitempty"`
}

// TextProps holds the text-only fields.
type TextProps struct {
	Content    string  `json:"content"`
	FontFamily string  `json:"fontFamily"`
	FontSize   float64 `json:"fontSize"`
	FontWeight string  `json:"fontWeight"`
	Color      string  `json:"color"`
	Align      string  `json:"textAlign"`
	LineHeight float64 `json:"lineHeight"`
}

// ImageProps holds the image-only fields.
type ImageProps struct {
	Source  string  `json:"src"`
	Opacity float64 `json:"opacity"`
}

// NewID returns a fresh element identifier.
func NewID() string {
	return uuid.NewString()
}

// NewText returns a text element with the default geometry and styling.
func NewText(id string) Element {
	return Element{
		ID:     id,
		Kind:   KindText,
		X:      100,
		Y:      100,
		Width:  200,
		Height: 50,
		Text: &TextProps{
			Content:    "Double-click to edit",
			FontFamily: "Arial",
			FontSize:   16,
			FontWeight: "normal",
			Color:      "#000000",
			Align:      AlignLeft,
			LineHeight: 1.5,
		},
	}
}

// NewImage returns an image element showing source.
func NewImage(id, source string) Element {
	return Element{
		ID:     id,
		Kind:   KindImage,
		X:      100,
		Y:      100,
		Width:  200,
		Height: 200,
		Image: &ImageProps{
			Source:  source,
			Opacity: 1,
		},
	}
}

// Clone returns a copy of e that shares no memory with it.
func (e Element) Clone() Element {
	if e.Text != nil {
		t := *e.Text
		e.Text = &t
	}
	if e.Image != nil {
		img := *e.Image
		e.Image = &img
	}
	return e
}

// Equal reports whether e and o hold the same values.
func (e Element) Equal(o Element) bool {
	if e.ID != o.ID || e.Kind != o.Kind ||
		e.X != o.X || e.Y != o.Y || e.Width != o.Width || e.Height != o.Height ||
		e.Rotation != o.Rotation {
		return false
	}
	if (e.Text == nil) != (o.Text == nil) || (e.Image == nil) != (o.Image == nil) {
		return false
	}
	if e.Text != nil && *e.Text != *o.Text {
		return false
	}
	if e.Image != nil && *e.Image != *o.Image {
		return false
	}
	return true
}

// Position returns the top-left corner.
func (e Element) Position() Point {
	return Point{X: e.X, Y: e.Y}
}

// Center returns the centre of the unrotated bounding box.
func (e Element) Center() Point {
	return Point{X: e.X + e.Width/2, Y: e.Y + e.Height/2}
}

// Contains reports whether p falls inside the element, taking rotation into
// account.
func (e Element) Contains(p Point) bool {
	c := e.Center()
	if e.Rotation != 0 {
		rad := -e.Rotation * math.Pi / 180
		dx, dy := p.X-c.X, p.Y-c.Y
		p = Point{
			X: c.X + dx*math.Cos(rad) - dy*math.Sin(rad),
			Y: c.Y + dx*math.Sin(rad) + dy*math.Cos(rad),
		}
	}
	return p.X >= e.X && p.X <= e.X+e.Width && p.Y >= e.Y && p.Y <= e.Y+e.Height
}

// NormalizeDegrees maps a rotation into [0, 360) for display.
func NormalizeDegrees(deg float64) float64 {
	n := math.Mod(deg, 360)
	if n < 0 {
		n += 360
	}
	return n
}
