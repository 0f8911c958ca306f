package document

// CanvasState is one complete document snapshot. Element order is paint
// order: the last element is drawn on top.
type CanvasState struct {
	Elements   []Element  `json:"elements"`
	Background Background `json:"background"`
}

// NewCanvasState returns an empty canvas on a white background.
func NewCanvasState() CanvasState {
	return CanvasState{Elements: []Element{}, Background: White}
}

// Clone returns a copy of s that shares no memory with it.
func (s CanvasState) Clone() CanvasState {
	out := CanvasState{
		Elements:   make([]Element, len(s.Elements)),
		Background: s.Background.Clone(),
	}
	for i, e := range s.Elements {
		out.Elements[i] = e.Clone()
	}
	return out
}

// Equal reports whether s and o hold the same document.
func (s CanvasState) Equal(o CanvasState) bool {
	if len(s.Elements) != len(o.Elements) || !s.Background.Equal(o.Background) {
		return false
	}
	for i := range s.Elements {
		if !s.Elements[i].Equal(o.Elements[i]) {
			return false
		}
	}
	return true
}

// Index returns the paint-order index of id, or -1.
func (s CanvasState) Index(id string) int {
	for i, e := range s.Elements {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Find returns a copy of the element with id.
func (s CanvasState) Find(id string) (Element, bool) {
	i := s.Index(id)
	if i < 0 {
		return Element{}, false
	}
	return s.Elements[i].Clone(), true
}

// Appended returns s with e painted on top.
func (s CanvasState) Appended(e Element) CanvasState {
	out := s.Clone()
	out.Elements = append(out.Elements, e.Clone())
	return out
}

// WithElement returns s with the element sharing e's ID replaced by e. It
// returns s unchanged and false when no such element exists.
func (s CanvasState) WithElement(e Element) (CanvasState, bool) {
	i := s.Index(e.ID)
	if i < 0 {
		return s, false
	}
	out := s.Clone()
	out.Elements[i] = e.Clone()
	return out, true
}

// WithoutElement returns s with id removed.
func (s CanvasState) WithoutElement(id string) (CanvasState, bool) {
	i := s.Index(id)
	if i < 0 {
		return s, false
	}
	out := s.Clone()
	out.Elements = append(out.Elements[:i], out.Elements[i+1:]...)
	return out, true
}

// WithBackground returns s with its background replaced.
func (s CanvasState) WithBackground(b Background) CanvasState {
	out := s.Clone()
	out.Background = b.Clone()
	return out
}

// Restacked returns s with id moved by delta positions in paint order,
// clamped to the ends. It reports false when id is unknown or already at the
// requested end.
func (s CanvasState) Restacked(id string, delta int) (CanvasState, bool) {
	i := s.Index(id)
	if i < 0 {
		return s, false
	}
	j := min(max(i+delta, 0), len(s.Elements)-1)
	if j == i {
		return s, false
	}
	out := s.Clone()
	e := out.Elements[i]
	out.Elements = append(out.Elements[:i], out.Elements[i+1:]...)
	out.Elements = append(out.Elements[:j], append([]Element{e}, out.Elements[j:]...)...)
	return out, true
}

// TopmostAt returns the last-painted element containing p.
func (s CanvasState) TopmostAt(p Point) (Element, bool) {
	for i := len(s.Elements) - 1; i >= 0; i-- {
		if s.Elements[i].Contains(p) {
			return s.Elements[i].Clone(), true
		}
	}
	return Element{}, false
}
