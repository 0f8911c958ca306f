package document

// Patch is a partial element update. Nil fields are left untouched. Text
// fields are ignored on image elements and image fields on text elements.
type Patch struct {
	X        *float64
	Y        *float64
	Width    *float64
	Height   *float64
	Rotation *float64

	Content    *string
	FontFamily *string
	FontSize   *float64
	FontWeight *string
	Color      *string
	Align      *string
	LineHeight *float64

	Source  *string
	Opacity *float64
}

// Move sets the top-left corner.
func Move(x, y float64) Patch { return Patch{X: &x, Y: &y} }

// Resize sets width and height.
func Resize(w, h float64) Patch { return Patch{Width: &w, Height: &h} }

// Rotate sets the rotation in degrees.
func Rotate(deg float64) Patch { return Patch{Rotation: &deg} }

// EditText sets a text element's content.
func EditText(content string) Patch { return Patch{Content: &content} }

// Recolor sets a text element's color.
func Recolor(color string) Patch { return Patch{Color: &color} }

// Fade sets an image element's opacity.
func Fade(opacity float64) Patch { return Patch{Opacity: &opacity} }

// Label names the change for a history entry, by the first field group set.
func (p Patch) Label() string {
	switch {
	case p.X != nil || p.Y != nil:
		return "move element"
	case p.Width != nil || p.Height != nil:
		return "resize element"
	case p.Rotation != nil:
		return "rotate element"
	case p.Content != nil:
		return "edit text"
	case p.FontSize != nil || p.FontFamily != nil || p.FontWeight != nil ||
		p.Align != nil || p.LineHeight != nil:
		return "change text style"
	case p.Color != nil:
		return "change text color"
	}
	return "update element"
}

// Apply returns a copy of e with the patch merged in. Values that would break
// an element invariant (non-positive sizes, opacity outside [0,1]) are
// clamped or ignored.
func (p Patch) Apply(e Element) Element {
	out := e.Clone()
	set(&out.X, p.X)
	set(&out.Y, p.Y)
	setPositive(&out.Width, p.Width)
	setPositive(&out.Height, p.Height)
	set(&out.Rotation, p.Rotation)

	if t := out.Text; t != nil {
		set(&t.Content, p.Content)
		set(&t.FontFamily, p.FontFamily)
		setPositive(&t.FontSize, p.FontSize)
		set(&t.FontWeight, p.FontWeight)
		set(&t.Color, p.Color)
		set(&t.Align, p.Align)
		setPositive(&t.LineHeight, p.LineHeight)
	}
	if img := out.Image; img != nil {
		set(&img.Source, p.Source)
		if p.Opacity != nil {
			img.Opacity = min(max(*p.Opacity, 0), 1)
		}
	}
	return out
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setPositive(dst *float64, v *float64) {
	if v != nil && *v > 0 {
		*dst = *v
	}
}
