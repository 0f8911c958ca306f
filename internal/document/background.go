package document

import "slices"

// BackgroundKind discriminates the background variants.
type BackgroundKind string

const (
	BackgroundColor    BackgroundKind = "color"
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundImage    BackgroundKind = "image"
)

// Fit controls how a background image is scaled.
type Fit string

const (
	FitCover   Fit = "cover"
	FitContain Fit = "contain"
	FitAuto    Fit = "auto"
	FitStretch Fit = "stretch"
)

// Repeat controls background image tiling.
type Repeat string

const (
	NoRepeat Repeat = "no-repeat"
	RepeatXY Repeat = "repeat"
	RepeatX  Repeat = "repeat-x"
	RepeatY  Repeat = "repeat-y"
)

// Anchor positions a background image inside the canvas.
type Anchor string

const (
	AnchorCenter      Anchor = "center"
	AnchorTop         Anchor = "top"
	AnchorBottom      Anchor = "bottom"
	AnchorLeft        Anchor = "left"
	AnchorRight       Anchor = "right"
	AnchorTopLeft     Anchor = "top left"
	AnchorTopRight    Anchor = "top right"
	AnchorBottomLeft  Anchor = "bottom left"
	AnchorBottomRight Anchor = "bottom right"
)

// Background is the canvas fill. Exactly one variant is active, selected by
// Kind; Gradient and Image are nil unless their kind is active.
type Background struct {
	Kind     BackgroundKind   `json:"type"`
	Color    string           `json:"value,omitempty"`
	Gradient *Gradient        `json:"gradient,omitempty"`
	Image    *ImageBackground `json:"image,omitempty"`
}

// Gradient is a linear gradient over two or more colors.
type Gradient struct {
	Colors []string `json:"colors"`
	Angle  float64  `json:"angle"` // degrees, CSS convention: 0 points up, 90 right
}

// ImageBackground fills the canvas with an image.
type ImageBackground struct {
	Source   string `json:"src"`
	Fit      Fit    `json:"size"`
	Position Anchor `json:"position"`
	Repeat   Repeat `json:"repeat"`
}

// White is the background of a fresh canvas.
var White = Solid("#ffffff")

// Solid returns a single-color background.
func Solid(color string) Background {
	return Background{Kind: BackgroundColor, Color: color}
}

// LinearGradient returns a gradient background.
func LinearGradient(angle float64, colors ...string) Background {
	return Background{
		Kind:     BackgroundGradient,
		Gradient: &Gradient{Colors: slices.Clone(colors), Angle: angle},
	}
}

// ImageFill returns an image background with cover/center/no-repeat defaults.
func ImageFill(source string) Background {
	return Background{
		Kind: BackgroundImage,
		Image: &ImageBackground{
			Source:   source,
			Fit:      FitCover,
			Position: AnchorCenter,
			Repeat:   NoRepeat,
		},
	}
}

// Valid reports whether b has exactly its active variant populated.
func (b Background) Valid() bool {
	switch b.Kind {
	case BackgroundColor:
		return b.Color != "" && b.Gradient == nil && b.Image == nil
	case BackgroundGradient:
		return b.Gradient != nil && len(b.Gradient.Colors) >= 2 && b.Image == nil
	case BackgroundImage:
		return b.Image != nil && b.Image.Source != "" && b.Gradient == nil
	}
	return false
}

// Clone returns a copy of b that shares no memory with it.
func (b Background) Clone() Background {
	if b.Gradient != nil {
		g := Gradient{Colors: slices.Clone(b.Gradient.Colors), Angle: b.Gradient.Angle}
		b.Gradient = &g
	}
	if b.Image != nil {
		img := *b.Image
		b.Image = &img
	}
	return b
}

// Equal reports whether b and o describe the same fill.
func (b Background) Equal(o Background) bool {
	if b.Kind != o.Kind || b.Color != o.Color {
		return false
	}
	if (b.Gradient == nil) != (o.Gradient == nil) || (b.Image == nil) != (o.Image == nil) {
		return false
	}
	if b.Gradient != nil &&
		(b.Gradient.Angle != o.Gradient.Angle || !slices.Equal(b.Gradient.Colors, o.Gradient.Colors)) {
		return false
	}
	if b.Image != nil && *b.Image != *o.Image {
		return false
	}
	return true
}

// Label names the change to b for history entries.
func (b Background) Label() string {
	switch b.Kind {
	case BackgroundColor:
		return "set background color"
	case BackgroundGradient:
		return "set background gradient"
	case BackgroundImage:
		return "set background image"
	}
	return "change background"
}
