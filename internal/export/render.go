// Package export rasterizes a canvas snapshot to PNG, JPEG or PDF.
//
// Export always works from a snapshot taken by the caller, so edits made
// while a file is being written cannot leak into it.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"poster/internal/document"
	"poster/internal/logging"
)

// DefaultScale is the pixel density used when Options.Scale is unset.
const DefaultScale = 2

// textPadding is the inset of text inside its element box.
const textPadding = 4

// ErrInvalidSize is returned for non-positive canvas dimensions.
var ErrInvalidSize = errors.New("invalid canvas size")

// Options controls rasterization.
type Options struct {
	Scale   float64 // output pixels per canvas pixel
	Format  Format
	Quality int // JPEG quality, 1-100
	Loader  SourceLoader
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = 90
	}
	if o.Loader == nil {
		o.Loader = FileLoader{}
	}
	if o.Format == "" {
		o.Format = FormatPNG
	}
	return o
}

// Render draws state onto a new image of size scaled by opts.Scale.
func Render(state document.CanvasState, size document.Size, opts Options) (image.Image, error) {
	dc, err := render(state, size, opts.withDefaults())
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func render(state document.CanvasState, size document.Size, opts Options) (*gg.Context, error) {
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	faces, err := loadFonts()
	if err != nil {
		return nil, err
	}

	r := &renderer{
		dc:     gg.NewContext(int(math.Ceil(size.Width*opts.Scale)), int(math.Ceil(size.Height*opts.Scale))),
		size:   size,
		scale:  opts.Scale,
		fonts:  faces,
		loader: &cachingLoader{next: opts.Loader, cache: map[string]image.Image{}},
	}
	r.dc.Scale(opts.Scale, opts.Scale)
	r.background(state.Background)
	for _, el := range state.Elements {
		r.element(el)
	}
	return r.dc, nil
}

type renderer struct {
	dc     *gg.Context
	size   document.Size
	scale  float64
	fonts  map[string]*truetype.Font
	loader SourceLoader
}

func (r *renderer) background(bg document.Background) {
	w, h := r.size.Width, r.size.Height
	r.dc.SetColor(color.White)
	r.dc.Clear()
	if !bg.Valid() {
		return
	}

	switch bg.Kind {
	case document.BackgroundColor:
		r.dc.SetColor(document.ColorOr(bg.Color, white))
		r.dc.Clear()
	case document.BackgroundGradient:
		n := len(bg.Gradient.Colors)
		// Gradients are sampled in device space, past the scale transform.
		x0, y0, x1, y1 := gradientLine(w, h, bg.Gradient.Angle)
		k := r.scale
		grad := gg.NewLinearGradient(x0*k, y0*k, x1*k, y1*k)
		for i, c := range bg.Gradient.Colors {
			grad.AddColorStop(float64(i)/float64(n-1), document.ColorOr(c, white))
		}
		r.dc.SetFillStyle(grad)
		r.dc.DrawRectangle(0, 0, w, h)
		r.dc.Fill()
	case document.BackgroundImage:
		img, err := r.loader.Load(bg.Image.Source)
		if err != nil {
			logging.Logger().Warn("export: background image skipped", "err", err)
			return
		}
		r.tile(img, *bg.Image)
	}
}

// gradientLine returns the endpoints of a CSS-style linear gradient: 0deg
// runs bottom to top, 90deg left to right, and the line is long enough for
// the corners to reach the first and last stops.
func gradientLine(w, h, angle float64) (x0, y0, x1, y1 float64) {
	rad := angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	half := (math.Abs(w*dx) + math.Abs(h*dy)) / 2
	cx, cy := w/2, h/2
	return cx - dx*half, cy - dy*half, cx + dx*half, cy + dy*half
}

func (r *renderer) tile(img image.Image, bg document.ImageBackground) {
	w, h := r.size.Width, r.size.Height
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	sx, sy := fitScale(iw, ih, w, h, bg.Fit)
	tw, th := iw*sx, ih*sy
	ax, ay := anchorFractions(bg.Position)
	ox, oy := (w-tw)*ax, (h-th)*ay

	xs := []float64{ox}
	if bg.Repeat == document.RepeatXY || bg.Repeat == document.RepeatX {
		xs = steps(ox, tw, w)
	}
	ys := []float64{oy}
	if bg.Repeat == document.RepeatXY || bg.Repeat == document.RepeatY {
		ys = steps(oy, th, h)
	}

	r.dc.Push()
	r.dc.DrawRectangle(0, 0, w, h)
	r.dc.Clip()
	for _, y := range ys {
		for _, x := range xs {
			r.drawScaled(img, x, y, sx, sy)
		}
	}
	r.dc.ResetClip()
	r.dc.Pop()
}

func fitScale(iw, ih, w, h float64, fit document.Fit) (float64, float64) {
	switch fit {
	case document.FitContain:
		s := math.Min(w/iw, h/ih)
		return s, s
	case document.FitAuto:
		return 1, 1
	case document.FitStretch:
		return w / iw, h / ih
	}
	s := math.Max(w/iw, h/ih)
	return s, s
}

func anchorFractions(a document.Anchor) (float64, float64) {
	ax, ay := 0.5, 0.5
	s := string(a)
	if strings.Contains(s, "left") {
		ax = 0
	} else if strings.Contains(s, "right") {
		ax = 1
	}
	if strings.Contains(s, "top") {
		ay = 0
	} else if strings.Contains(s, "bottom") {
		ay = 1
	}
	return ax, ay
}

// steps lists tile origins of length step covering [0, limit) and passing
// through origin.
func steps(origin, step, limit float64) []float64 {
	start := origin - math.Ceil(origin/step)*step
	var out []float64
	for v := start; v < limit; v += step {
		out = append(out, v)
	}
	return out
}

func (r *renderer) drawScaled(img image.Image, x, y, sx, sy float64) {
	b := img.Bounds()
	r.dc.Push()
	r.dc.Translate(x, y)
	r.dc.Scale(sx, sy)
	r.dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	r.dc.Pop()
}

func (r *renderer) element(el document.Element) {
	c := el.Center()
	r.dc.Push()
	defer r.dc.Pop()
	r.dc.RotateAbout(gg.Radians(el.Rotation), c.X, c.Y)

	r.dc.DrawRectangle(el.X, el.Y, el.Width, el.Height)
	r.dc.Clip()
	defer r.dc.ResetClip()

	switch {
	case el.Kind == document.KindImage && el.Image != nil:
		r.image(el)
	case el.Kind == document.KindText && el.Text != nil:
		r.text(el)
	}
}

func (r *renderer) image(el document.Element) {
	img, err := r.loader.Load(el.Image.Source)
	if err != nil {
		logging.Logger().Warn("export: image element drawn as placeholder", "id", el.ID, "err", err)
		r.placeholder(el)
		return
	}
	if el.Image.Opacity < 1 {
		img = fade(img, el.Image.Opacity)
	}
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	s := math.Max(el.Width/iw, el.Height/ih)
	x := el.X + (el.Width-iw*s)/2
	y := el.Y + (el.Height-ih*s)/2
	r.drawScaled(img, x, y, s, s)
}

func (r *renderer) placeholder(el document.Element) {
	r.dc.SetRGB(0.85, 0.85, 0.85)
	r.dc.DrawRectangle(el.X, el.Y, el.Width, el.Height)
	r.dc.Fill()
	r.dc.SetRGB(0.6, 0.6, 0.6)
	r.dc.SetLineWidth(1)
	r.dc.DrawLine(el.X, el.Y, el.X+el.Width, el.Y+el.Height)
	r.dc.DrawLine(el.X+el.Width, el.Y, el.X, el.Y+el.Height)
	r.dc.Stroke()
}

// fade returns img with its alpha multiplied by opacity.
func fade(img image.Image, opacity float64) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(b)
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(math.Max(0, opacity) * 255))})
	draw.DrawMask(out, b, img, b.Min, mask, image.Point{}, draw.Src)
	return out
}

func (r *renderer) text(el document.Element) {
	t := el.Text
	face := truetype.NewFace(r.fontFor(t), &truetype.Options{
		Size:    t.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()
	r.dc.SetFontFace(face)
	r.dc.SetColor(document.ColorOr(t.Color, black))

	lineBox := t.FontSize * t.LineHeight
	inner := el.Width - 2*textPadding
	var lines []string
	for _, para := range strings.Split(t.Content, "\n") {
		wrapped := r.dc.WordWrap(para, inner)
		if len(wrapped) == 0 {
			wrapped = []string{""}
		}
		lines = append(lines, wrapped...)
	}

	x, ax := el.X+textPadding, 0.0
	switch t.Align {
	case document.AlignCenter:
		x, ax = el.X+el.Width/2, 0.5
	case document.AlignRight:
		x, ax = el.X+el.Width-textPadding, 1
	}
	top := el.Y + textPadding
	for i, line := range lines {
		r.dc.DrawStringAnchored(line, x, top+float64(i)*lineBox+lineBox/2, ax, 0.35)
	}
}

func (r *renderer) fontFor(t *document.TextProps) *truetype.Font {
	family := strings.ToLower(t.FontFamily)
	if strings.Contains(family, "mono") || strings.Contains(family, "courier") {
		return r.fonts["mono"]
	}
	switch strings.ToLower(t.FontWeight) {
	case "bold", "bolder", "600", "700", "800", "900":
		return r.fonts["bold"]
	}
	return r.fonts["regular"]
}

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	black = colorful.Color{}
)

var (
	fontsOnce sync.Once
	fonts     map[string]*truetype.Font
	fontsErr  error
)

// loadFonts parses the bundled Go fonts once per process.
func loadFonts() (map[string]*truetype.Font, error) {
	fontsOnce.Do(func() {
		parsed := make(map[string]*truetype.Font, 3)
		for name, ttf := range map[string][]byte{
			"regular": goregular.TTF,
			"bold":    gobold.TTF,
			"mono":    gomono.TTF,
		} {
			f, err := truetype.Parse(ttf)
			if err != nil {
				fontsErr = fmt.Errorf("parse %s font: %w", name, err)
				return
			}
			parsed[name] = f
		}
		fonts = parsed
	})
	return fonts, fontsErr
}
