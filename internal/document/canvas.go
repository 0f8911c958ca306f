package document

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Size is the fixed canvas dimension in pixels.
type Size struct {
	Width  float64
	Height float64
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// Preset is a named canvas size.
type Preset struct {
	Name  string
	Ratio string
	Size  Size
}

// Presets lists the built-in canvas sizes. The first entry is the default.
var Presets = []Preset{
	{Name: "portrait", Ratio: "9:16", Size: Size{Width: 360, Height: 640}},
	{Name: "square", Ratio: "1:1", Size: Size{Width: 400, Height: 400}},
	{Name: "landscape", Ratio: "16:9", Size: Size{Width: 640, Height: 360}},
	{Name: "poster", Ratio: "3:4", Size: Size{Width: 450, Height: 600}},
	{Name: "wide", Ratio: "4:3", Size: Size{Width: 600, Height: 450}},
}

// DefaultSize is the portrait 9:16 canvas.
var DefaultSize = Presets[0].Size

// PresetByName looks a preset up case-insensitively.
func PresetByName(name string) (Preset, bool) {
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) || p.Ratio == name {
			return p, true
		}
	}
	return Preset{}, false
}

// GradientPresets are the two-stop gradients offered for quick backgrounds.
var GradientPresets = []Background{
	LinearGradient(135, "#ff7b7b", "#ff4757"),
	LinearGradient(135, "#70a1ff", "#3742fa"),
	LinearGradient(135, "#7bed9f", "#2ed573"),
	LinearGradient(135, "#ffa502", "#ff6348"),
	LinearGradient(135, "#ff6b9d", "#c44569"),
	LinearGradient(135, "#a55eea", "#8854d0"),
	LinearGradient(135, "#26d0ce", "#1dd1a1"),
	LinearGradient(135, "#feca57", "#ff9ff3"),
	LinearGradient(135, "#667eea", "#764ba2"),
	LinearGradient(135, "#f093fb", "#f5576c"),
	LinearGradient(135, "#4facfe", "#00f2fe"),
	LinearGradient(135, "#43e97b", "#38f9d7"),
	LinearGradient(135, "#fa709a", "#fee140"),
	LinearGradient(135, "#a8edea", "#fed6e3"),
	LinearGradient(135, "#ff9a9e", "#fecfef"),
}

// RandomGradient picks one of GradientPresets.
func RandomGradient(r *rand.Rand) Background {
	return GradientPresets[r.Intn(len(GradientPresets))].Clone()
}

// ParseColor parses a #rgb or #rrggbb color.
func ParseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if len(s) == 4 && s[0] == '#' {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return c, nil
}

// ColorOr parses s, falling back to fallback on error.
func ColorOr(s string, fallback colorful.Color) colorful.Color {
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}
