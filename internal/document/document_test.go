package document

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCanvasState(t *testing.T) {
	s := NewCanvasState()
	assert.Empty(t, s.Elements)
	assert.True(t, s.Background.Equal(White))
	assert.True(t, s.Background.Valid())
}

func TestCloneDoesNotAlias(t *testing.T) {
	s := NewCanvasState().Appended(NewText("a")).WithBackground(LinearGradient(90, "#000000", "#ffffff"))
	c := s.Clone()

	c.Elements[0].Text.Content = "changed"
	c.Elements[0].X = 5
	c.Background.Gradient.Colors[0] = "#123456"

	assert.Equal(t, "Double-click to edit", s.Elements[0].Text.Content)
	assert.Equal(t, 100.0, s.Elements[0].X)
	assert.Equal(t, "#000000", s.Background.Gradient.Colors[0])
	assert.False(t, s.Equal(c))
}

func TestWithElementLeavesOriginal(t *testing.T) {
	s := NewCanvasState().Appended(NewText("a"))
	e, ok := s.Find("a")
	require.True(t, ok)

	next, ok := s.WithElement(Move(10, 20).Apply(e))
	require.True(t, ok)
	assert.Equal(t, 100.0, s.Elements[0].X)
	assert.Equal(t, 10.0, next.Elements[0].X)
	assert.Equal(t, 20.0, next.Elements[0].Y)

	_, ok = s.WithElement(NewImage("missing", "x.png"))
	assert.False(t, ok)
}

func TestWithoutElement(t *testing.T) {
	s := NewCanvasState().Appended(NewText("a")).Appended(NewImage("b", "b.png"))
	next, ok := s.WithoutElement("a")
	require.True(t, ok)
	require.Len(t, next.Elements, 1)
	assert.Equal(t, "b", next.Elements[0].ID)
	assert.Len(t, s.Elements, 2)

	_, ok = s.WithoutElement("zzz")
	assert.False(t, ok)
}

func TestRestacked(t *testing.T) {
	s := NewCanvasState().Appended(NewText("a")).Appended(NewText("b")).Appended(NewText("c"))

	tests := []struct {
		name  string
		id    string
		delta int
		want  []string
		ok    bool
	}{
		{"forward", "a", 1, []string{"b", "a", "c"}, true},
		{"backward", "c", -1, []string{"a", "c", "b"}, true},
		{"to front clamps", "a", 10, []string{"b", "c", "a"}, true},
		{"already bottom", "a", -1, []string{"a", "b", "c"}, false},
		{"unknown", "x", 1, []string{"a", "b", "c"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Restacked(tt.id, tt.delta)
			assert.Equal(t, tt.ok, ok)
			ids := make([]string, len(got.Elements))
			for i, e := range got.Elements {
				ids[i] = e.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestTopmostAt(t *testing.T) {
	a := NewText("a")
	b := NewImage("b", "b.png") // 100,100 200x200 overlaps a
	s := NewCanvasState().Appended(a).Appended(b)

	got, ok := s.TopmostAt(Point{X: 150, Y: 120})
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)

	_, ok = s.TopmostAt(Point{X: 10, Y: 10})
	assert.False(t, ok)
}

func TestContainsRotated(t *testing.T) {
	e := NewText("a") // 100,100 200x50, centre 200,125
	assert.True(t, e.Contains(Point{X: 290, Y: 125}))

	e.Rotation = 90
	assert.False(t, e.Contains(Point{X: 290, Y: 125}))
	assert.True(t, e.Contains(Point{X: 200, Y: 210}))
}

func TestPatchApply(t *testing.T) {
	text := NewText("t")
	img := NewImage("i", "a.png")

	got := EditText("hello").Apply(text)
	assert.Equal(t, "hello", got.Text.Content)
	assert.Equal(t, "Double-click to edit", text.Text.Content)

	got = EditText("ignored").Apply(img)
	assert.Nil(t, got.Text)

	got = Fade(3).Apply(img)
	assert.Equal(t, 1.0, got.Image.Opacity)
	got = Fade(-1).Apply(img)
	assert.Equal(t, 0.0, got.Image.Opacity)

	got = Resize(0, -4).Apply(text)
	assert.Equal(t, 200.0, got.Width)
	assert.Equal(t, 50.0, got.Height)
}

func TestPatchLabel(t *testing.T) {
	size := 20.0
	tests := []struct {
		patch Patch
		want  string
	}{
		{Move(1, 2), "move element"},
		{Resize(3, 4), "resize element"},
		{Rotate(45), "rotate element"},
		{EditText("x"), "edit text"},
		{Patch{FontSize: &size}, "change text style"},
		{Recolor("#fff"), "change text color"},
		{Fade(0.5), "update element"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.patch.Label())
	}
}

func TestBackgroundValid(t *testing.T) {
	assert.True(t, Solid("#000").Valid())
	assert.True(t, LinearGradient(45, "#000", "#fff").Valid())
	assert.False(t, LinearGradient(45, "#000").Valid())
	assert.True(t, ImageFill("bg.png").Valid())
	assert.False(t, ImageFill("").Valid())
	assert.False(t, Background{}.Valid())
}

func TestNormalizeDegrees(t *testing.T) {
	assert.Equal(t, 10.0, NormalizeDegrees(370))
	assert.Equal(t, 350.0, NormalizeDegrees(-10))
	assert.Equal(t, 0.0, NormalizeDegrees(720))
}

func TestPresetByName(t *testing.T) {
	p, ok := PresetByName("Square")
	require.True(t, ok)
	assert.Equal(t, Size{Width: 400, Height: 400}, p.Size)

	p, ok = PresetByName("16:9")
	require.True(t, ok)
	assert.Equal(t, "landscape", p.Name)

	_, ok = PresetByName("nope")
	assert.False(t, ok)
	assert.Equal(t, Size{Width: 360, Height: 640}, DefaultSize)
}

func TestRandomGradient(t *testing.T) {
	bg := RandomGradient(rand.New(rand.NewSource(1)))
	assert.True(t, bg.Valid())
	assert.Equal(t, BackgroundGradient, bg.Kind)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff0000")
	require.NoError(t, err)
	r, g, b := c.RGB255()
	assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})

	c, err = ParseColor("#0f0")
	require.NoError(t, err)
	_, g, _ = c.RGB255()
	assert.Equal(t, uint8(255), g)

	_, err = ParseColor("red")
	assert.Error(t, err)
}
