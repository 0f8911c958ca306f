package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"poster/internal/document"
	"poster/internal/history"
	"poster/internal/interact"
)

// cell is one terminal character of the canvas view.
type cell struct {
	ch rune
	fg string
	bg string
}

const (
	imageBackdrop = "#c8c8c8"
	imageFill     = "#8a8a8a"
	handleColor   = "#1e90ff"
)

var fallbackBackground = colorful.Color{R: 1, G: 1, B: 1}

// canvasCells returns the canvas size in terminal cells.
func canvasCells(size document.Size) (int, int) {
	return int(math.Ceil(size.Width / cellWidth)), int(math.Ceil(size.Height / cellHeight))
}

// cellCenter maps a terminal cell to the canvas pixel at its center.
func cellCenter(col, row int) document.Point {
	return document.Point{
		X: (float64(col) + 0.5) * cellWidth,
		Y: (float64(row) + 0.5) * cellHeight,
	}
}

func cellAt(p document.Point) (int, int) {
	return int(math.Floor(p.X / cellWidth)), int(math.Floor(p.Y / cellHeight))
}

// renderCanvas rasterizes state into at most cols x rows styled lines.
// selected, when non-empty, gets its handles drawn.
func renderCanvas(state document.CanvasState, size document.Size, selected string, cols, rows int) []string {
	fullCols, fullRows := canvasCells(size)
	cols, rows = min(cols, fullCols), min(rows, fullRows)
	if cols <= 0 || rows <= 0 {
		return nil
	}

	grid := make([][]cell, rows)
	for y := range grid {
		grid[y] = make([]cell, cols)
		for x := range grid[y] {
			p := cellCenter(x, y)
			grid[y][x] = cell{ch: ' ', bg: backgroundAt(state.Background, size, p)}
		}
	}

	for _, el := range state.Elements {
		drawElement(grid, el)
	}
	if el, ok := state.Find(selected); ok {
		drawHandles(grid, el)
	}

	lines := make([]string, rows)
	for y, row := range grid {
		lines[y] = styleRow(row)
	}
	return lines
}

// styleRow renders runs of identically styled cells with one lipgloss style
// each.
func styleRow(row []cell) string {
	var b strings.Builder
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && row[i].fg == row[start].fg && row[i].bg == row[start].bg {
			continue
		}
		run := make([]rune, 0, i-start)
		for _, c := range row[start:i] {
			run = append(run, c.ch)
		}
		style := lipgloss.NewStyle().Background(lipgloss.Color(row[start].bg))
		if row[start].fg != "" {
			style = style.Foreground(lipgloss.Color(row[start].fg))
		}
		b.WriteString(style.Render(string(run)))
		start = i
	}
	return b.String()
}

// backgroundAt samples the background at p as a hex color.
func backgroundAt(bg document.Background, size document.Size, p document.Point) string {
	if !bg.Valid() {
		return fallbackBackground.Hex()
	}
	switch bg.Kind {
	case document.BackgroundColor:
		return document.ColorOr(bg.Color, fallbackBackground).Hex()
	case document.BackgroundGradient:
		return gradientAt(bg.Gradient, size, p).Hex()
	}
	return imageBackdrop
}

// gradientAt projects p onto the gradient line and blends the two nearest
// stops in Lab space.
func gradientAt(g *document.Gradient, size document.Size, p document.Point) colorful.Color {
	rad := g.Angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	length := math.Abs(size.Width*dx) + math.Abs(size.Height*dy)
	if length == 0 {
		return document.ColorOr(g.Colors[0], fallbackBackground)
	}
	t := ((p.X-size.Width/2)*dx+(p.Y-size.Height/2)*dy)/length + 0.5
	t = min(max(t, 0), 1)

	span := t * float64(len(g.Colors)-1)
	i := min(int(span), len(g.Colors)-2)
	from := document.ColorOr(g.Colors[i], fallbackBackground)
	to := document.ColorOr(g.Colors[i+1], fallbackBackground)
	return from.BlendLab(to, span-float64(i)).Clamped()
}

// local maps a canvas point into the element's unrotated frame.
func local(el document.Element, p document.Point) document.Point {
	return rotateAround(p, el.Center(), -el.Rotation)
}

func rotateAround(p, c document.Point, deg float64) document.Point {
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	dx, dy := p.X-c.X, p.Y-c.Y
	return document.Point{X: c.X + dx*cos - dy*sin, Y: c.Y + dx*sin + dy*cos}
}

func drawElement(grid [][]cell, el document.Element) {
	var lines []string
	var label []rune
	if el.Kind == document.KindText && el.Text != nil {
		lines = layoutText(el.Text.Content, int(el.Width/cellWidth))
	}
	if el.Kind == document.KindImage && el.Image != nil {
		label = []rune(sourceLabel(el.Image.Source))
	}

	for y := range grid {
		for x := range grid[y] {
			p := cellCenter(x, y)
			if !el.Contains(p) {
				continue
			}
			lp := local(el, p)
			col := int((lp.X - el.X) / cellWidth)
			row := int((lp.Y - el.Y) / cellHeight)
			c := &grid[y][x]

			switch el.Kind {
			case document.KindImage:
				c.bg, c.fg, c.ch = imageFill, "#ffffff", '▒'
				if row == 0 && col < len(label) {
					c.ch = label[col]
				}
			case document.KindText:
				c.fg = document.ColorOr(el.Text.Color, colorful.Color{}).Hex()
				c.ch = ' '
				if row < len(lines) {
					line := []rune(lines[row])
					offset := alignOffset(el.Text.Align, len(line), int(el.Width/cellWidth))
					if i := col - offset; i >= 0 && i < len(line) {
						c.ch = line[i]
					}
				}
			}
		}
	}
}

// layoutText wraps content to width cells, breaking on spaces where it can.
func layoutText(content string, width int) []string {
	if width < 1 {
		width = 1
	}
	var out []string
	for _, para := range strings.Split(content, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, w := range words {
			for len([]rune(w)) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				r := []rune(w)
				out = append(out, string(r[:width]))
				w = string(r[width:])
			}
			switch {
			case line == "":
				line = w
			case len([]rune(line))+1+len([]rune(w)) <= width:
				line += " " + w
			default:
				out = append(out, line)
				line = w
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func alignOffset(align string, n, width int) int {
	switch align {
	case document.AlignCenter:
		return max((width-n)/2, 0)
	case document.AlignRight:
		return max(width-n, 0)
	}
	return 0
}

// sourceLabel is the short name shown on an image placeholder.
func sourceLabel(src string) string {
	if strings.HasPrefix(src, "data:") {
		return "[pasted image]"
	}
	return filepath.Base(src)
}

func drawHandles(grid [][]cell, el document.Element) {
	for part, p := range handlePoints(el) {
		x, y := cellAt(p)
		if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
			continue
		}
		c := &grid[y][x]
		c.fg = handleColor
		c.ch = '◆'
		if part == interact.PartRotate {
			c.ch = '↻'
		}
	}
}

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	currentStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	statusStyle  = lipgloss.NewStyle().Reverse(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4757")).Bold(true)
)

// renderHistory draws the history panel, scrolled to keep the highlighted
// row visible.
func (m model) renderHistory(height int) string {
	records := m.editor.Records()
	inner := max(height-2, 1)
	focus := m.historyIndex
	if m.mode != ModeHistory {
		for _, r := range records {
			if r.Current {
				focus = r.Index
			}
		}
	}

	rowsAvail := inner - 1
	start := max(0, focus-rowsAvail+1)
	end := min(len(records), start+rowsAvail)

	lines := []string{fmt.Sprintf("History %d/%d", len(records), history.MaxRecords)}
	for _, r := range records[start:end] {
		marker := "  "
		if r.Current {
			marker = "● "
		}
		text := truncate(fmt.Sprintf("%s%s %s", marker, r.Time.Format("15:04:05"), r.Label), historyPanelWidth-4)
		switch {
		case m.mode == ModeHistory && r.Index == m.historyIndex:
			text = cursorStyle.Render(text)
		case r.Current:
			text = currentStyle.Render(text)
		}
		lines = append(lines, text)
	}
	return panelStyle.Width(historyPanelWidth - 2).Height(inner).Render(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
