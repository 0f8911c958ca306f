package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"poster/internal/config"
	"poster/internal/document"
	"poster/internal/editor"
	"poster/internal/export"
	"poster/internal/interact"
	"poster/internal/logging"
)

func main() {
	if os.Getenv("POSTER_DEBUG") != "" {
		f, err := tea.LogToFile("poster-debug.log", "poster")
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logging.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := config.Load()
	m := initialModel(cfg, time.Now)
	if err != nil {
		m.errorMessage = err.Error()
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

func initialModel(cfg *config.Config, now func() time.Time) model {
	presetIndex := 0
	for i, p := range document.Presets {
		if p.Size == cfg.CanvasSize() {
			presetIndex = i
			break
		}
	}
	return model{
		editor:      editor.New(editor.WithSize(cfg.CanvasSize()), editor.WithClock(now)),
		config:      cfg,
		mode:        ModeNormal,
		presetIndex: presetIndex,
		now:         now,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case pastedMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("paste: %v", msg.err)
			return m, nil
		}
		if m.mode == ModeTextEdit {
			m.finishTextEdit()
		}
		if _, ok := m.editor.AddImage(msg.source); ok {
			m.errorMessage = ""
			m.successMessage = "Image added"
		}
		return m, nil

	case backgroundPastedMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("paste: %v", msg.err)
			return m, nil
		}
		if m.mode == ModeTextEdit {
			m.finishTextEdit()
		}
		if m.editor.SetBackground(document.ImageFill(msg.source)) {
			m.errorMessage = ""
			m.successMessage = "Background image set"
		}
		return m, nil

	case pastedTextMsg:
		if m.mode == ModeTextEdit {
			ctl := m.editor.Controller()
			ctl.SetDraft(ctl.Draft() + string(msg))
		}
		return m, nil

	case exportedMsg:
		m.exporting = false
		if msg.err != nil {
			m.successMessage = ""
			m.errorMessage = fmt.Sprintf("export failed: %v", msg.err)
			return m, nil
		}
		m.errorMessage = ""
		m.successMessage = "Exported " + msg.path
		return m, nil

	case tea.KeyMsg:
		if m.help {
			m.handleHelpKey(msg.String())
			return m, nil
		}
		switch m.mode {
		case ModeTextEdit:
			return m.handleTextKey(msg)
		case ModeHistory:
			m.handleHistoryKey(msg.String())
			return m, nil
		case ModeConfirm:
			return m.handleConfirmKey(msg.String())
		}
		return m.handleNormalKey(msg.String())
	}
	return m, nil
}

func (m model) handleNormalKey(key string) (tea.Model, tea.Cmd) {
	m.successMessage = ""
	selected := m.editor.SelectedID()

	switch key {
	case "q", "ctrl+c":
		if m.config.Confirmations && key == "q" {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = true
		m.helpScroll = 0
	case "ctrl+z", "u":
		m.undo()
	case "ctrl+y", "U":
		m.redo()
	case "H":
		m.enterHistory()
	case "t":
		m.editor.AddText()
	case "ctrl+v", "v":
		return m, pasteImage
	case "d":
		if selected != "" {
			m.editor.DuplicateElement(selected)
		}
	case "x", "delete", "backspace":
		if selected == "" {
			return m, nil
		}
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteElement
			m.confirmID = selected
			return m, nil
		}
		m.editor.DeleteElement(selected)
	case "e", "enter":
		if selected != "" {
			m.beginTextEdit(selected)
		}
	case "esc":
		if m.editor.Busy() {
			m.editor.Cancel()
		} else {
			m.editor.ClearSelection()
		}
		m.errorMessage = ""
	case "g":
		m.editor.RandomBackground()
	case "w":
		m.editor.SetBackground(document.White)
	case "]":
		if selected != "" {
			m.editor.BringForward(selected)
		}
	case "[":
		if selected != "" {
			m.editor.SendBackward(selected)
		}
	case "r", "R":
		m.rotateSelected(key)
	case "+", "=", "-":
		m.scaleFont(key)
	case "o":
		m.cycleOpacity()
	case "left", "right", "up", "down", "shift+left", "shift+right", "shift+up", "shift+down":
		m.handleNudge(key)
	case "a", "B", "f", "C":
		m.styleSelected(key)
	case "b":
		return m, pasteBackground
	case "F", "P", "T":
		m.styleBackground(key)
	case "c":
		m.cyclePreset()
	case "s":
		return m, m.exportCmd(m.config.Format())
	case "p":
		return m, m.exportCmd(export.FormatPDF)
	}
	return m, nil
}

func (m model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	if key != "y" && key != "Y" {
		return m, nil
	}
	switch m.confirmAction {
	case ConfirmQuit:
		return m, tea.Quit
	case ConfirmDeleteElement:
		m.editor.DeleteElement(m.confirmID)
		m.confirmID = ""
	}
	return m, nil
}

func (m *model) beginTextEdit(id string) {
	if m.editor.Controller().BeginTextEdit(id) {
		m.editor.Select(id)
		m.mode = ModeTextEdit
	}
}

func (m *model) finishTextEdit() {
	m.editor.Controller().FinishTextEdit()
	m.mode = ModeNormal
}

func (m model) handleTextKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctl := m.editor.Controller()
	draft := ctl.Draft()

	switch msg.String() {
	case "esc":
		ctl.CancelTextEdit()
		m.mode = ModeNormal
		return m, nil
	case "enter", "ctrl+s":
		m.finishTextEdit()
		return m, nil
	case "alt+enter", "ctrl+j":
		ctl.SetDraft(draft + "\n")
		return m, nil
	case "backspace":
		if r := []rune(draft); len(r) > 0 {
			ctl.SetDraft(string(r[:len(r)-1]))
		}
		return m, nil
	case "ctrl+u":
		ctl.SetDraft("")
		return m, nil
	case "ctrl+v":
		return m, pasteText
	}

	switch msg.Type {
	case tea.KeyRunes:
		ctl.SetDraft(draft + string(msg.Runes))
	case tea.KeySpace:
		ctl.SetDraft(draft + " ")
	}
	return m, nil
}

func (m *model) rotateSelected(key string) {
	el, ok := m.editor.Selected()
	if !ok {
		return
	}
	step := 15.0
	if key == "R" {
		step = -step
	}
	m.editor.UpdateField(el.ID, document.Rotate(el.Rotation+step))
}

func (m *model) scaleFont(key string) {
	el, ok := m.editor.Selected()
	if !ok || el.Text == nil {
		return
	}
	size := el.Text.FontSize + 2
	if key == "-" {
		size = max(el.Text.FontSize-2, 6)
	}
	m.editor.UpdateField(el.ID, document.Patch{FontSize: &size})
}

// cycleOpacity steps an image through 100%, 75%, 50% and 25%.
func (m *model) cycleOpacity() {
	el, ok := m.editor.Selected()
	if !ok || el.Image == nil {
		return
	}
	next := el.Image.Opacity - 0.25
	if next < 0.25 {
		next = 1
	}
	m.editor.UpdateField(el.ID, document.Fade(next))
}

// cycleNext returns the entry after cur in list, wrapping, or the first entry
// when cur is not in it.
func cycleNext[T comparable](list []T, cur T) T {
	for i, v := range list {
		if v == cur {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}

// styleSelected steps the selected text's alignment, weight, family or color.
func (m *model) styleSelected(key string) {
	el, ok := m.editor.Selected()
	if !ok || el.Text == nil {
		return
	}
	var p document.Patch
	switch key {
	case "a":
		align := cycleNext(textAligns, el.Text.Align)
		p.Align = &align
	case "B":
		weight := "bold"
		if el.Text.FontWeight == "bold" {
			weight = "normal"
		}
		p.FontWeight = &weight
	case "f":
		family := cycleNext(textFamilies, el.Text.FontFamily)
		p.FontFamily = &family
	case "C":
		p = document.Recolor(cycleNext(textColors, el.Text.Color))
	}
	m.editor.UpdateField(el.ID, p)
}

// styleBackground steps the fit, anchor or tiling of an image background.
func (m *model) styleBackground(key string) {
	bg := m.editor.Effective().Background.Clone()
	if bg.Kind != document.BackgroundImage || bg.Image == nil {
		m.errorMessage = "background is not an image (b pastes one)"
		return
	}
	switch key {
	case "F":
		bg.Image.Fit = cycleNext(backgroundFits, bg.Image.Fit)
		m.successMessage = "Background size: " + string(bg.Image.Fit)
	case "P":
		bg.Image.Position = cycleNext(backgroundAnchors, bg.Image.Position)
		m.successMessage = "Background position: " + string(bg.Image.Position)
	case "T":
		bg.Image.Repeat = cycleNext(backgroundRepeats, bg.Image.Repeat)
		m.successMessage = "Background repeat: " + string(bg.Image.Repeat)
	}
	m.editor.SetBackground(bg)
}

func (m *model) cyclePreset() {
	if m.editor.Busy() {
		return
	}
	m.presetIndex = (m.presetIndex + 1) % len(document.Presets)
	p := document.Presets[m.presetIndex]
	m.editor.SetCanvasSize(p.Size)
	m.successMessage = fmt.Sprintf("Canvas: %s %s (%v)", p.Name, p.Ratio, p.Size)
}

// viewState is what the canvas shows: the effective state with an open
// text draft laid over its element.
func (m model) viewState() document.CanvasState {
	state := m.editor.Effective()
	ctl := m.editor.Controller()
	if ctl.State() != interact.EditingText {
		return state
	}
	id, _ := ctl.Target()
	el, ok := state.Find(id)
	if !ok {
		return state
	}
	next, _ := state.WithElement(document.EditText(ctl.Draft() + "▏").Apply(el))
	return next
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	height := max(m.height-1, 1)
	width := max(m.width, 1)
	showPanel := width >= historyPanelWidth+20
	canvasWidth := width
	if showPanel {
		canvasWidth = width - historyPanelWidth
	}

	selected := m.editor.SelectedID()
	if m.mode == ModeTextEdit {
		selected = ""
	}
	lines := renderCanvas(m.viewState(), m.editor.Size(), selected, canvasWidth, height)
	body := strings.Join(lines, "\n")
	if showPanel {
		cols, _ := canvasCells(m.editor.Size())
		canvasBlock := lipgloss.NewStyle().Width(min(cols, canvasWidth)).Height(height).Render(body)
		body = lipgloss.JoinHorizontal(lipgloss.Top, canvasBlock, m.renderHistory(height))
	}

	return body + "\n" + m.statusLine(width)
}

func (m model) statusLine(width int) string {
	var status string
	switch m.mode {
	case ModeTextEdit:
		status = "Mode: TEXT | Enter=finish, Alt+Enter=newline, Ctrl+V=paste, Esc=cancel"
	case ModeHistory:
		status = "Mode: HISTORY | ↑/↓=select, Enter=jump, Esc=close"
	case ModeConfirm:
		switch m.confirmAction {
		case ConfirmDeleteElement:
			status = "Mode: CONFIRM | Delete this element? (y/n)"
		case ConfirmQuit:
			status = "Mode: CONFIRM | Quit? (y/n)"
		}
	default:
		status = fmt.Sprintf("Mode: %s | Canvas %v", m.modeString(), m.editor.Size())
		if el, ok := m.editor.Selected(); ok {
			status += fmt.Sprintf(" | %s %.0f,%.0f %.0fx%.0f %.0f°", el.Kind, el.X, el.Y, el.Width, el.Height,
				document.NormalizeDegrees(el.Rotation))
		}
		if m.successMessage != "" {
			status += " | " + m.successMessage
		}
		if m.errorMessage == "" && m.successMessage == "" {
			status += " | ? for help | q to quit"
		}
	}
	status = truncate(status, width)
	if m.errorMessage != "" && m.mode == ModeNormal {
		return statusStyle.Render(status) + " " + errorStyle.Render("ERROR: "+m.errorMessage)
	}
	return statusStyle.Render(status)
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		if st := m.editor.Controller().State(); st != interact.Idle {
			return strings.ToUpper(st.String())
		}
		return "NORMAL"
	case ModeTextEdit:
		return "TEXT"
	case ModeHistory:
		return "HISTORY"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

var helpLines = []string{
	"Poster Help",
	"===========",
	"",
	"Mouse:",
	"------",
	"  Drag an element        Move it (kept inside the canvas)",
	"  Drag a ◆ corner        Resize from that corner",
	"  Drag the ↻ handle      Rotate around the center",
	"  Double-click text      Edit it",
	"  Click empty canvas     Clear selection",
	"",
	"Elements:",
	"---------",
	"  t                      Add a text element",
	"  v / Ctrl+V             Add an image from the clipboard (path, URL, data URL or HTML)",
	"  e / Enter              Edit the selected text",
	"  d                      Duplicate the selected element",
	"  x / Delete             Delete the selected element",
	"  ←/↓/↑/→                Nudge by 1px (Shift for 10px)",
	"  r / R                  Rotate by ±15°",
	"  + / -                  Grow or shrink text",
	"  o                      Cycle image opacity",
	"  a                      Cycle text alignment",
	"  B                      Toggle bold text",
	"  f                      Cycle font family",
	"  C                      Cycle text color",
	"  [ / ]                  Send backward / bring forward",
	"",
	"Canvas:",
	"-------",
	"  g                      Random gradient background",
	"  w                      White background",
	"  b                      Background image from the clipboard",
	"  F / P / T              Cycle background image size / position / repeat",
	"  c                      Cycle canvas size",
	"",
	"History:",
	"--------",
	"  u / Ctrl+Z             Undo",
	"  U / Ctrl+Y             Redo",
	"  H                      Browse history and jump to any entry",
	"",
	"Export:",
	"-------",
	"  s                      Export in the configured format",
	"  p                      Export PDF",
	"",
	"General:",
	"  Esc                    Cancel the current gesture or clear selection",
	"  ?                      Toggle this help screen",
	"  q / Ctrl+C             Quit",
}

func (m *model) handleHelpKey(key string) {
	switch key {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		visibleHeight := max(m.height-1, 1)
		maxScroll := max(len(helpLines)-visibleHeight, 0)
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
}

func (m model) helpView() string {
	visibleHeight := max(m.height-1, 1)
	startLine := min(m.helpScroll, max(len(helpLines)-visibleHeight, 0))
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result + "\n" + statusLine
}
