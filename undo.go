package main

import "fmt"

func (m *model) undo() {
	if m.editor.Busy() {
		m.errorMessage = "finish the current edit first"
		return
	}
	if m.editor.Undo() {
		m.successMessage = "Undo"
		m.errorMessage = ""
	}
}

func (m *model) redo() {
	if m.editor.Busy() {
		m.errorMessage = "finish the current edit first"
		return
	}
	if m.editor.Redo() {
		m.successMessage = "Redo"
		m.errorMessage = ""
	}
}

// enterHistory opens the history panel with the current record highlighted.
func (m *model) enterHistory() {
	if m.editor.Busy() {
		return
	}
	for _, r := range m.editor.Records() {
		if r.Current {
			m.historyIndex = r.Index
		}
	}
	m.mode = ModeHistory
}

func (m *model) handleHistoryKey(key string) {
	n := len(m.editor.Records())
	switch key {
	case "up", "k":
		if m.historyIndex > 0 {
			m.historyIndex--
		}
	case "down", "j":
		if m.historyIndex < n-1 {
			m.historyIndex++
		}
	case "home", "g":
		m.historyIndex = 0
	case "end", "G":
		m.historyIndex = n - 1
	case "enter":
		if m.editor.JumpTo(m.historyIndex) {
			rec := m.editor.Records()[m.historyIndex]
			m.successMessage = fmt.Sprintf("Jumped to %q", rec.Label)
		}
		m.mode = ModeNormal
	case "esc", "H", "q":
		m.mode = ModeNormal
	}
}
