package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"poster/internal/export"
)

// exportCmd snapshots the canvas now and writes it off the event loop, so
// edits made while the file is written do not reach it.
func (m *model) exportCmd(format export.Format) tea.Cmd {
	if m.exporting {
		m.errorMessage = "export already running"
		return nil
	}
	m.exporting = true
	m.errorMessage = ""
	m.successMessage = fmt.Sprintf("Exporting %s...", format)

	snapshot := m.editor.Snapshot()
	size := m.editor.Size()
	path := m.config.SavePath(fmt.Sprintf("poster-%s%s", m.now().Format("20060102-150405"), format.Ext()))
	opts := export.Options{Scale: m.config.ExportScale, Format: format}
	if wd, err := os.Getwd(); err == nil {
		opts.Loader = export.FileLoader{Dir: wd}
	}

	return func() tea.Msg {
		err := export.WriteFile(path, snapshot, size, opts)
		return exportedMsg{path: path, err: err}
	}
}
