package main

import (
	"time"

	"poster/internal/config"
	"poster/internal/editor"
)

type model struct {
	width          int
	height         int
	editor         *editor.Editor
	config         *config.Config
	mode           Mode
	help           bool
	helpScroll     int
	historyIndex   int
	confirmAction  ConfirmAction
	confirmID      string
	presetIndex    int
	lastClickID    string
	lastClickAt    time.Time
	now            func() time.Time
	exporting      bool
	errorMessage   string
	successMessage string
}

// pastedMsg carries an image source read from the clipboard.
type pastedMsg struct {
	source string
	err    error
}

// backgroundPastedMsg carries a clipboard image source for the canvas
// background.
type backgroundPastedMsg pastedMsg

// exportedMsg reports a finished export.
type exportedMsg struct {
	path string
	err  error
}

// pastedTextMsg carries cleaned clipboard text for the text editor.
type pastedTextMsg string
