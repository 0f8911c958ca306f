package main

import "poster/internal/document"

type Mode int

const (
	ModeNormal Mode = iota
	ModeTextEdit
	ModeHistory
	ModeConfirm
)

type ConfirmAction int

const (
	ConfirmDeleteElement ConfirmAction = iota
	ConfirmQuit
)

// One terminal cell covers cellWidth x cellHeight canvas pixels.
const (
	cellWidth  = 8
	cellHeight = 16
)

// Arrow keys nudge by this many pixels; shift+arrow by nudgeFast.
const (
	nudgeStep = 1
	nudgeFast = 10
)

// doubleClickWindow bounds two presses on the same text element that open
// the text editor, in milliseconds.
const doubleClickWindow = 400

const historyPanelWidth = 30

// Cycles for the style keys.
var (
	textAligns   = []string{document.AlignLeft, document.AlignCenter, document.AlignRight}
	textFamilies = []string{"Arial", "Georgia", "Courier New"}
	textColors   = []string{"#000000", "#ffffff", "#e11d48", "#2563eb", "#16a34a", "#f59e0b"}

	backgroundFits    = []document.Fit{document.FitCover, document.FitContain, document.FitAuto, document.FitStretch}
	backgroundAnchors = []document.Anchor{
		document.AnchorCenter, document.AnchorTop, document.AnchorTopRight, document.AnchorRight,
		document.AnchorBottomRight, document.AnchorBottom, document.AnchorBottomLeft,
		document.AnchorLeft, document.AnchorTopLeft,
	}
	backgroundRepeats = []document.Repeat{document.NoRepeat, document.RepeatXY, document.RepeatX, document.RepeatY}
)
