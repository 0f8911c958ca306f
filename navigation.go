package main

func (m *model) handleNudge(key string) {
	id := m.editor.SelectedID()
	if id == "" {
		return
	}
	speed := float64(m.getMoveSpeed(key))
	var dx, dy float64
	switch key {
	case "left", "shift+left":
		dx = -speed
	case "right", "shift+right":
		dx = speed
	case "up", "shift+up":
		dy = -speed
	case "down", "shift+down":
		dy = speed
	}
	m.editor.Nudge(id, dx, dy)
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "shift+left", "shift+right", "shift+up", "shift+down":
		return nudgeFast
	default:
		return nudgeStep
	}
}
