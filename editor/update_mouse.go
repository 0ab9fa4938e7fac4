package editor

import (
	tea "github.com/charmbracelet/bubbletea"
)

// updateMouse scrolls the viewport and places the selection on left-button
// clicks and drags. Placement goes through the engine like any other native
// selection change.
func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.cfg.ScrollPolicy == ScrollAllowManual || !isManualScrollMouse(msg) {
		m.viewport, cmd = m.viewport.Update(msg)
	}

	if !m.focused {
		return m, cmd
	}

	switch msg.Action { //nolint:exhaustive
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.mouseInBounds(msg.X, msg.Y) {
			return m, cmd
		}
		m.surf.place(m.screenToPosition(msg.X, msg.Y), msg.Shift)
		m.surf.dragging = true
	case tea.MouseActionMotion:
		if !m.surf.dragging {
			return m, cmd
		}
		x, y := m.clampMouseToBounds(msg.X, msg.Y)
		m.surf.place(m.screenToPosition(x, y), true)
	case tea.MouseActionRelease:
		m.surf.dragging = false
		return m, cmd
	default:
		return m, cmd
	}
	m.surf.goalCol = -1
	m.ed.Engine().SelectionChange()
	return m.settle(), cmd
}

func (m Model) screenToPosition(x, y int) int {
	return m.surf.lay.at(y+m.viewport.YOffset, x)
}

func isManualScrollMouse(msg tea.MouseMsg) bool {
	return msg.Action == tea.MouseActionPress &&
		(msg.Button == tea.MouseButtonWheelUp ||
			msg.Button == tea.MouseButtonWheelDown ||
			msg.Button == tea.MouseButtonWheelLeft ||
			msg.Button == tea.MouseButtonWheelRight)
}

func (m Model) mouseInBounds(x, y int) bool {
	if m.viewport.Width <= 0 || m.viewport.Height <= 0 {
		return false
	}
	return x >= 0 && x < m.viewport.Width && y >= 0 && y < m.viewport.Height
}

func (m Model) clampMouseToBounds(x, y int) (int, int) {
	if m.viewport.Width > 0 {
		x = clampInt(x, 0, m.viewport.Width-1)
	}
	if m.viewport.Height > 0 {
		y = clampInt(y, 0, m.viewport.Height-1)
	}
	return x, y
}
