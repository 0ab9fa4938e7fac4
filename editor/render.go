package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	graphemeutil "github.com/iw2rmb/tokenweave/internal/grapheme"
	"github.com/iw2rmb/tokenweave/weave"
)

func (m *Model) rebuildContent() {
	m.viewport.SetContent(m.renderContent())
}

func (m *Model) renderContent() string {
	st := m.cfg.Style
	state := m.ed.Engine().State()
	lay := m.surf.lay

	if state.Placeholder != "" && lay.end() == 0 {
		if m.focused {
			return st.Cursor.Render(" ") + st.Placeholder.Render(state.Placeholder)
		}
		return st.Placeholder.Render(state.Placeholder)
	}

	var active *weave.Node
	if n := state.ActiveToken; n != nil && n.Kind == weave.NodeToken {
		active = n
	}
	selLo, selHi := m.surf.span()
	caret := m.surf.focus

	rows := make([]strings.Builder, lay.rows())
	for i, c := range lay.cells {
		cursor := m.focused && i == caret
		if c.newline() {
			if cursor {
				rows[c.row].WriteString(st.Cursor.Render(" "))
			}
			continue
		}

		text := c.text
		if text == "\t" {
			text = strings.Repeat(" ", c.width)
		}

		style := st.Text
		if c.token != nil {
			style = st.tokenStyle(c.tags, active != nil && active.Element == c.token)
		}
		switch {
		case cursor:
			style = st.Cursor
			if graphemeutil.IsSpace(c.text) {
				// Terminals may elide a trailing space; keep the cursor visible.
				text = strings.Repeat("\u00a0", max(c.width, 1))
			}
		case selLo <= i && i < selHi:
			style = st.Selection.Inherit(style)
		}
		rows[c.row].WriteString(style.Render(text))
	}
	if m.focused && caret == lay.end() {
		rows[len(rows)-1].WriteString(st.Cursor.Render(" "))
	}

	out := make([]string, len(rows))
	for i := range rows {
		out[i] = rows[i].String()
	}
	return strings.Join(out, "\n")
}

// View renders the viewport and, while the active token's plugin has
// something to show, its portal below the content, indented to the portal
// anchor.
func (m Model) View() string {
	view := m.viewport.View()
	if !m.focused {
		return view
	}
	portal := m.ed.Portal()
	if portal == "" {
		return view
	}
	rect := m.ed.Engine().PortalRect()
	box := m.cfg.Style.Portal.Render(portal)
	if rect.X > 0 {
		box = lipgloss.NewStyle().MarginLeft(rect.X).Render(box)
	}
	return lipgloss.JoinVertical(lipgloss.Left, view, box)
}

// followCaret scrolls the viewport so the caret row is visible.
func (m *Model) followCaret() {
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h <= 0 {
		return
	}
	row := m.surf.lay.rowOf(m.surf.focus)

	y := m.viewport.YOffset
	if row < y {
		m.viewport.SetYOffset(row)
		return
	}
	if row >= y+h {
		m.viewport.SetYOffset(row - h + 1)
	}
}
