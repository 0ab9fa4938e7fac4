package editor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/tokenweave/engine"
	"github.com/iw2rmb/tokenweave/internal/grapheme"
)

// updateKey translates a key into engine events. The surface moves the
// native selection itself for navigation keys, then reports it back.
func (m Model) updateKey(msg tea.KeyMsg) {
	eng := m.ed.Engine()

	// Paste events should always insert literal text and never trigger shortcuts.
	if msg.Paste && len(msg.Runes) > 0 {
		if m.cfg.ReadOnly {
			return
		}
		eng.BeforeInput(engine.InputEvent{Type: engine.InsertFromPaste, DataTransfer: string(msg.Runes)})
		return
	}

	km := m.cfg.KeyMap
	s := m.surf
	switch {
	case key.Matches(msg, km.Left):
		m.navigate(engine.KeyEvent{Key: engine.KeyArrowLeft}, func() { s.moveChar(-1, false) })
	case key.Matches(msg, km.Right):
		m.navigate(engine.KeyEvent{Key: engine.KeyArrowRight}, func() { s.moveChar(1, false) })
	case key.Matches(msg, km.Up):
		m.navigate(engine.KeyEvent{Key: engine.KeyArrowUp}, func() { s.moveVertical(-1, false) })
	case key.Matches(msg, km.Down):
		m.navigate(engine.KeyEvent{Key: engine.KeyArrowDown}, func() { s.moveVertical(1, false) })

	case key.Matches(msg, km.ShiftLeft):
		m.navigate(engine.KeyEvent{Key: engine.KeyArrowLeft, Shift: true}, func() { s.moveChar(-1, true) })
	case key.Matches(msg, km.ShiftRight):
		m.navigate(engine.KeyEvent{Key: engine.KeyArrowRight, Shift: true}, func() { s.moveChar(1, true) })
	case key.Matches(msg, km.ShiftUp):
		m.navigate(engine.KeyEvent{Key: engine.KeyArrowUp, Shift: true}, func() { s.moveVertical(-1, true) })
	case key.Matches(msg, km.ShiftDown):
		m.navigate(engine.KeyEvent{Key: engine.KeyArrowDown, Shift: true}, func() { s.moveVertical(1, true) })

	case key.Matches(msg, km.WordLeft):
		m.navigate(engine.KeyEvent{Key: engine.KeyArrowLeft, Alt: true}, func() { s.moveWord(-1, false) })
	case key.Matches(msg, km.WordRight):
		m.navigate(engine.KeyEvent{Key: engine.KeyArrowRight, Alt: true}, func() { s.moveWord(1, false) })

	case key.Matches(msg, km.Home):
		m.navigate(engine.KeyEvent{Key: engine.KeyHome}, func() { s.moveLineEdge(false, false) })
	case key.Matches(msg, km.End):
		m.navigate(engine.KeyEvent{Key: engine.KeyEnd}, func() { s.moveLineEdge(true, false) })
	case key.Matches(msg, km.SelectAll):
		m.navigate(engine.KeyEvent{Key: "a", Ctrl: true}, s.selectAll)

	case key.Matches(msg, km.Backspace):
		m.edit(engine.KeyEvent{Key: engine.KeyBackspace}, engine.DeleteContentBackward)
	case key.Matches(msg, km.Delete):
		m.edit(engine.KeyEvent{Key: engine.KeyDelete}, engine.DeleteContentForward)
	case key.Matches(msg, km.WordBackspace):
		m.edit(engine.KeyEvent{Key: engine.KeyBackspace, Alt: true}, engine.DeleteWordBackward)
	case key.Matches(msg, km.WordDelete):
		m.edit(engine.KeyEvent{Key: engine.KeyDelete, Alt: true}, engine.DeleteWordForward)
	case key.Matches(msg, km.LineBackspace):
		m.edit(engine.KeyEvent{Key: engine.KeyBackspace, Meta: true}, engine.DeleteSoftLineBackward)
	case key.Matches(msg, km.Enter):
		m.edit(engine.KeyEvent{Key: engine.KeyEnter}, engine.InsertParagraph)

	case key.Matches(msg, km.Tab):
		if !eng.KeyDown(engine.KeyEvent{Key: engine.KeyTab}) && m.cfg.Multiline && !m.cfg.ReadOnly {
			eng.BeforeInput(engine.InputEvent{Type: engine.InsertText, Data: "\t"})
		}
	case key.Matches(msg, km.Escape):
		eng.KeyDown(engine.KeyEvent{Key: engine.KeyEscape})

	case key.Matches(msg, km.Undo):
		if !m.cfg.ReadOnly {
			eng.KeyDown(engine.KeyEvent{Key: "z", Ctrl: true})
		}
	case key.Matches(msg, km.Redo):
		if !m.cfg.ReadOnly {
			eng.KeyDown(engine.KeyEvent{Key: "y", Ctrl: true})
		}

	case key.Matches(msg, km.Copy):
		if !eng.KeyDown(engine.KeyEvent{Key: "c", Ctrl: true}) {
			eng.Copy()
		}
	case key.Matches(msg, km.Cut):
		if eng.KeyDown(engine.KeyEvent{Key: "x", Ctrl: true}) {
			return
		}
		if m.cfg.ReadOnly {
			eng.Copy()
		} else {
			eng.Cut()
		}
	case key.Matches(msg, km.Paste):
		if !eng.KeyDown(engine.KeyEvent{Key: "v", Ctrl: true}) && !m.cfg.ReadOnly {
			eng.PasteClipboard()
		}

	default:
		text := ""
		switch msg.Type {
		case tea.KeySpace:
			text = engine.KeySpace
		case tea.KeyRunes:
			if !msg.Alt {
				text = string(msg.Runes)
			}
		}
		if text == "" || m.cfg.ReadOnly {
			return
		}
		// A burst of runes is typed one cluster at a time; only a platform
		// word insert may arm swipe correction.
		for i, g := range grapheme.Split(text) {
			if i > 0 {
				eng.Settle()
			}
			if !eng.KeyDown(engine.KeyEvent{Key: g}) {
				eng.BeforeInput(engine.InputEvent{Type: engine.InsertText, Data: g})
			}
		}
	}
}

// navigate lets the engine see ev, then moves the surface selection and
// reports it.
func (m Model) navigate(ev engine.KeyEvent, move func()) {
	eng := m.ed.Engine()
	if eng.KeyDown(ev) {
		return
	}
	move()
	eng.SelectionChange()
}

// edit lets the engine see ev, then delivers the input intent.
func (m Model) edit(ev engine.KeyEvent, typ engine.InputType) {
	eng := m.ed.Engine()
	if m.cfg.ReadOnly || eng.KeyDown(ev) {
		return
	}
	eng.BeforeInput(engine.InputEvent{Type: typ})
}
