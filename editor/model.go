package editor

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/tokenweave/buffer"
	"github.com/iw2rmb/tokenweave/engine"
	"github.com/iw2rmb/tokenweave/structured"
)

// Model is a Bubble Tea component that renders and edits a structured value.
//
// Model is a value type, but the editor state behind it is shared: copies
// returned from Update see the same value and selection.
type Model struct {
	cfg  Config
	ed   *structured.Editor
	surf *surface

	focused bool

	viewport viewport.Model

	lastVersion uint64
	lastSel     buffer.Range
}

// New builds the editor. It fails only on an invalid plugin set.
func New(cfg Config) (Model, error) {
	cfg = cfg.withDefaults()
	surf := newSurface(cfg.TabWidth)
	ed, err := structured.New(cfg.structured(), surf, cfg.Clipboard)
	if err != nil {
		return Model{}, err
	}
	m := Model{
		cfg:      cfg,
		ed:       ed,
		surf:     surf,
		focused:  true,
		viewport: viewport.New(0, 0),
	}
	eng := ed.Engine()
	eng.Settle()
	eng.SetSelection(eng.Buffer().Len(), -1)
	eng.Settle()
	m.lastVersion = eng.Buffer().Version()
	m.lastSel = eng.Selection()
	m.rebuildContent()
	return m, nil
}

// Editor returns the structured editor behind the component.
func (m Model) Editor() *structured.Editor { return m.ed }

func (m Model) Engine() *engine.Engine { return m.ed.Engine() }

func (m Model) Value() string { return m.ed.Value() }

// SetValue replaces the value without recording history or firing
// OnChange. The caret moves to the end.
func (m Model) SetValue(v string) Model {
	eng := m.ed.Engine()
	eng.SetValue(v)
	eng.SetSelection(eng.Buffer().Len(), -1)
	eng.Settle()
	m.lastVersion = eng.Buffer().Version()
	m.lastSel = eng.Selection()
	m.rebuildContent()
	m.followCaret()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.viewport.Width = width
	m.viewport.Height = height

	m.rebuildContent()
	m.followCaret()
	return m
}

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m.rebuildContent()
		m.followCaret()
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m.rebuildContent()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		m.updateKey(msg)
		return m.settle(), nil
	case RunMsg:
		if msg.Fn != nil {
			msg.Fn()
		}
		return m.settle(), nil
	}
	return m, nil
}

// settle runs the engine's deferred work, redraws and reports changes.
func (m Model) settle() Model {
	eng := m.ed.Engine()
	eng.Settle()
	m.rebuildContent()
	m.followCaret()

	ver, sel := eng.Buffer().Version(), eng.Selection()
	if ver == m.lastVersion && sel == m.lastSel {
		return m
	}
	m.lastVersion, m.lastSel = ver, sel
	if m.cfg.OnChange != nil {
		m.cfg.OnChange(buildChangeEvent(eng))
	}
	return m
}
