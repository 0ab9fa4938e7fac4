package editor

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/iw2rmb/tokenweave/buffer"
	"github.com/iw2rmb/tokenweave/plugins/mention"
	"github.com/iw2rmb/tokenweave/structured"
)

type memClipboard struct {
	s string
}

func (c *memClipboard) ReadText() (string, error) { return c.s, nil }
func (c *memClipboard) WriteText(s string) error  { c.s = s; return nil }

func mustNew(t *testing.T, cfg Config) Model {
	t.Helper()
	if cfg.Clipboard == nil {
		cfg.Clipboard = &memClipboard{}
	}
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m.SetSize(40, 4)
}

func viewLines(m Model) []string {
	lines := strings.Split(m.View(), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(ansi.Strip(lines[i]), " \u00a0")
	}
	return lines
}

func keys(m Model, msgs ...tea.KeyMsg) Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func mentions() structured.Plugin {
	names := map[string]string{"al": "Alice", "alice": "Alice Liddell"}
	return mention.New(mention.Options{
		Resolve: func(_ context.Context, handle string) (string, error) {
			return names[handle], nil
		},
		Candidates: func(string) []string { return []string{"al", "alice", "anna"} },
	})
}

func TestModel_SetSizeAffectsViewHeight(t *testing.T) {
	m := mustNew(t, Config{Value: "a\nb\nc", Multiline: true})
	m = m.Blur()

	m = m.SetSize(20, 2)
	if got := lipgloss.Height(m.View()); got != 2 {
		t.Fatalf("height after SetSize(20,2): got %d, want %d", got, 2)
	}

	m = m.SetSize(20, 4)
	if got := lipgloss.Height(m.View()); got != 4 {
		t.Fatalf("height after SetSize(20,4): got %d, want %d", got, 4)
	}
}

func TestUpdate_TypingMovementAndDelete(t *testing.T) {
	m := mustNew(t, Config{Value: "ab"})
	if got := m.Engine().Selection(); got != buffer.Caret(2) {
		t.Fatalf("initial caret: got %v, want end", got)
	}

	m = keys(m, tea.KeyMsg{Type: tea.KeyLeft}, runes("X"))
	if got := m.Value(); got != "aXb" {
		t.Fatalf("text after insert: got %q, want %q", got, "aXb")
	}
	if got := m.Engine().Selection(); got != buffer.Caret(2) {
		t.Fatalf("caret after insert: got %v, want %v", got, buffer.Caret(2))
	}

	m = keys(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.Value(); got != "ab" {
		t.Fatalf("text after backspace: got %q, want %q", got, "ab")
	}
	if got := m.Engine().Selection(); got != buffer.Caret(1) {
		t.Fatalf("caret after backspace: got %v, want %v", got, buffer.Caret(1))
	}
}

func TestUpdate_ArrowsStepOverRenderedTokens(t *testing.T) {
	m := mustNew(t, Config{Value: "hi @al ok", Plugins: []structured.Plugin{mentions()}})
	if got := viewLines(m)[0]; got != "hi Alice ok" {
		t.Fatalf("rendered: got %q", got)
	}

	m = keys(m, tea.KeyMsg{Type: tea.KeyHome})
	for i := 0; i < 3; i++ {
		m = keys(m, tea.KeyMsg{Type: tea.KeyRight})
	}
	if got := m.Engine().Selection(); got != buffer.Caret(3) {
		t.Fatalf("caret before token: got %v", got)
	}

	m = keys(m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.Engine().Selection(); got != buffer.Caret(6) {
		t.Fatalf("right into token: got %v, want caret at raw end 6", got)
	}
	if got := m.surf.focus; got != 8 {
		t.Fatalf("surface caret: got %d, want 8 (after \"Alice\")", got)
	}

	m = keys(m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.Engine().Selection(); got != buffer.Caret(3) {
		t.Fatalf("left into token: got %v, want caret at raw start 3", got)
	}
	if got := m.surf.focus; got != 3 {
		t.Fatalf("surface caret: got %d, want 3", got)
	}
}

func TestUpdate_BackspaceAfterTokenEditsRaw(t *testing.T) {
	m := mustNew(t, Config{Value: "hi @al", Plugins: []structured.Plugin{mentions()}})
	m = keys(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.Value(); got != "hi @a" {
		t.Fatalf("value: got %q, want %q", got, "hi @a")
	}
	if got := viewLines(m)[0]; got != "hi @a" {
		t.Fatalf("rendered: got %q", got)
	}
}

func TestUpdate_EnterRespectsMultiline(t *testing.T) {
	m := mustNew(t, Config{Value: "ab"})
	m = keys(m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.Value(); got != "ab" {
		t.Fatalf("single-line enter: got %q", got)
	}

	m = mustNew(t, Config{Value: "ab", Multiline: true})
	m = keys(m, tea.KeyMsg{Type: tea.KeyEnter}, runes("c"))
	if got := m.Value(); got != "ab\nc" {
		t.Fatalf("multiline enter: got %q", got)
	}
	lines := viewLines(m)
	if lines[0] != "ab" || lines[1] != "c" {
		t.Fatalf("rendered rows: %q", lines[:2])
	}
}

func TestUpdate_PasteMessageIsLiteral(t *testing.T) {
	m := mustNew(t, Config{})
	m = keys(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a\r\nb"), Paste: true})
	if got := m.Value(); got != "a b" {
		t.Fatalf("paste: got %q, want %q", got, "a b")
	}
}

func TestUpdate_ClipboardKeys(t *testing.T) {
	clip := &memClipboard{}
	m := mustNew(t, Config{Value: "hello", Clipboard: clip})

	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlS}, tea.KeyMsg{Type: tea.KeyCtrlC})
	if clip.s != "hello" {
		t.Fatalf("copy: got %q", clip.s)
	}
	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if got := m.Value(); got != "" {
		t.Fatalf("cut: got %q", got)
	}
	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlV}, tea.KeyMsg{Type: tea.KeyCtrlV})
	if got := m.Value(); got != "hellohello" {
		t.Fatalf("paste: got %q", got)
	}
	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if got := m.Value(); got != "hello" {
		t.Fatalf("undo paste: got %q", got)
	}
}

func TestUpdate_TypingCoalescesIntoOneUndoStep(t *testing.T) {
	m := mustNew(t, Config{})
	m = keys(m, runes("a"), runes("b"), tea.KeyMsg{Type: tea.KeySpace}, runes("c"))
	if got := m.Value(); got != "ab c" {
		t.Fatalf("typed: got %q", got)
	}
	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if got := m.Value(); got != "" {
		t.Fatalf("undo: got %q, want empty", got)
	}
	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if got := m.Value(); got != "ab c" {
		t.Fatalf("redo: got %q", got)
	}
}

func TestUpdate_RuneBurstTypesClusterByCluster(t *testing.T) {
	m := mustNew(t, Config{})
	m = keys(m, runes("hi w\u00e9"))
	if got := m.Value(); got != "hi w\u00e9" {
		t.Fatalf("burst: got %q", got)
	}

	m = keys(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.Value(); got != "hi w" {
		t.Fatalf("backspace after burst: got %q, want %q", got, "hi w")
	}
	if got := m.Engine().Selection(); got != buffer.Caret(4) {
		t.Fatalf("caret: got %v, want %v", got, buffer.Caret(4))
	}
}

func TestUpdate_ReadOnlyIgnoresMutations(t *testing.T) {
	clip := &memClipboard{s: "zz"}
	m := mustNew(t, Config{Value: "ab", ReadOnly: true, Clipboard: clip})

	m = keys(m, tea.KeyMsg{Type: tea.KeyLeft}, runes("X"), tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyCtrlV})
	if got := m.Value(); got != "ab" {
		t.Fatalf("read-only value: got %q", got)
	}
	if got := m.Engine().Selection(); got != buffer.Caret(1) {
		t.Fatalf("read-only caret: got %v", got)
	}
}

func TestView_Placeholder(t *testing.T) {
	m := mustNew(t, Config{Placeholder: "Say hi"})
	if got := strings.TrimSpace(viewLines(m)[0]); got != "Say hi" {
		t.Fatalf("placeholder: got %q", got)
	}
	m = keys(m, runes("x"))
	if got := viewLines(m)[0]; got != "x" {
		t.Fatalf("after typing: got %q", got)
	}
}

func TestView_PortalAndTabAccept(t *testing.T) {
	m := mustNew(t, Config{Value: "hey @a", Plugins: []structured.Plugin{mentions()}})
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "@alice") || !strings.Contains(view, "@anna") {
		t.Fatalf("portal missing from view:\n%s", view)
	}

	m = keys(m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.Value(); got != "hey @al" {
		t.Fatalf("tab accept: got %q", got)
	}
	if got := viewLines(m)[0]; got != "hey Alice" {
		t.Fatalf("resolved after accept: got %q", got)
	}
}

func TestUpdate_RunMsgAppliesDeferredResolution(t *testing.T) {
	var pending []func()
	p := mention.New(mention.Options{
		Resolve:  func(context.Context, string) (string, error) { return "Bob", nil },
		Schedule: func(fn func()) { pending = append(pending, fn) },
	})
	m := mustNew(t, Config{Value: "@b", Plugins: []structured.Plugin{p}})
	if len(pending) != 1 {
		t.Fatalf("scheduled resolutions: got %d", len(pending))
	}
	m, _ = m.Update(RunMsg{Fn: pending[0]})
	if got := viewLines(m)[0]; got != "Bob" {
		t.Fatalf("after RunMsg: got %q", got)
	}
}

func TestOnChange_FiresOnValueAndSelection(t *testing.T) {
	var got []ChangeEvent
	m := mustNew(t, Config{Value: "ab", OnChange: func(ev ChangeEvent) { got = append(got, ev) }})

	m = keys(m, runes("c"), tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyEscape})
	if len(got) != 2 {
		t.Fatalf("events: got %d, want 2", len(got))
	}
	if got[0].Value != "abc" || got[0].Selection != buffer.Caret(3) {
		t.Fatalf("first event: %+v", got[0])
	}
	if got[1].Selection != buffer.Caret(2) {
		t.Fatalf("second event: %+v", got[1])
	}
}

func TestOnChange_ReportsCaretRowAndColumn(t *testing.T) {
	var last ChangeEvent
	m := mustNew(t, Config{Multiline: true, OnChange: func(ev ChangeEvent) { last = ev }})

	_ = keys(m, runes("ab"), tea.KeyMsg{Type: tea.KeyEnter}, runes("c"))
	if got, want := last.Caret, (buffer.Pos{Row: 1, Col: 1}); got != want {
		t.Fatalf("caret: got %+v, want %+v", got, want)
	}
	if last.Lines != 2 {
		t.Fatalf("lines: got %d, want 2", last.Lines)
	}
}
