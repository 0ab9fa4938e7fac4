package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iw2rmb/tokenweave/buffer"
	"github.com/iw2rmb/tokenweave/vtree"
	"github.com/iw2rmb/tokenweave/weave"
)

// mentionHarness renders "hi @al ok" with @al displayed as "Alice".
func mentionHarness(t *testing.T) (*harness, *vtree.Node) {
	t.Helper()
	h := newHarness(t, Config{Value: "hi @al ok"})
	h.e.RegisterTokens([]weave.Descriptor{{Raw: "@al", Visual: []*vtree.Node{vtree.NewText("Alice")}}})
	h.e.Render()
	tok := h.e.Woven().Tokens()[0].Element
	return h, vtree.Leaves(tok)[0]
}

func TestSetSelection_ClampsAndSnaps(t *testing.T) {
	h := newHarness(t, Config{Value: "a\U0001F44D\U0001F3FDb"})

	h.e.SetSelection(2, -1)
	require.Equal(t, buffer.Caret(1), h.e.Selection())

	h.e.SetSelection(2, 99)
	require.Equal(t, buffer.Range{Start: 1, End: 4}, h.e.Selection())

	h.e.SetSelection(2, 0)
	require.Equal(t, buffer.Range{Start: 3, End: 0}, h.e.Selection(), "reversed selections snap outward")
}

func TestSelectionChange_IgnoresOwnEcho(t *testing.T) {
	h := newHarness(t, Config{Value: "hello"})
	h.e.SetSelection(2, -1)
	h.e.buf.SetSelection(buffer.Caret(4))

	h.e.SelectionChange()
	require.Equal(t, buffer.Caret(4), h.e.Selection(), "echo of the engine's own write is ignored")

	h.s.place(vtree.ToVisual(h.e.Root(), 1), vtree.ToVisual(h.e.Root(), 3))
	h.e.SelectionChange()
	require.Equal(t, buffer.Range{Start: 1, End: 3}, h.e.Selection())
}

func TestSelectionChange_ArrowSnapsOutOfDivergedToken(t *testing.T) {
	h, leaf := mentionHarness(t)

	h.e.KeyDown(KeyEvent{Key: KeyArrowRight})
	h.s.place(vtree.Point{Node: leaf, Offset: 1}, vtree.Point{Node: leaf, Offset: 1})
	h.e.SelectionChange()
	require.Equal(t, buffer.Caret(6), h.e.Selection())
	require.Equal(t, vtree.Point{Node: leaf, Offset: 5}, h.s.sel.Focus)

	h.e.KeyDown(KeyEvent{Key: KeyArrowLeft})
	h.s.place(vtree.Point{Node: leaf, Offset: 4}, vtree.Point{Node: leaf, Offset: 4})
	h.e.SelectionChange()
	require.Equal(t, buffer.Caret(3), h.e.Selection())
}

func TestSelectionChange_ShiftArrowMovesOnlyFocus(t *testing.T) {
	h, leaf := mentionHarness(t)
	anchor := vtree.ToVisual(h.e.Root(), 0)

	h.e.KeyDown(KeyEvent{Key: KeyArrowRight, Shift: true})
	h.s.place(anchor, vtree.Point{Node: leaf, Offset: 1})
	h.e.SelectionChange()
	require.Equal(t, buffer.Range{Start: 0, End: 6}, h.e.Selection())
	require.Equal(t, anchor, h.s.sel.Anchor)
}

func TestSelectionChange_WithoutArrowUsesMidpoint(t *testing.T) {
	h, leaf := mentionHarness(t)

	h.s.place(vtree.Point{Node: leaf, Offset: 2}, vtree.Point{Node: leaf, Offset: 2})
	h.e.SelectionChange()
	require.Equal(t, buffer.Caret(3), h.e.Selection())

	h.s.place(vtree.Point{Node: leaf, Offset: 3}, vtree.Point{Node: leaf, Offset: 3})
	h.e.SelectionChange()
	require.Equal(t, buffer.Caret(6), h.e.Selection())
}

func TestSelectionChange_ArrowIgnoresTokenEdges(t *testing.T) {
	h, leaf := mentionHarness(t)
	selects := h.s.selects

	h.e.KeyDown(KeyEvent{Key: KeyArrowLeft})
	h.s.place(vtree.Point{Node: leaf, Offset: 0}, vtree.Point{Node: leaf, Offset: 0})
	h.e.SelectionChange()
	require.Equal(t, buffer.Caret(3), h.e.Selection())
	require.Equal(t, selects, h.s.selects, "no write-back when already on an edge")
}

func TestSelectionChange_UpdatesActiveToken(t *testing.T) {
	h, leaf := mentionHarness(t)
	h.s.place(vtree.Point{Node: leaf, Offset: 5}, vtree.Point{Node: leaf, Offset: 5})
	h.e.SelectionChange()

	st := h.e.State()
	require.Equal(t, weave.NodeToken, st.ActiveToken.Kind)
	require.True(t, st.ActiveState.IsAtEndOfToken)
}
