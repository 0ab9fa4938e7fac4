package mention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iw2rmb/tokenweave/engine"
	"github.com/iw2rmb/tokenweave/structured"
	"github.com/iw2rmb/tokenweave/vtree"
)

type memSurface struct {
	root *vtree.Node
	sel  vtree.Selection
	ok   bool
}

func (s *memSurface) Selection() (vtree.Selection, bool) { return s.sel, s.ok }
func (s *memSurface) Select(sel vtree.Selection)         { s.sel, s.ok = sel, true }
func (s *memSurface) Attached() bool                     { return true }
func (s *memSurface) Text() string                       { return vtree.TextContent(s.root) }
func (s *memSurface) Draw(root *vtree.Node)              { s.root = root }

type directory struct {
	names map[string]string
	calls int
}

func (d *directory) resolve(_ context.Context, handle string) (string, error) {
	d.calls++
	name, ok := d.names[handle]
	if !ok {
		return "", errors.New("unknown handle")
	}
	return name, nil
}

func (d *directory) candidates(prefix string) []string {
	return []string{"al", "alice", "anna", "bob"}
}

func newEditor(t *testing.T, value string, opt Options) (*structured.Editor, *memSurface) {
	t.Helper()
	s := &memSurface{}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ed, err := structured.New(structured.Config{
		Engine:  engine.Config{Value: value, Now: func() time.Time { return now }},
		Plugins: []structured.Plugin{New(opt)},
	}, s, nil)
	require.NoError(t, err)
	return ed, s
}

func TestMention_ResolvesOnInsert(t *testing.T) {
	dir := &directory{names: map[string]string{"al": "Alice"}}
	ed, s := newEditor(t, "hi @al", Options{Resolve: dir.resolve})

	require.Equal(t, "hi @al", vtree.TextContent(s.root))
	ed.Engine().Settle()
	require.Equal(t, "hi Alice", vtree.TextContent(s.root))
	require.Equal(t, "hi @al", ed.Value())

	els := vtree.Elements(s.root, func(n *vtree.Node) bool { return n.Tag == Name })
	require.Len(t, els, 1)
	require.Equal(t, "al", els[0].Attr(KeyHandle))
	require.NotNil(t, els[0].Token)
}

func TestMention_AsyncScheduleAndCache(t *testing.T) {
	dir := &directory{names: map[string]string{"al": "Alice"}}
	var queue []func()
	ed, s := newEditor(t, "@al", Options{
		Resolve:  dir.resolve,
		Schedule: func(fn func()) { queue = append(queue, fn) },
	})
	ed.Engine().Settle()
	require.Len(t, queue, 1)
	require.Equal(t, "@al", vtree.TextContent(s.root))

	queue[0]()
	ed.Engine().Settle()
	require.Equal(t, "Alice", vtree.TextContent(s.root))

	ed.Engine().SetSelection(3, -1)
	ed.Engine().Paste(" @al")
	ed.Engine().Settle()
	require.Equal(t, "Alice Alice", vtree.TextContent(s.root))
	require.Equal(t, 1, dir.calls, "second token hits the cache")
	require.Len(t, queue, 1)
}

func TestMention_UnresolvedStaysRaw(t *testing.T) {
	dir := &directory{}
	ed, s := newEditor(t, "@zed", Options{Resolve: dir.resolve})
	ed.Engine().Settle()
	require.Equal(t, "@zed", vtree.TextContent(s.root))
	require.False(t, ed.Engine().Woven().Tokens()[0].Diverged())
}

func TestMention_SuggestionsPortalAndTab(t *testing.T) {
	dir := &directory{}
	ed, _ := newEditor(t, "to @a", Options{Resolve: dir.resolve, Candidates: dir.candidates})
	ed.Engine().Settle()

	ed.Engine().SetSelection(4, -1)
	require.Empty(t, ed.Portal(), "only at the end of the token")

	ed.Engine().SetSelection(5, -1)
	require.Equal(t, "@al\n@alice\n@anna", ed.Portal())

	require.True(t, ed.Engine().KeyDown(engine.KeyEvent{Key: engine.KeyTab}))
	ed.Engine().Settle()
	require.Equal(t, "to @al", ed.Value())
	require.Equal(t, 6, ed.Engine().Selection().End)
}

func TestSuggestions_Capped(t *testing.T) {
	p := New(Options{Candidates: func(string) []string {
		return []string{"a1", "a2", "a3", "a4", "a5", "a6", "b"}
	}})
	require.Equal(t, []string{"a1", "a2", "a3", "a4", "a5"}, p.Suggestions("a"))
	require.Nil(t, New(Options{}).Suggestions("a"))
}
