package vtree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func tokenNode(start int, raw, visual string) *Node {
	n := NewElement("token", NewText(visual))
	n.Token = &TokenMark{RawStart: start, RawEnd: start + len([]rune(raw)), RawText: raw}
	return n
}

// "hi @alice ok" with @alice rendered as "Alice Liddell".
func mentionTree() (*Node, *Node) {
	tok := tokenNode(3, "@alice", "Alice Liddell")
	root := NewElement("root", NewText("hi "), tok, NewText(" ok"))
	return root, tok
}

func TestDiverged(t *testing.T) {
	_, tok := mentionTree()
	require.True(t, tok.Diverged())
	require.Equal(t, 6, tok.RawLen())
	require.Equal(t, 13, tok.RenderedLen())

	same := tokenNode(0, "#go", "#go")
	require.False(t, same.Diverged())
	require.False(t, NewText("x").Diverged())
}

func TestToVisual_SnapsInsideDivergedToken(t *testing.T) {
	root, tok := mentionTree()
	leaf := tok.Children[0]

	cases := []struct {
		raw  int
		want Point
	}{
		{raw: 0, want: Point{Node: root.Children[0], Offset: 0}},
		{raw: 3, want: Point{Node: root.Children[0], Offset: 3}},
		{raw: 4, want: Point{Node: leaf, Offset: 0}},
		{raw: 6, want: Point{Node: leaf, Offset: 0}},
		{raw: 7, want: Point{Node: leaf, Offset: 13}},
		{raw: 9, want: Point{Node: leaf, Offset: 13}},
		{raw: 10, want: Point{Node: root.Children[2], Offset: 1}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ToVisual(root, tc.raw), "raw=%d", tc.raw)
	}
}

func TestToVisual_PastEndFallsBackToLastToken(t *testing.T) {
	root, tok := mentionTree()
	require.Equal(t, Point{Node: tok.Children[0], Offset: 13}, ToVisual(root, 99))

	plain := NewElement("root", NewText("abc"))
	require.Equal(t, Point{Node: plain.Children[0], Offset: 3}, ToVisual(plain, 10))

	empty := NewElement("root")
	require.Equal(t, Point{Node: empty, Offset: 0}, ToVisual(empty, 0))
}

func TestToRaw(t *testing.T) {
	root, tok := mentionTree()
	leaf := tok.Children[0]

	require.Equal(t, 2, ToRaw(root, root.Children[0], 2))
	require.Equal(t, 3, ToRaw(root, leaf, 0))
	require.Equal(t, 3, ToRaw(root, leaf, 6))
	require.Equal(t, 9, ToRaw(root, leaf, 7))
	require.Equal(t, 9, ToRaw(root, leaf, 13))
	require.Equal(t, 11, ToRaw(root, root.Children[2], 2))
	require.Equal(t, 9, ToRaw(root, root, 2), "element offsets count children")
	require.Equal(t, 12, ToRaw(root, NewText("detached"), 1))
}

func TestToRaw_AncestorWrappedToken(t *testing.T) {
	inner := NewElement("chip", NewText("Bob"))
	wrapper := NewElement("link", NewText("["), inner, NewText("]"))
	wrapper.Token = &TokenMark{RawStart: 1, RawEnd: 5, RawText: "@bob"}
	root := NewElement("root", NewText("x"), wrapper, NewText("y"))

	require.True(t, wrapper.Diverged())
	require.Equal(t, 1, ToRaw(root, inner.Children[0], 0))
	require.Equal(t, 5, ToRaw(root, inner.Children[0], 3))
	require.Equal(t, 5, ToRaw(root, root.Children[2], 0))
	require.Equal(t, Point{Node: wrapper.Children[2], Offset: 1}, ToVisual(root, 5))
}

type segment struct {
	raw    string
	visual string
	token  bool
}

func buildTree(segs []segment) (*Node, [][2]int, []bool) {
	root := NewElement("root")
	spans := make([][2]int, 0, len(segs))
	diverged := make([]bool, 0, len(segs))
	off := 0
	for _, s := range segs {
		n := len([]rune(s.raw))
		if s.token {
			root.Append(tokenNode(off, s.raw, s.visual))
		} else {
			root.Append(NewText(s.raw))
		}
		spans = append(spans, [2]int{off, off + n})
		diverged = append(diverged, s.token && len([]rune(s.visual)) != n)
		off += n
	}
	return root, spans, diverged
}

func TestRoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(0, 6).Draw(t, "segments")
		segs := make([]segment, 0, count)
		for i := 0; i < count; i++ {
			rawLen := rapid.IntRange(1, 6).Draw(t, "rawLen")
			isToken := rapid.Bool().Draw(t, "token")
			seg := segment{raw: strings.Repeat("r", rawLen), token: isToken}
			if isToken {
				seg.visual = strings.Repeat("v", rapid.IntRange(1, 8).Draw(t, "visualLen"))
			}
			segs = append(segs, seg)
		}
		root, spans, diverged := buildTree(segs)
		total := root.RawLen()

		for i := 0; i <= total; i++ {
			want := i
			for k, sp := range spans {
				if diverged[k] && i > sp[0] && i < sp[1] {
					if (i-sp[0])*2 <= sp[1]-sp[0] {
						want = sp[0]
					} else {
						want = sp[1]
					}
				}
			}
			p := ToVisual(root, i)
			if got := ToRaw(root, p.Node, p.Offset); got != want {
				t.Fatalf("round trip of %d: got %d, want %d", i, got, want)
			}
		}
	})
}

func TestRenderedOffsetAndPointAtRendered(t *testing.T) {
	root, tok := mentionTree()
	leaf := tok.Children[0]

	require.Equal(t, 3, RenderedOffset(root, Point{Node: leaf, Offset: 0}))
	require.Equal(t, 17, RenderedOffset(root, Point{Node: root.Children[2], Offset: 1}))
	require.Equal(t, Point{Node: leaf, Offset: 2}, PointAtRendered(root, 5))
	require.Equal(t, Point{Node: root.Children[0], Offset: 3}, PointAtRendered(root, 3))
	require.Equal(t, Point{Node: root.Children[0], Offset: 0}, PointAtRendered(root, -1))
	require.Equal(t, "hi Alice Liddell ok", TextContent(root))
}

func TestCloneDetachesParent(t *testing.T) {
	root, tok := mentionTree()
	c := tok.Clone()
	require.Nil(t, c.Parent)
	require.Equal(t, tok.Token.RawText, c.Token.RawText)
	require.NotSame(t, tok.Token, c.Token)
	require.Same(t, c, c.Children[0].Parent)
	require.True(t, root.Contains(tok.Children[0]))
	require.False(t, root.Contains(c))
}
