package vtree

import "unicode/utf8"

// Point is a position in the visual tree: a rune offset inside a text node,
// or a child index inside an element.
type Point struct {
	Node   *Node
	Offset int
}

// IsZero reports whether p references no node.
func (p Point) IsZero() bool { return p.Node == nil }

// Selection is a native selection: the anchor stays put while the focus moves.
type Selection struct {
	Anchor Point
	Focus  Point
}

// Collapsed reports whether anchor and focus coincide.
func (s Selection) Collapsed() bool { return s.Anchor == s.Focus }

// Caret returns a collapsed selection at p.
func Caret(p Point) Selection { return Selection{Anchor: p, Focus: p} }

// Range is a static native range such as the target range of an input event.
type Range struct {
	Start Point
	End   Point
}

// RenderedOffset converts p into an offset within the rendered text of root.
// Points outside root report the rendered length of root.
func RenderedOffset(root *Node, p Point) int {
	total := 0
	found := false
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if n == p.Node {
			switch n.Kind {
			case KindText:
				total += clampInt(p.Offset, 0, utf8.RuneCountInString(n.Text))
			default:
				limit := clampInt(p.Offset, 0, len(n.Children))
				for _, c := range n.Children[:limit] {
					total += c.RenderedLen()
				}
			}
			found = true
			return true
		}
		if n.Kind == KindText {
			total += utf8.RuneCountInString(n.Text)
			return false
		}
		for _, c := range n.Children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	if !found {
		return root.RenderedLen()
	}
	return total
}

// PointAtRendered returns the text position at a rendered offset of root.
// Offsets on a boundary between two leaves resolve to the end of the earlier
// leaf, except offset 0 which resolves to the start of the first leaf.
func PointAtRendered(root *Node, off int) Point {
	leaves := Leaves(root)
	if len(leaves) == 0 {
		return Point{Node: root, Offset: len(root.Children)}
	}
	if off <= 0 {
		return Point{Node: leaves[0], Offset: 0}
	}
	for _, leaf := range leaves {
		n := utf8.RuneCountInString(leaf.Text)
		if off <= n {
			return Point{Node: leaf, Offset: off}
		}
		off -= n
	}
	last := leaves[len(leaves)-1]
	return Point{Node: last, Offset: utf8.RuneCountInString(last.Text)}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
