package vtree

import "unicode/utf8"

// ToVisual maps a raw offset to a position in the tree rooted at root.
//
// Non-diverged content maps exactly. A raw offset inside a diverged token
// lands on one of the token's rendered edges: the first rendered character
// when the offset is in the first half of the raw span (ties go to the start)
// and past the last rendered character otherwise. Offsets past the end fall
// back to the end of the last text leaf.
func ToVisual(root *Node, raw int) Point {
	if root == nil {
		return Point{}
	}
	if raw < 0 {
		raw = 0
	}
	remaining := raw
	var out Point
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if n.Diverged() {
			span := n.Token.RawLen()
			if remaining <= span {
				out = tokenEdge(n, remaining*2 > span)
				return true
			}
			remaining -= span
			return false
		}
		switch n.Kind {
		case KindText:
			l := utf8.RuneCountInString(n.Text)
			if remaining <= l {
				out = Point{Node: n, Offset: remaining}
				return true
			}
			remaining -= l
			return false
		case KindBreak:
			return false
		}
		for _, c := range n.Children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if walk(root) {
		return out
	}
	return endPoint(root)
}

// ToRaw maps a tree position back to a raw offset. It is the inverse of
// ToVisual: a position inside a diverged token reports the token's raw start
// when it sits in the first half of the rendered text (ties go to the start)
// and the raw end otherwise. Nodes outside root report the total raw length.
func ToRaw(root, node *Node, offset int) int {
	if root == nil {
		return 0
	}
	if tok := TokenAncestor(root, node); tok != nil && tok.Diverged() {
		start, ok := rawStartOf(root, tok)
		if !ok {
			return root.RawLen()
		}
		rendered := RenderedOffset(tok, Point{Node: node, Offset: offset})
		if rendered*2 <= tok.RenderedLen() {
			return start
		}
		return start + tok.Token.RawLen()
	}

	acc := 0
	found := false
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if n == node {
			switch n.Kind {
			case KindText:
				acc += clampInt(offset, 0, utf8.RuneCountInString(n.Text))
			case KindElement:
				limit := clampInt(offset, 0, len(n.Children))
				for _, c := range n.Children[:limit] {
					acc += c.RawLen()
				}
			}
			found = true
			return true
		}
		if n.Kind != KindElement || (n.Token != nil && !n.Contains(node)) {
			acc += n.RawLen()
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
		return root.RawLen()
	}
	return acc
}

// rawStartOf sums the raw length of everything before target.
func rawStartOf(root, target *Node) (int, bool) {
	acc := 0
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if n == target {
			return true
		}
		if n.Kind != KindElement || (n.Token != nil && !n.Contains(target)) {
			acc += n.RawLen()
			return false
		}
		for _, c := range n.Children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	return acc, walk(root)
}

func tokenEdge(tok *Node, end bool) Point {
	leaves := Leaves(tok)
	if len(leaves) == 0 {
		if end {
			return Point{Node: tok, Offset: len(tok.Children)}
		}
		return Point{Node: tok, Offset: 0}
	}
	if end {
		last := leaves[len(leaves)-1]
		return Point{Node: last, Offset: utf8.RuneCountInString(last.Text)}
	}
	return Point{Node: leaves[0], Offset: 0}
}

// endPoint is the fallback for offsets past the end: the end of the last
// token's rendered text, else the end of the last plain text.
func endPoint(root *Node) Point {
	var lastToken *Node
	Walk(root, func(n *Node) bool {
		if n.Token != nil {
			lastToken = n
			return false
		}
		return true
	})
	if lastToken != nil {
		return tokenEdge(lastToken, true)
	}
	leaves := Leaves(root)
	if len(leaves) > 0 {
		last := leaves[len(leaves)-1]
		return Point{Node: last, Offset: utf8.RuneCountInString(last.Text)}
	}
	return Point{Node: root, Offset: len(root.Children)}
}
