package weave

// ActiveState compares the selection to the edges of the active span.
type ActiveState struct {
	IsCollapsed      bool
	IsAtStartOfToken bool
	IsAtEndOfToken   bool
}

// Active returns the first span that contains the selection [start, end]
// (reversed selections are normalized). Span edges are inclusive, so a caret
// on the boundary between a plain span and a following token belongs to the
// plain span.
func Active(nodes []Node, start, end int) (*Node, ActiveState) {
	if end < start {
		start, end = end, start
	}
	for i := range nodes {
		n := &nodes[i]
		if n.Kind == NodeBreak {
			continue
		}
		if n.RawStart <= start && end <= n.RawEnd {
			return n, ActiveState{
				IsCollapsed:      start == end,
				IsAtStartOfToken: start == n.RawStart,
				IsAtEndOfToken:   end == n.RawEnd,
			}
		}
	}
	return nil, ActiveState{IsCollapsed: start == end}
}

// TokenBefore returns the token whose span strictly contains the position
// just before caret: RawStart < caret <= RawEnd.
func TokenBefore(nodes []Node, caret int) (Node, bool) {
	for _, n := range nodes {
		if n.Kind == NodeToken && n.RawStart < caret && caret <= n.RawEnd {
			return n, true
		}
	}
	return Node{}, false
}

// TokenAfter returns the token whose span contains the position just after
// caret: RawStart <= caret < RawEnd.
func TokenAfter(nodes []Node, caret int) (Node, bool) {
	for _, n := range nodes {
		if n.Kind == NodeToken && n.RawStart <= caret && caret < n.RawEnd {
			return n, true
		}
	}
	return Node{}, false
}

// TokenAt returns the token strictly containing offset: RawStart < off < RawEnd.
func TokenAt(nodes []Node, off int) (Node, bool) {
	for _, n := range nodes {
		if n.Kind == NodeToken && n.RawStart < off && off < n.RawEnd {
			return n, true
		}
	}
	return Node{}, false
}

// Intersects reports whether [start, end) overlaps any token.
func Intersects(nodes []Node, start, end int) bool {
	if end < start {
		start, end = end, start
	}
	for _, n := range nodes {
		if n.Kind == NodeToken && n.RawStart < end && start < n.RawEnd {
			return true
		}
	}
	return false
}
