package editor

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	graphemeutil "github.com/iw2rmb/tokenweave/internal/grapheme"
	"github.com/iw2rmb/tokenweave/vtree"
)

// cell is one rendered grapheme.
type cell struct {
	node *vtree.Node
	off  int // rune offset of the grapheme in node
	text string
	runes int
	width int

	row, col int
	// token is the rendered unit of the token the grapheme belongs to.
	token *vtree.Node
	// tags lists the element tags from the root down, the root excluded.
	tags []string
}

func (c cell) newline() bool { return c.text == "\n" }

// layout flattens a visual tree into rows of cells. Caret positions are cell
// indexes: position i sits before cells[i], and len(cells) is the end.
type layout struct {
	root  *vtree.Node
	cells []cell
	// rowStart[r] is the first position on row r.
	rowStart []int
	tabWidth int
}

func buildLayout(root *vtree.Node, tabWidth int) layout {
	l := layout{root: root, rowStart: []int{0}, tabWidth: tabWidth}
	if root == nil {
		return l
	}
	row, col := 0, 0
	var walk func(n *vtree.Node, token *vtree.Node, tags []string)
	walk = func(n *vtree.Node, token *vtree.Node, tags []string) {
		switch n.Kind {
		case vtree.KindText:
			off := 0
			for _, g := range graphemeutil.Split(n.Text) {
				c := cell{
					node:  n,
					off:   off,
					text:  g,
					runes: utf8.RuneCountInString(g),
					row:   row,
					col:   col,
					token: token,
					tags:  tags,
				}
				if g == "\n" {
					l.cells = append(l.cells, c)
					row, col = row+1, 0
					l.rowStart = append(l.rowStart, len(l.cells))
				} else {
					c.width = cellWidth(g, col, tabWidth)
					l.cells = append(l.cells, c)
					col += c.width
				}
				off += c.runes
			}
			return
		case vtree.KindBreak:
			return
		}
		if n != root {
			tags = append(tags[:len(tags):len(tags)], n.Tag)
		}
		if n.Token != nil && token == nil {
			token = n
		}
		for _, c := range n.Children {
			walk(c, token, tags)
		}
	}
	walk(root, nil, nil)
	return l
}

func cellWidth(g string, col, tabWidth int) int {
	if g == "\t" {
		if tabWidth <= 0 {
			tabWidth = 4
		}
		return tabWidth - col%tabWidth
	}
	w := runewidth.StringWidth(g)
	if w == 0 {
		w = uniseg.StringWidth(g)
	}
	return w
}

func (l layout) end() int { return len(l.cells) }

func (l layout) rows() int { return len(l.rowStart) }

// rowOf returns the row of position i.
func (l layout) rowOf(i int) int {
	r := 0
	for r+1 < len(l.rowStart) && l.rowStart[r+1] <= i {
		r++
	}
	return r
}

// colOf returns the screen column of position i.
func (l layout) colOf(i int) int {
	if i < len(l.cells) {
		return l.cells[i].col
	}
	if len(l.cells) == 0 {
		return 0
	}
	last := l.cells[len(l.cells)-1]
	if last.newline() {
		return 0
	}
	return last.col + last.width
}

// rowEnd returns the last position on row r (before its newline).
func (l layout) rowEnd(r int) int {
	if r+1 < len(l.rowStart) {
		return l.rowStart[r+1] - 1
	}
	return len(l.cells)
}

// point converts position i into a tree point.
func (l layout) point(i int) vtree.Point {
	if i < 0 {
		i = 0
	}
	if i < len(l.cells) {
		c := l.cells[i]
		return vtree.Point{Node: c.node, Offset: c.off}
	}
	if len(l.cells) == 0 {
		if l.root == nil {
			return vtree.Point{}
		}
		return vtree.Point{Node: l.root, Offset: len(l.root.Children)}
	}
	c := l.cells[len(l.cells)-1]
	return vtree.Point{Node: c.node, Offset: c.off + c.runes}
}

// position converts a tree point into a position. Points inside a grapheme
// round down to its start.
func (l layout) position(p vtree.Point) int {
	if p.Node == nil {
		return len(l.cells)
	}
	if p.Node.Kind != vtree.KindText {
		// An element point precedes its child at Offset.
		if p.Offset < len(p.Node.Children) {
			first := vtree.Leaves(p.Node.Children[p.Offset])
			if len(first) > 0 {
				return l.position(vtree.Point{Node: first[0], Offset: 0})
			}
		}
		leaves := vtree.Leaves(p.Node)
		if len(leaves) == 0 {
			return len(l.cells)
		}
		last := leaves[len(leaves)-1]
		return l.position(vtree.Point{Node: last, Offset: utf8.RuneCountInString(last.Text)})
	}
	found := -1
	for i, c := range l.cells {
		if c.node != p.Node {
			if found >= 0 {
				break
			}
			continue
		}
		found = i
		if p.Offset < c.off+c.runes {
			return i
		}
	}
	if found >= 0 {
		return found + 1
	}
	return len(l.cells)
}

// at returns the position at screen coordinates, clamped to the content.
func (l layout) at(row, col int) int {
	if len(l.rowStart) == 0 {
		return 0
	}
	row = clampInt(row, 0, len(l.rowStart)-1)
	i := l.rowStart[row]
	end := l.rowEnd(row)
	for i < end {
		c := l.cells[i]
		if col < c.col+(c.width+1)/2 {
			return i
		}
		i++
	}
	return end
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
