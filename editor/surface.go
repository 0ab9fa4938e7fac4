package editor

import (
	graphemeutil "github.com/iw2rmb/tokenweave/internal/grapheme"

	"github.com/iw2rmb/tokenweave/engine"
	"github.com/iw2rmb/tokenweave/vtree"
)

// surface is the terminal rendition of the editable surface. It owns the
// native selection, moves it the way a text field would, and reports it back
// to the engine as tree points.
type surface struct {
	lay      layout
	tabWidth int

	anchor, focus int
	hasSel        bool
	attached      bool

	// goalCol keeps the column across vertical moves. -1 when unset.
	goalCol  int
	dragging bool
}

var (
	_ engine.Surface  = (*surface)(nil)
	_ engine.Measurer = (*surface)(nil)
)

func newSurface(tabWidth int) *surface {
	return &surface{tabWidth: tabWidth, attached: true, goalCol: -1}
}

func (s *surface) Draw(root *vtree.Node) {
	s.lay = buildLayout(root, s.tabWidth)
	s.anchor = clampInt(s.anchor, 0, s.lay.end())
	s.focus = clampInt(s.focus, 0, s.lay.end())
}

func (s *surface) Attached() bool { return s.attached }

func (s *surface) Text() string { return vtree.TextContent(s.lay.root) }

func (s *surface) Selection() (vtree.Selection, bool) {
	if !s.hasSel {
		return vtree.Selection{}, false
	}
	return vtree.Selection{Anchor: s.lay.point(s.anchor), Focus: s.lay.point(s.focus)}, true
}

func (s *surface) Select(sel vtree.Selection) {
	s.anchor = s.lay.position(sel.Anchor)
	s.focus = s.lay.position(sel.Focus)
	s.hasSel = true
}

func (s *surface) RectAt(p vtree.Point) (engine.Rect, bool) {
	if s.lay.root == nil {
		return engine.Rect{}, false
	}
	i := s.lay.position(p)
	return engine.Rect{X: s.lay.colOf(i), Y: s.lay.rowOf(i), Width: 1, Height: 1}, true
}

func (s *surface) RootRect() (engine.Rect, bool) {
	if s.lay.root == nil {
		return engine.Rect{}, false
	}
	w := 0
	for r := 0; r < s.lay.rows(); r++ {
		w = max(w, s.lay.colOf(s.lay.rowEnd(r)))
	}
	return engine.Rect{Width: w, Height: s.lay.rows()}, true
}

func (s *surface) collapsed() bool { return s.anchor == s.focus }

// span returns the selected positions in order.
func (s *surface) span() (int, int) {
	return min(s.anchor, s.focus), max(s.anchor, s.focus)
}

func (s *surface) place(i int, extend bool) {
	s.focus = clampInt(i, 0, s.lay.end())
	if !extend {
		s.anchor = s.focus
	}
	s.hasSel = true
}

// moveChar moves one grapheme. Without extend a non-empty selection
// collapses to the side of travel.
func (s *surface) moveChar(dir int, extend bool) {
	s.goalCol = -1
	if !extend && !s.collapsed() {
		lo, hi := s.span()
		if dir < 0 {
			s.place(lo, false)
		} else {
			s.place(hi, false)
		}
		return
	}
	s.place(s.focus+dir, extend)
}

// moveWord skips spaces then one run of the same character class.
func (s *surface) moveWord(dir int, extend bool) {
	s.goalCol = -1
	i := s.focus
	cells := s.lay.cells
	if dir < 0 {
		for i > 0 && graphemeutil.IsSpace(cells[i-1].text) {
			i--
		}
		if i > 0 {
			class := graphemeutil.Classify(cells[i-1].text)
			for i > 0 && graphemeutil.Classify(cells[i-1].text) == class && !cells[i-1].newline() {
				i--
			}
		}
	} else {
		for i < len(cells) && graphemeutil.IsSpace(cells[i].text) {
			i++
		}
		if i < len(cells) {
			class := graphemeutil.Classify(cells[i].text)
			for i < len(cells) && graphemeutil.Classify(cells[i].text) == class && !cells[i].newline() {
				i++
			}
		}
	}
	s.place(i, extend)
}

func (s *surface) moveLineEdge(toEnd, extend bool) {
	s.goalCol = -1
	r := s.lay.rowOf(s.focus)
	if toEnd {
		s.place(s.lay.rowEnd(r), extend)
		return
	}
	s.place(s.lay.rowStart[r], extend)
}

func (s *surface) moveVertical(dir int, extend bool) {
	if s.goalCol < 0 {
		s.goalCol = s.lay.colOf(s.focus)
	}
	r := s.lay.rowOf(s.focus) + dir
	switch {
	case r < 0:
		s.place(0, extend)
	case r >= s.lay.rows():
		s.place(s.lay.end(), extend)
	default:
		s.place(s.lay.at(r, s.goalCol), extend)
	}
}

func (s *surface) selectAll() {
	s.goalCol = -1
	s.anchor, s.focus, s.hasSel = 0, s.lay.end(), true
}
