package engine

import (
	"github.com/iw2rmb/tokenweave/buffer"
	"github.com/iw2rmb/tokenweave/internal/grapheme"
	"github.com/iw2rmb/tokenweave/vtree"
	"github.com/iw2rmb/tokenweave/weave"
)

// Selection returns the raw selection with its direction preserved.
func (e *Engine) Selection() buffer.Range { return e.buf.Selection() }

// SetSelection selects [start, end). A negative end places a collapsed caret
// at start. Both ends are clamped and snapped outward to grapheme
// boundaries, then written to the native selection.
func (e *Engine) SetSelection(start, end int) {
	if end < 0 {
		end = start
	}
	value := e.buf.Text()
	r := buffer.Range{Start: start, End: end}.Clamp(e.buf.Len())
	switch {
	case r.Start == r.End:
		r.Start = grapheme.SnapStart(value, r.Start)
		r.End = r.Start
	case r.Start < r.End:
		r.Start = grapheme.SnapStart(value, r.Start)
		r.End = grapheme.SnapEnd(value, r.End)
	default:
		r.Start = grapheme.SnapEnd(value, r.Start)
		r.End = grapheme.SnapStart(value, r.End)
	}
	e.pending.clear()
	e.buf.SetSelection(r)
	e.refreshActive()
	e.applySelection(r)
}

// SelectionChange re-reads the native selection. Hosts call it whenever the
// native selection moves. Echoes of selections the engine wrote itself are
// ignored. After an arrow key, a caret or focus that lands strictly inside a
// diverged token is moved to the token edge in the direction of travel.
func (e *Engine) SelectionChange() {
	if e.comp.active || e.surface == nil {
		return
	}
	native, ok := e.surface.Selection()
	if !ok {
		return
	}
	if exp := e.expected; exp != nil {
		e.expected = nil
		if *exp == native {
			return
		}
	}

	r := e.rawSelection(native)
	if nav := e.arrow; nav.ok {
		e.arrow = arrowNav{}
		if snapped, changed := e.snapArrow(native, r, nav); changed {
			r = snapped
			e.applySelection(r)
		}
	}
	e.pending.clear()
	e.buf.SetSelection(r)
	e.refreshActive()
}

// snapArrow moves the focus (and the anchor too when collapsed) out of a
// diverged token's interior.
func (e *Engine) snapArrow(native vtree.Selection, r buffer.Range, nav arrowNav) (buffer.Range, bool) {
	edge, ok := e.interiorEdge(native.Focus, nav.towardEnd())
	if !ok {
		return r, false
	}
	if native.Collapsed() {
		return buffer.Caret(edge), true
	}
	return buffer.Range{Start: r.Start, End: edge}, true
}

// interiorEdge reports the raw edge of the diverged token whose rendered
// interior contains p.
func (e *Engine) interiorEdge(p vtree.Point, toEnd bool) (int, bool) {
	tok := vtree.TokenAncestor(e.woven.Root, p.Node)
	if tok == nil || !tok.Diverged() {
		return 0, false
	}
	rel := vtree.RenderedOffset(tok, p)
	if rel <= 0 || rel >= tok.RenderedLen() {
		return 0, false
	}
	if toEnd {
		return tok.Token.RawEnd, true
	}
	return tok.Token.RawStart, true
}

// currentRange is the selection an event should act on: the pending caret of
// a just-made edit, else the native selection, else the stored one.
func (e *Engine) currentRange() buffer.Range {
	if r, ok := e.pending.get(e.now()); ok {
		return r
	}
	if r, ok := e.readNative(); ok {
		return r
	}
	return e.buf.Selection()
}

// eventRange prefers the pending caret, then the event's target range.
func (e *Engine) eventRange(ev InputEvent) buffer.Range {
	if r, ok := e.pending.get(e.now()); ok {
		return r
	}
	if ev.TargetRange != nil {
		return e.rawRange(*ev.TargetRange)
	}
	return e.currentRange()
}

func (e *Engine) readNative() (buffer.Range, bool) {
	if e.surface == nil || !e.surface.Attached() {
		return buffer.Range{}, false
	}
	native, ok := e.surface.Selection()
	if !ok {
		return buffer.Range{}, false
	}
	return e.rawSelection(native), true
}

func (e *Engine) rawSelection(sel vtree.Selection) buffer.Range {
	return buffer.Range{
		Start: e.rawOffset(sel.Anchor),
		End:   e.rawOffset(sel.Focus),
	}.Clamp(e.buf.Len())
}

func (e *Engine) rawRange(r vtree.Range) buffer.Range {
	return buffer.Range{
		Start: e.rawOffset(r.Start),
		End:   e.rawOffset(r.End),
	}.Clamp(e.buf.Len()).Normalized()
}

func (e *Engine) rawOffset(p vtree.Point) int {
	if p.Node == nil {
		return e.buf.Len()
	}
	return vtree.ToRaw(e.woven.Root, p.Node, p.Offset)
}

// applySelection writes r to the native selection if the surface is still
// attached.
func (e *Engine) applySelection(r buffer.Range) {
	if e.surface == nil || !e.surface.Attached() {
		return
	}
	sel := vtree.Selection{
		Anchor: vtree.ToVisual(e.woven.Root, r.Start),
		Focus:  vtree.ToVisual(e.woven.Root, r.End),
	}
	e.expected = &sel
	e.surface.Select(sel)
}

func (e *Engine) refreshActive() {
	if e.woven.Stale {
		return
	}
	sel := e.buf.Selection()
	e.woven.Active, e.woven.ActiveState = weave.Active(e.woven.Nodes, sel.Start, sel.End)
}
