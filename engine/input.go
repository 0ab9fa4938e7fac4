package engine

import (
	"strings"
	"time"

	"github.com/iw2rmb/tokenweave/buffer"
	"github.com/iw2rmb/tokenweave/internal/grapheme"
	"github.com/iw2rmb/tokenweave/weave"
)

// KeyDown handles a keystroke before the surface acts on it. It returns true
// when the default action must be prevented.
func (e *Engine) KeyDown(ev KeyEvent) bool {
	now := e.now()
	if e.postComp.takeKey(ev, now) {
		e.log.Debug().Str("key", ev.Key).Msg("suppressed post-composition commit key")
		return true
	}
	if e.comp.active || ev.IsComposing {
		return false
	}
	if e.cfg.OnKeyDown != nil && e.cfg.OnKeyDown(ev) {
		return true
	}

	mod := ev.Ctrl || ev.Meta
	switch {
	case mod && !ev.Shift && strings.EqualFold(ev.Key, "z"):
		e.Undo()
		return true
	case mod && ev.Shift && strings.EqualFold(ev.Key, "z"),
		ev.Ctrl && strings.EqualFold(ev.Key, "y"):
		e.Redo()
		return true
	case isArrow(ev.Key):
		e.buf.EndEditSession()
		e.pending.clear()
		e.arrow = arrowNav{key: ev.Key, shift: ev.Shift, ok: true}
		return false
	case isNavigation(ev.Key):
		e.buf.EndEditSession()
		e.pending.clear()
		e.arrow = arrowNav{}
		return false
	case ev.Key == KeyEnter:
		e.arrow = arrowNav{}
		return !e.cfg.Multiline
	case isModifier(ev.Key) || mod || ev.Alt:
		e.buf.EndEditSession()
		return false
	}
	e.arrow = arrowNav{}
	return false
}

// BeforeInput handles an edit intent before the surface applies it. It
// returns true when the engine took over the edit (the default action must
// be prevented).
func (e *Engine) BeforeInput(ev InputEvent) bool {
	if e.comp.active {
		// Line breaks are deferred to the commit key; everything else is
		// rendered natively until the composition ends.
		return ev.Type == InsertParagraph || ev.Type == InsertLineBreak
	}
	if e.postComp.takeInput(e.now()) {
		e.log.Debug().Str("type", string(ev.Type)).Msg("suppressed post-composition input")
		return true
	}

	switch ev.Type {
	case InsertText:
		e.insertText(e.eventRange(ev), ev.payload())
	case InsertReplacementText:
		e.replaceText(ev)
	case InsertParagraph, InsertLineBreak:
		e.insertNewline(e.eventRange(ev))
	case InsertFromPaste, InsertFromDrop:
		e.paste(e.eventRange(ev), ev.payload())
	case DeleteContentBackward:
		e.deleteBackward(ev)
	case DeleteContentForward:
		e.deleteForward()
	case DeleteWordBackward:
		e.deleteBy(e.currentRange(), buffer.MoveWord, buffer.DirLeft)
	case DeleteWordForward:
		e.deleteBy(e.currentRange(), buffer.MoveWord, buffer.DirRight)
	case DeleteSoftLineBackward, DeleteHardLineBackward:
		e.deleteBy(e.currentRange(), buffer.MoveLine, buffer.DirLeft)
	case DeleteSoftLineForward, DeleteHardLineForward:
		e.deleteBy(e.currentRange(), buffer.MoveLine, buffer.DirRight)
	case DeleteByCut:
		e.deleteExact(e.currentRange(), commitOwn)
	case HistoryUndo:
		e.Undo()
	case HistoryRedo:
		e.Redo()
	default:
		return false
	}
	return true
}

// ReplaceRange replaces [start, end) with text as one undo step and places
// the caret at the end of text.
func (e *Engine) ReplaceRange(start, end int, text string) bool {
	e.resetMemos()
	return e.commit(buffer.Range{Start: start, End: end}, text, -1, commitOwn)
}

func (e *Engine) insertText(r buffer.Range, text string) {
	now := e.now()
	value := []rune(e.buf.Text())
	r = r.Clamp(len(value)).Normalized()
	window := e.cfg.SwipeWindow

	if text == " " {
		switch {
		case r.IsEmpty() && e.swipe.valid(value, now) && r.Start == e.swipe.end:
			e.swipe.extend(now, window)
		case r.IsEmpty() && atLineStart(value, r.Start):
			e.swipe.clear()
			e.space.remember(r.Start, now, window)
		default:
			e.swipe.clear()
			e.space.clear()
		}
		e.commit(r, text, -1, commitInsert)
		return
	}

	if runeLen(text) < 2 {
		e.swipe.clear()
		e.space.clear()
		e.commit(r, text, -1, commitInsert)
		return
	}

	if r.IsEmpty() && e.space.precedes(value, r.Start, now) {
		r.Start--
		e.log.Debug().Int("at", r.Start).Msg("dropped lone space before word at line start")
	}
	e.space.clear()
	switch {
	case atLineStart(value, r.Start):
		text = strings.TrimLeft(text, " ")
	case value[r.Start-1] == ' ' && strings.HasPrefix(text, " "):
		text = text[1:]
	}
	if text == "" && r.IsEmpty() {
		return
	}
	if e.commit(r, text, -1, commitInsert) && runeLen(text) > 1 {
		e.swipe.remember(r.Start, text, now, window)
	}
}

// replaceText applies a platform replacement (autocorrect, prediction) to
// its target range in one step.
func (e *Engine) replaceText(ev InputEvent) {
	r := e.currentRange()
	if ev.TargetRange != nil {
		r = e.rawRange(*ev.TargetRange)
	}
	e.resetMemos()
	e.commit(r, ev.payload(), -1, commitInsert)
}

func (e *Engine) insertNewline(r buffer.Range) {
	if !e.cfg.Multiline {
		return
	}
	e.resetMemos()
	e.commit(r, "\n", -1, commitOwn)
}

func (e *Engine) deleteBackward(ev InputEvent) {
	now := e.now()
	r := e.currentRange()
	if !r.IsEmpty() {
		e.swipe.clear()
		e.deleteExact(r, commitDelete)
		return
	}

	caret := r.Start
	if e.swipeDelete(ev, caret, now) {
		return
	}
	e.swipe.clear()
	e.space.clear()
	if caret == 0 {
		return
	}
	start := grapheme.PrevStart(e.buf.Text(), caret)
	if _, ok := weave.TokenBefore(e.woven.Nodes, caret); ok {
		start = caret - 1
	}
	e.commit(buffer.Range{Start: start, End: caret}, "", start, commitDelete)
}

// swipeDelete widens a backspace whose target ends where the last
// multi-character insert ended to cover that whole insert.
func (e *Engine) swipeDelete(ev InputEvent, caret int, now time.Time) bool {
	if !e.swipe.valid([]rune(e.buf.Text()), now) {
		return false
	}
	end := caret
	if ev.TargetRange != nil {
		end = e.rawRange(*ev.TargetRange).End
	}
	r, ok := e.swipe.widened(end)
	if !ok {
		return false
	}
	e.swipe.clear()
	e.log.Debug().Int("start", r.Start).Int("end", r.End).Msg("widened delete to swiped word")
	return e.commit(r, "", r.Start, commitDelete)
}

func (e *Engine) deleteForward() {
	r := e.currentRange()
	e.swipe.clear()
	e.space.clear()
	if !r.IsEmpty() {
		e.deleteExact(r, commitDelete)
		return
	}
	caret := r.Start
	if caret >= e.buf.Len() {
		return
	}
	end := grapheme.NextEnd(e.buf.Text(), caret)
	if _, ok := weave.TokenAfter(e.woven.Nodes, caret); ok {
		end = caret + 1
	}
	e.commit(buffer.Range{Start: caret, End: end}, "", caret, commitDelete)
}

// deleteExact deletes a range selection. Ranges touching a token are deleted
// verbatim; others are widened to grapheme boundaries.
func (e *Engine) deleteExact(r buffer.Range, kind commitKind) {
	r = r.Clamp(e.buf.Len()).Normalized()
	if r.IsEmpty() {
		return
	}
	if !weave.Intersects(e.woven.Nodes, r.Start, r.End) {
		value := e.buf.Text()
		r.Start = grapheme.SnapStart(value, r.Start)
		r.End = grapheme.SnapEnd(value, r.End)
	}
	e.commit(r, "", r.Start, kind)
}

// deleteBy deletes from the caret to the next word or line boundary. A
// boundary inside a token moves outward so the token goes as a whole.
func (e *Engine) deleteBy(r buffer.Range, unit buffer.MoveUnit, dir buffer.MoveDir) {
	e.swipe.clear()
	e.space.clear()
	if !r.IsEmpty() {
		e.deleteExact(r, commitDelete)
		return
	}
	caret := r.Start
	target := e.buf.Boundary(caret, unit, dir)
	if tok, ok := weave.TokenAt(e.woven.Nodes, target); ok {
		if dir == buffer.DirLeft {
			target = tok.RawStart
		} else {
			target = tok.RawEnd
		}
	}
	del := buffer.Range{Start: target, End: caret}.Normalized()
	if del.IsEmpty() {
		return
	}
	e.commit(del, "", del.Start, commitDelete)
}

func atLineStart(value []rune, off int) bool {
	return off == 0 || value[off-1] == '\n'
}
