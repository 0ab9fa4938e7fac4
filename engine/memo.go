package engine

import (
	"time"

	"github.com/iw2rmb/tokenweave/buffer"
)

// The memos below carry state from one event to the next. Each one has an
// explicit expiry and is read through a method taking the current time.

// pendingSelection is the caret an edit intends while the native selection
// has not been restored yet.
type pendingSelection struct {
	r       buffer.Range
	expires time.Time
	ok      bool
}

func (p *pendingSelection) set(r buffer.Range, now time.Time, ttl time.Duration) {
	*p = pendingSelection{r: r, expires: now.Add(ttl), ok: true}
}

func (p *pendingSelection) get(now time.Time) (buffer.Range, bool) {
	if !p.ok || now.After(p.expires) {
		return buffer.Range{}, false
	}
	return p.r, true
}

func (p *pendingSelection) clear() { *p = pendingSelection{} }

// swipeMemo remembers the most recent multi-character insert.
type swipeMemo struct {
	start   int
	end     int
	text    string
	expires time.Time
	ok      bool
}

func (s *swipeMemo) remember(start int, text string, now time.Time, window time.Duration) {
	*s = swipeMemo{
		start:   start,
		end:     start + runeLen(text),
		text:    text,
		expires: now.Add(window),
		ok:      true,
	}
}

// extend appends a lone space typed right after the remembered insert.
func (s *swipeMemo) extend(now time.Time, window time.Duration) {
	s.end++
	s.text += " "
	s.expires = now.Add(window)
}

// valid reports whether the memo is live at now and still describes value.
func (s *swipeMemo) valid(value []rune, now time.Time) bool {
	if !s.ok || now.After(s.expires) {
		return false
	}
	if s.start < 0 || s.end > len(value) || s.start > s.end {
		return false
	}
	return string(value[s.start:s.end]) == s.text
}

// widened returns the range a delete ending at end should cover, keeping a
// single leading space of the remembered text.
func (s *swipeMemo) widened(end int) (buffer.Range, bool) {
	if end != s.end || s.end-s.start < 2 {
		return buffer.Range{}, false
	}
	start := s.start
	if s.text[0] == ' ' {
		start++
	}
	return buffer.Range{Start: start, End: s.end}, true
}

func (s *swipeMemo) clear() { *s = swipeMemo{} }

// loneSpace remembers a single space typed at the start of a line.
type loneSpace struct {
	pos     int
	expires time.Time
	ok      bool
}

func (l *loneSpace) remember(pos int, now time.Time, window time.Duration) {
	*l = loneSpace{pos: pos, expires: now.Add(window), ok: true}
}

// precedes reports whether the remembered space sits right before off.
func (l *loneSpace) precedes(value []rune, off int, now time.Time) bool {
	if !l.ok || now.After(l.expires) {
		return false
	}
	return l.pos+1 == off && l.pos < len(value) && value[l.pos] == ' '
}

func (l *loneSpace) clear() { *l = loneSpace{} }

// postComposition swallows the redundant events some platforms fire right
// after a composition ends: one input event and one commit keystroke.
type postComposition struct {
	input   bool
	key     bool
	expires time.Time
}

func (p *postComposition) arm(now time.Time, guard time.Duration) {
	*p = postComposition{input: true, key: true, expires: now.Add(guard)}
}

// takeInput reports whether an input event at now is the redundant one.
func (p *postComposition) takeInput(now time.Time) bool {
	if !p.input {
		return false
	}
	p.input = false
	return !now.After(p.expires)
}

// takeKey reports whether the commit keystroke ev is the redundant one. A
// keystroke still flagged as composing is swallowed regardless of timing.
func (p *postComposition) takeKey(ev KeyEvent, now time.Time) bool {
	if !p.key || (ev.Key != KeySpace && ev.Key != KeyEnter) {
		return false
	}
	p.key = false
	return ev.IsComposing || !now.After(p.expires)
}

// arrowNav records the arrow key whose selection change has not been seen
// yet.
type arrowNav struct {
	key   string
	shift bool
	ok    bool
}

// towardEnd reports whether the arrow moves toward the end of the value.
func (a arrowNav) towardEnd() bool {
	return a.key == KeyArrowRight || a.key == KeyArrowDown
}

// composition is the snapshot taken when a composition starts.
type composition struct {
	active   bool
	value    string
	sel      buffer.Range
	rendered string
	data     string
}

func runeLen(s string) int { return len([]rune(s)) }
