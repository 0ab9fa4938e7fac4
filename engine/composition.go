package engine

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/iw2rmb/tokenweave/buffer"
)

// CompositionStart snapshots the value and selection. Until the composition
// ends the surface renders the composing text itself.
func (e *Engine) CompositionStart() {
	r := e.currentRange().Normalized()
	e.comp = composition{
		active: true,
		value:  e.buf.Text(),
		sel:    r,
	}
	if e.surface != nil {
		e.comp.rendered = e.surface.Text()
	}
	e.swipe.clear()
	e.space.clear()
	e.pending.clear()
}

// CompositionUpdate records the latest composing text.
func (e *Engine) CompositionUpdate(data string) {
	if e.comp.active {
		e.comp.data = data
	}
}

// Composing reports whether a composition is in progress.
func (e *Engine) Composing() bool { return e.comp.active }

// CompositionEnd splices the committed text into the snapshotted value at
// the snapshotted selection. When data is empty the committed text is
// recovered by diffing the surface text against the text it showed when the
// composition started.
func (e *Engine) CompositionEnd(data string) {
	if !e.comp.active {
		return
	}
	c := e.comp
	e.comp = composition{}

	committed := data
	if committed == "" && e.surface != nil {
		committed = e.insertedText(c.rendered, e.surface.Text())
		e.log.Debug().Str("text", committed).Msg("recovered composition text from surface")
	}
	if committed == "" {
		committed = c.data
	}
	e.postComp.arm(e.now(), e.cfg.CompositionGuard)
	if committed == "" {
		// Nothing committed: redraw to drop any native leftovers.
		e.Render()
		e.scheduleRestore()
		return
	}

	caret := c.sel.Start + runeLen(committed)
	r := c.sel
	if e.buf.Text() != c.value {
		// The value moved under the composition: splice into the snapshot
		// and replace the whole value.
		v := []rune(c.value)
		sel := c.sel.Clamp(len(v))
		spliced := string(v[:sel.Start]) + committed + string(v[sel.End:])
		r = buffer.Range{Start: 0, End: e.buf.Len()}
		committed = spliced
	}
	e.commit(r, committed, caret, commitInsert)
}

// insertedText concatenates the insertions that turn before into after.
func (e *Engine) insertedText(before, after string) string {
	diffs := e.dmp.DiffMain(before, after, false)
	var sb strings.Builder
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffInsert {
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}
