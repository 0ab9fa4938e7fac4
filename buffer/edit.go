package buffer

import "unicode/utf8"

// Replace substitutes text for the normalized range r and collapses the
// selection at the end of the inserted text. It reports the new caret and
// whether the value changed. Replace does not touch history; callers open an
// edit session or push a snapshot first.
func (b *Buffer) Replace(r Range, text string) (caret int, changed bool) {
	return b.ReplaceWithCaret(r, text, -1)
}

// ReplaceWithCaret is Replace with an explicit caret. A negative caret
// selects the end of the inserted text.
func (b *Buffer) ReplaceWithCaret(r Range, text string, caret int) (int, bool) {
	change := b.startChange(ChangeSourceEdit)
	applied, changed := b.replaceRange(r, text)
	if !changed {
		return b.sel.Normalized().Start, false
	}
	if caret < 0 {
		caret = applied.RangeAfter.End
	}
	b.sel = Caret(clampInt(caret, 0, len(b.runes)))
	b.version++
	b.finish(change, applied)
	return b.sel.End, true
}

// Apply applies a sequence of text edits in order. Each edit's range is
// interpreted against the value at the time that edit is applied. The caret
// moves to the end of the last effective edit.
func (b *Buffer) Apply(edits ...TextEdit) bool {
	if len(edits) == 0 {
		return false
	}

	change := b.startChange(ChangeSourceEdit)
	var applied []AppliedEdit
	lastCaret := b.sel.End
	for _, e := range edits {
		edit, changed := b.replaceRange(e.Range, e.Text)
		if !changed {
			continue
		}
		lastCaret = edit.RangeAfter.End
		applied = append(applied, edit)
	}
	if len(applied) == 0 {
		return false
	}

	b.sel = Caret(clampInt(lastCaret, 0, len(b.runes)))
	b.version++
	b.finish(change, applied...)
	return true
}

func (b *Buffer) replaceRange(r Range, text string) (AppliedEdit, bool) {
	r = r.Clamp(len(b.runes)).Normalized()
	deleted := string(b.runes[r.Start:r.End])
	if deleted == text {
		return AppliedEdit{}, false
	}

	ins := []rune(text)
	out := make([]rune, 0, len(b.runes)-r.Len()+len(ins))
	out = append(out, b.runes[:r.Start]...)
	out = append(out, ins...)
	out = append(out, b.runes[r.End:]...)
	b.runes = out

	return AppliedEdit{
		RangeBefore: r,
		RangeAfter:  Range{Start: r.Start, End: r.Start + utf8.RuneCountInString(text)},
		InsertText:  text,
		DeletedText: deleted,
	}, true
}
