package engine

import (
	"strings"

	"github.com/iw2rmb/tokenweave/buffer"
)

// Copy writes the raw text of the selection to the clipboard.
func (e *Engine) Copy() bool {
	if e.clip == nil {
		return false
	}
	r := e.currentRange().Normalized()
	if r.IsEmpty() {
		return false
	}
	if err := e.clip.WriteText(e.buf.Slice(r.Start, r.End)); err != nil {
		e.log.Error().Err(err).Msg("cannot write clipboard")
		return false
	}
	return true
}

// Cut copies the selection and deletes it exactly, as its own undo step.
func (e *Engine) Cut() bool {
	r := e.currentRange()
	if !e.Copy() {
		return false
	}
	e.resetMemos()
	e.deleteExact(r, commitOwn)
	return true
}

// Paste inserts text at the selection as its own undo step.
func (e *Engine) Paste(text string) bool {
	return e.paste(e.currentRange(), text)
}

// PasteClipboard reads the clipboard and pastes its text.
func (e *Engine) PasteClipboard() bool {
	if e.clip == nil {
		return false
	}
	s, err := e.clip.ReadText()
	if err != nil {
		e.log.Error().Err(err).Msg("cannot read clipboard")
		return false
	}
	return e.Paste(s)
}

func (e *Engine) paste(r buffer.Range, text string) bool {
	text = normalizeNewlines(text)
	if !e.cfg.Multiline {
		text = strings.ReplaceAll(text, "\n", " ")
	}
	if text == "" {
		return false
	}
	e.resetMemos()
	return e.commit(r, text, -1, commitOwn)
}

// normalizeNewlines converts CRLF and lone CR to LF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
