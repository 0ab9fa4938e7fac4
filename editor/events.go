package editor

import (
	"github.com/iw2rmb/tokenweave/buffer"
	"github.com/iw2rmb/tokenweave/engine"
)

// ChangeEvent is passed to Config.OnChange.
type ChangeEvent struct {
	Version   uint64
	Value     string
	Selection buffer.Range
	// Caret is the row and column of the selection focus.
	Caret buffer.Pos
	Lines int
	State engine.State
}

func buildChangeEvent(e *engine.Engine) ChangeEvent {
	b := e.Buffer()
	caret, _ := b.PosFromOffset(e.Selection().End, buffer.OffsetClamp)
	return ChangeEvent{
		Version:   b.Version(),
		Value:     e.Value(),
		Selection: e.Selection(),
		Caret:     caret,
		Lines:     b.LineCount(),
		State:     e.State(),
	}
}

// RunMsg runs Fn on the editor's update loop. Plugins that resolve token
// data in the background deliver their results with it.
type RunMsg struct {
	Fn func()
}
