package engine

// Undo restores the most recent undo snapshot. The snapshot's selection is
// written to the surface once the restored value has rendered.
func (e *Engine) Undo() bool {
	e.resetMemos()
	if !e.buf.Undo() {
		return false
	}
	e.log.Debug().Int("depth", e.buf.UndoDepth()).Msg("undo")
	e.afterChange()
	return true
}

// Redo mirrors Undo.
func (e *Engine) Redo() bool {
	e.resetMemos()
	if !e.buf.Redo() {
		return false
	}
	e.log.Debug().Int("depth", e.buf.UndoDepth()).Msg("redo")
	e.afterChange()
	return true
}

func (e *Engine) CanUndo() bool { return e.buf.CanUndo() }

func (e *Engine) CanRedo() bool { return e.buf.CanRedo() }
