package buffer

import "time"

// EditKind classifies edits for session coalescing.
type EditKind uint8

const (
	EditInsert EditKind = iota + 1
	EditDelete
)

func (k EditKind) String() string {
	switch k {
	case EditInsert:
		return "insert"
	case EditDelete:
		return "delete"
	default:
		return "none"
	}
}

// Snapshot is one undo entry.
type Snapshot struct {
	Text      string
	Selection Range
}

type editSession struct {
	kind EditKind
	last time.Time
}

type historyState struct {
	undo    []Snapshot
	redo    []Snapshot
	session *editSession
}

func (b *Buffer) snapshot() Snapshot {
	return Snapshot{Text: string(b.runes), Selection: b.sel}
}

func (b *Buffer) restore(s Snapshot) {
	b.runes = []rune(s.Text)
	b.sel = s.Selection.Clamp(len(b.runes))
}

// BeginEditSession opens or refreshes an edit session of kind at now. A
// session of another kind, or one idle for longer than the idle timeout, is
// closed first. Opening a session pushes a snapshot of the current state;
// it reports whether it did.
func (b *Buffer) BeginEditSession(kind EditKind, now time.Time) bool {
	if s := b.hist.session; s != nil {
		if s.kind != kind || now.Sub(s.last) > b.opt.IdleTimeout {
			b.hist.session = nil
		}
	}
	pushed := false
	if b.hist.session == nil {
		b.PushSnapshot()
		pushed = true
		b.hist.session = &editSession{kind: kind}
	}
	b.hist.session.last = now
	return pushed
}

// EndEditSession closes the open session, if any.
func (b *Buffer) EndEditSession() {
	b.hist.session = nil
}

// Session returns the kind of the open session. Sessions idle at now for
// longer than the idle timeout count as closed.
func (b *Buffer) Session(now time.Time) (EditKind, bool) {
	s := b.hist.session
	if s == nil || now.Sub(s.last) > b.opt.IdleTimeout {
		return 0, false
	}
	return s.kind, true
}

// PushSnapshot records the current state as an undo step and clears redo.
func (b *Buffer) PushSnapshot() {
	limit := b.opt.HistoryLimit
	if limit <= 0 {
		return
	}
	b.hist.undo = pushBounded(b.hist.undo, b.snapshot(), limit)
	b.hist.redo = nil
}

func pushBounded(stack []Snapshot, s Snapshot, limit int) []Snapshot {
	if limit <= 0 {
		return stack
	}
	stack = append(stack, s)
	if len(stack) > limit {
		stack = append(stack[:0:0], stack[len(stack)-limit:]...)
	}
	return stack
}

func (b *Buffer) CanUndo() bool { return len(b.hist.undo) > 0 }

func (b *Buffer) CanRedo() bool { return len(b.hist.redo) > 0 }

// UndoDepth returns the number of undo steps available.
func (b *Buffer) UndoDepth() int { return len(b.hist.undo) }

// Undo restores the most recent snapshot and pushes the current state onto
// the redo stack. It closes the open session.
func (b *Buffer) Undo() bool {
	b.hist.session = nil
	if len(b.hist.undo) == 0 {
		return false
	}

	cur := b.snapshot()
	change := b.startChange(ChangeSourceHistory)

	i := len(b.hist.undo) - 1
	prev := b.hist.undo[i]
	b.hist.undo = b.hist.undo[:i]
	b.hist.redo = pushBounded(b.hist.redo, cur, b.opt.HistoryLimit)

	b.restore(prev)
	b.version++
	edit, _ := diffEdit([]rune(cur.Text), b.runes)
	b.finish(change, edit)
	return true
}

// Redo mirrors Undo.
func (b *Buffer) Redo() bool {
	b.hist.session = nil
	if len(b.hist.redo) == 0 {
		return false
	}

	cur := b.snapshot()
	change := b.startChange(ChangeSourceHistory)

	i := len(b.hist.redo) - 1
	next := b.hist.redo[i]
	b.hist.redo = b.hist.redo[:i]
	if b.opt.HistoryLimit > 0 {
		b.hist.undo = pushBounded(b.hist.undo, cur, b.opt.HistoryLimit)
	}

	b.restore(next)
	b.version++
	edit, _ := diffEdit([]rune(cur.Text), b.runes)
	b.finish(change, edit)
	return true
}
