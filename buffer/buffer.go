package buffer

import "time"

const (
	DefaultHistoryLimit = 200
	DefaultIdleTimeout  = 800 * time.Millisecond
)

type Options struct {
	// HistoryLimit bounds the undo and redo stacks. 0 selects the default;
	// a negative limit disables history.
	HistoryLimit int
	// IdleTimeout closes an edit session when no edit of the session's kind
	// arrives within it. 0 selects the default.
	IdleTimeout time.Duration
}

// Buffer is the raw value with its selection and history.
type Buffer struct {
	runes   []rune
	version uint64
	sel     Range

	opt  Options
	hist historyState

	last *Change
}

func New(text string, opt Options) *Buffer {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = DefaultHistoryLimit
	}
	if opt.IdleTimeout <= 0 {
		opt.IdleTimeout = DefaultIdleTimeout
	}
	return &Buffer{
		runes: []rune(text),
		opt:   opt,
	}
}

func (b *Buffer) Text() string { return string(b.runes) }

// Len returns the rune length of the value.
func (b *Buffer) Len() int { return len(b.runes) }

func (b *Buffer) Version() uint64 { return b.version }

func (b *Buffer) Options() Options { return b.opt }

// Slice returns the text in [start, end) after clamping and normalizing.
func (b *Buffer) Slice(start, end int) string {
	r := Range{Start: start, End: end}.Clamp(len(b.runes)).Normalized()
	return string(b.runes[r.Start:r.End])
}

// Selection returns the selection with its direction preserved.
func (b *Buffer) Selection() Range { return b.sel }

// SetSelection clamps r into the value and stores it.
func (b *Buffer) SetSelection(r Range) {
	next := r.Clamp(len(b.runes))
	if next == b.sel {
		return
	}
	b.sel = next
	b.version++
}

// SetText replaces the whole value without recording history, clamping the
// selection into the new value. It is used for authoritative writes from
// outside the editing pipeline.
func (b *Buffer) SetText(text string) bool {
	if text == string(b.runes) {
		return false
	}
	change := b.startChange(ChangeSourceValue)
	before := b.runes
	b.runes = []rune(text)
	b.sel = b.sel.Clamp(len(b.runes))
	b.version++
	edit, _ := diffEdit(before, b.runes)
	b.finish(change, edit)
	return true
}
