package buffer

// ChangeSource identifies what produced a change.
type ChangeSource uint8

const (
	// ChangeSourceEdit is an edit made through Replace or Apply.
	ChangeSourceEdit ChangeSource = iota
	// ChangeSourceHistory is an undo or redo.
	ChangeSourceHistory
	// ChangeSourceValue is an authoritative SetText.
	ChangeSourceValue
)

func (s ChangeSource) String() string {
	switch s {
	case ChangeSourceEdit:
		return "edit"
	case ChangeSourceHistory:
		return "history"
	case ChangeSourceValue:
		return "value"
	default:
		return "unknown"
	}
}

// AppliedEdit is one effective replacement. RangeBefore indexes the value
// before the edit, RangeAfter the value after it.
type AppliedEdit struct {
	RangeBefore Range
	RangeAfter  Range
	InsertText  string
	DeletedText string
}

// Change records the most recent mutation of the value.
type Change struct {
	Source          ChangeSource
	VersionBefore   uint64
	VersionAfter    uint64
	SelectionBefore Range
	SelectionAfter  Range
	AppliedEdits    []AppliedEdit
}

// Delta is the net change in rune length.
func (c Change) Delta() int {
	n := 0
	for _, e := range c.AppliedEdits {
		n += e.RangeAfter.Len() - e.RangeBefore.Len()
	}
	return n
}

// LastChange returns the most recent effective change.
func (b *Buffer) LastChange() (Change, bool) {
	if b.last == nil {
		return Change{}, false
	}
	out := *b.last
	out.AppliedEdits = append([]AppliedEdit(nil), b.last.AppliedEdits...)
	return out, true
}

// pendingChange captures the state a mutation starts from.
type pendingChange struct {
	source  ChangeSource
	version uint64
	sel     Range
}

func (b *Buffer) startChange(source ChangeSource) pendingChange {
	return pendingChange{source: source, version: b.version, sel: b.sel}
}

// finish records the change if the version moved.
func (b *Buffer) finish(p pendingChange, edits ...AppliedEdit) {
	if b.version == p.version {
		return
	}
	for i := range edits {
		edits[i].RangeBefore = edits[i].RangeBefore.Normalized()
		edits[i].RangeAfter = edits[i].RangeAfter.Normalized()
	}
	b.last = &Change{
		Source:          p.source,
		VersionBefore:   p.version,
		VersionAfter:    b.version,
		SelectionBefore: p.sel,
		SelectionAfter:  b.sel,
		AppliedEdits:    edits,
	}
}

// diffEdit describes a whole-value replacement as the single edit covering
// the runes between the common prefix and suffix.
func diffEdit(before, after []rune) (AppliedEdit, bool) {
	pre := 0
	for pre < len(before) && pre < len(after) && before[pre] == after[pre] {
		pre++
	}
	if pre == len(before) && pre == len(after) {
		return AppliedEdit{}, false
	}
	suf := 0
	for suf < len(before)-pre && suf < len(after)-pre &&
		before[len(before)-1-suf] == after[len(after)-1-suf] {
		suf++
	}
	return AppliedEdit{
		RangeBefore: Range{Start: pre, End: len(before) - suf},
		RangeAfter:  Range{Start: pre, End: len(after) - suf},
		InsertText:  string(after[pre : len(after)-suf]),
		DeletedText: string(before[pre : len(before)-suf]),
	}, true
}
