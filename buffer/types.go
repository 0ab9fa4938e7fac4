package buffer

// Range is a selection in raw rune offsets. Start is the anchor and End the
// focus; Start > End is allowed.
type Range struct {
	Start int
	End   int
}

// Caret returns a collapsed range at off.
func Caret(off int) Range { return Range{Start: off, End: off} }

func (r Range) Normalized() Range {
	if r.Start <= r.End {
		return r
	}
	return Range{Start: r.End, End: r.Start}
}

func (r Range) IsEmpty() bool { return r.Start == r.End }

// Len returns the number of runes covered by r.
func (r Range) Len() int {
	n := r.Normalized()
	return n.End - n.Start
}

// Clamp clamps both ends of r into [0, n] keeping the direction.
func (r Range) Clamp(n int) Range {
	return Range{Start: clampInt(r.Start, 0, n), End: clampInt(r.End, 0, n)}
}

// Pos is a (row, col) location in runes, used by line-oriented hosts.
type Pos struct {
	Row int
	Col int
}

func ComparePos(a, b Pos) int {
	if a.Row < b.Row {
		return -1
	}
	if a.Row > b.Row {
		return 1
	}
	if a.Col < b.Col {
		return -1
	}
	if a.Col > b.Col {
		return 1
	}
	return 0
}

// TextEdit replaces the text in Range with Text.
type TextEdit struct {
	Range Range
	Text  string
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
