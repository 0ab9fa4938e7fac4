package buffer

import "github.com/iw2rmb/tokenweave/internal/grapheme"

type MoveUnit int

const (
	MoveGrapheme MoveUnit = iota
	MoveWord
	MoveLine
	MoveDoc
)

type MoveDir int

const (
	DirLeft MoveDir = iota
	DirRight
)

// Boundary returns the offset reached from off by one unit in dir. It never
// crosses past the value edges.
func (b *Buffer) Boundary(off int, unit MoveUnit, dir MoveDir) int {
	off = clampInt(off, 0, len(b.runes))
	text := string(b.runes)

	switch unit {
	case MoveGrapheme:
		if dir == DirLeft {
			return grapheme.PrevStart(text, off)
		}
		return grapheme.NextEnd(text, off)
	case MoveWord:
		if dir == DirLeft {
			return b.wordStartBefore(off)
		}
		return b.wordEndAfter(off)
	case MoveLine:
		if dir == DirLeft {
			return b.LineStart(off)
		}
		return b.LineEnd(off)
	case MoveDoc:
		if dir == DirLeft {
			return 0
		}
		return len(b.runes)
	default:
		return off
	}
}

// LineStart returns the offset just after the newline preceding off.
func (b *Buffer) LineStart(off int) int {
	off = clampInt(off, 0, len(b.runes))
	for off > 0 && b.runes[off-1] != '\n' {
		off--
	}
	return off
}

// LineEnd returns the offset of the newline following off, or the value end.
func (b *Buffer) LineEnd(off int) int {
	off = clampInt(off, 0, len(b.runes))
	for off < len(b.runes) && b.runes[off] != '\n' {
		off++
	}
	return off
}

// Word boundary rules:
// - a newline directly next to off is one unit on its own
// - otherwise skip spaces, then one run of clusters of the same class
// - newline is a hard boundary
func (b *Buffer) wordStartBefore(off int) int {
	clusters, starts := b.clustersOf()
	i := clusterIndexAt(starts, off)
	if i > 0 && clusters[i-1] == "\n" {
		return starts[i-1]
	}
	for i > 0 && clusters[i-1] != "\n" && grapheme.IsSpace(clusters[i-1]) {
		i--
	}
	if i > 0 && clusters[i-1] != "\n" {
		class := grapheme.Classify(clusters[i-1])
		for i > 0 && clusters[i-1] != "\n" && grapheme.Classify(clusters[i-1]) == class {
			i--
		}
	}
	return starts[i]
}

func (b *Buffer) wordEndAfter(off int) int {
	clusters, starts := b.clustersOf()
	i := clusterIndexAt(starts, off)
	n := len(clusters)
	if i < n && clusters[i] == "\n" {
		return starts[i+1]
	}
	for i < n && clusters[i] != "\n" && grapheme.IsSpace(clusters[i]) {
		i++
	}
	if i < n && clusters[i] != "\n" {
		class := grapheme.Classify(clusters[i])
		for i < n && clusters[i] != "\n" && grapheme.Classify(clusters[i]) == class {
			i++
		}
	}
	return starts[i]
}

// clustersOf splits the value into clusters. starts has one more entry than
// clusters: the offset of every cluster plus the value length.
func (b *Buffer) clustersOf() ([]string, []int) {
	clusters := grapheme.Split(string(b.runes))
	starts := make([]int, 0, len(clusters)+1)
	pos := 0
	for _, c := range clusters {
		starts = append(starts, pos)
		pos += len([]rune(c))
	}
	starts = append(starts, pos)
	return clusters, starts
}

// clusterIndexAt returns the index of the cluster boundary at or before off.
func clusterIndexAt(starts []int, off int) int {
	i := 0
	for i+1 < len(starts) && starts[i+1] <= off {
		i++
	}
	return i
}
