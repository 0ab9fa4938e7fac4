// Package grapheme locates extended grapheme cluster boundaries in raw text.
//
// All offsets are rune offsets. Out-of-range indices clamp into [0, len].
package grapheme

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// Split returns grapheme clusters for text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// Boundaries returns every cluster boundary of text as rune offsets,
// including 0 and the rune length of text.
func Boundaries(text string) []int {
	out := []int{0}
	if text == "" {
		return out
	}
	g := uniseg.NewGraphemes(text)
	off := 0
	for g.Next() {
		off += len(g.Runes())
		out = append(out, off)
	}
	return out
}

// PrevStart returns the start of the cluster that ends at or contains the
// position just before index. At index 0 it returns 0.
func PrevStart(text string, index int) int {
	bounds := Boundaries(text)
	index = clamp(index, 0, bounds[len(bounds)-1])
	prev := 0
	for _, b := range bounds {
		if b >= index {
			break
		}
		prev = b
	}
	return prev
}

// NextEnd returns the end of the cluster that starts at or contains index.
// At the end of text it returns the rune length of text.
func NextEnd(text string, index int) int {
	bounds := Boundaries(text)
	last := bounds[len(bounds)-1]
	index = clamp(index, 0, last)
	for _, b := range bounds {
		if b > index {
			return b
		}
	}
	return last
}

// SnapStart returns the nearest cluster boundary <= index.
func SnapStart(text string, index int) int {
	bounds := Boundaries(text)
	index = clamp(index, 0, bounds[len(bounds)-1])
	snapped := 0
	for _, b := range bounds {
		if b > index {
			break
		}
		snapped = b
	}
	return snapped
}

// SnapEnd returns the nearest cluster boundary >= index.
func SnapEnd(text string, index int) int {
	bounds := Boundaries(text)
	last := bounds[len(bounds)-1]
	index = clamp(index, 0, last)
	for _, b := range bounds {
		if b >= index {
			return b
		}
	}
	return last
}

// Class groups clusters for word-boundary search.
type Class uint8

const (
	ClassSpace Class = iota
	ClassPunct
	ClassWord
)

// Classify reports the word class of a single cluster.
func Classify(cluster string) Class {
	switch {
	case IsSpace(cluster):
		return ClassSpace
	case IsPunct(cluster):
		return ClassPunct
	default:
		return ClassWord
	}
}

// IsSpace reports whether all runes in cluster are Unicode whitespace.
func IsSpace(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsPunct reports whether all runes in cluster are Unicode punctuation.
func IsPunct(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
