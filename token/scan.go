package token

import (
	"sort"
)

// Match is a span found in the raw text, tagged with the matcher that found it.
type Match struct {
	Raw     string
	Start   int
	End     int
	Data    map[string]any
	Matcher string
}

// Len returns the rune length of the match.
func (m Match) Len() int { return m.End - m.Start }

// Scan runs every matcher over text and resolves overlaps.
//
// Matches are ordered by start, longer spans first on equal starts, and
// accepted greedily: a match is kept only if it starts at or after the end
// of the previously kept match. Equal spans keep the matcher that appears
// first in matchers.
func Scan(text string, matchers []Matcher) []Match {
	if text == "" || len(matchers) == 0 {
		return nil
	}
	runes := []rune(text)

	var all []Match
	for _, m := range matchers {
		if m == nil {
			continue
		}
		for _, md := range m.Match(text) {
			start := clampInt(md.Start, 0, len(runes))
			end := clampInt(md.End, start, len(runes))
			if start == end {
				continue
			}
			all = append(all, Match{
				Raw:     string(runes[start:end]),
				Start:   start,
				End:     end,
				Data:    md.Data,
				Matcher: m.Name(),
			})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Start != all[j].Start {
			return all[i].Start < all[j].Start
		}
		return all[i].Len() > all[j].Len()
	})

	out := make([]Match, 0, len(all))
	lastEnd := 0
	for _, m := range all {
		if m.Start < lastEnd {
			continue
		}
		out = append(out, m)
		lastEnd = m.End
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
