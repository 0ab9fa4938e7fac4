// Package token finds candidate token spans in raw text and keeps a stable
// identity for each token across edits.
package token

import (
	"errors"
	"fmt"
	"regexp"
	"regexp/syntax"
	"unicode/utf8"
)

var (
	ErrNilPattern       = errors.New("token: nil pattern")
	ErrAnchoredPattern  = errors.New("token: pattern is anchored to the start of text")
	ErrEmptyMatch       = errors.New("token: pattern matches the empty string")
	ErrDuplicateMatcher = errors.New("token: duplicate matcher name")
	ErrUnnamedMatcher   = errors.New("token: matcher has no name")
)

// MatchData is one span found by a matcher. Start and End are rune offsets.
type MatchData struct {
	Start int
	End   int
	Data  map[string]any
}

// Matcher scans text for candidate token spans.
type Matcher interface {
	Name() string
	Match(text string) []MatchData
}

// DataFunc builds the payload of a regexp match from its submatches.
// groups[0] is the whole match.
type DataFunc func(groups []string) map[string]any

type regexpMatcher struct {
	name string
	re   *regexp.Regexp
	data DataFunc
}

// NewRegexpMatcher returns a matcher that reports every non-overlapping match
// of re, left to right.
//
// Patterns that can only match at the start of text, or that can match the
// empty string, are rejected here rather than at scan time.
func NewRegexpMatcher(name string, re *regexp.Regexp, data DataFunc) (Matcher, error) {
	if name == "" {
		return nil, ErrUnnamedMatcher
	}
	if re == nil {
		return nil, fmt.Errorf("matcher %q: %w", name, ErrNilPattern)
	}
	anchored, err := anchoredAtStart(re)
	if err != nil {
		return nil, fmt.Errorf("matcher %q: %w", name, err)
	}
	if anchored {
		return nil, fmt.Errorf("matcher %q: %w", name, ErrAnchoredPattern)
	}
	if re.MatchString("") {
		return nil, fmt.Errorf("matcher %q: %w", name, ErrEmptyMatch)
	}
	return &regexpMatcher{name: name, re: re, data: data}, nil
}

// MustRegexpMatcher is like NewRegexpMatcher but panics on error.
func MustRegexpMatcher(name, pattern string, data DataFunc) Matcher {
	m, err := NewRegexpMatcher(name, regexp.MustCompile(pattern), data)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *regexpMatcher) Name() string { return m.name }

func (m *regexpMatcher) Match(text string) []MatchData {
	locs := m.re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	idx := newRuneIndex(text)
	out := make([]MatchData, 0, len(locs))
	for _, loc := range locs {
		md := MatchData{
			Start: idx.runeAt(loc[0]),
			End:   idx.runeAt(loc[1]),
		}
		if m.data != nil {
			groups := make([]string, len(loc)/2)
			for g := range groups {
				if loc[2*g] >= 0 {
					groups[g] = text[loc[2*g]:loc[2*g+1]]
				}
			}
			md.Data = m.data(groups)
		}
		out = append(out, md)
	}
	return out
}

func anchoredAtStart(re *regexp.Regexp) (bool, error) {
	parsed, err := syntax.Parse(re.String(), syntax.Perl)
	if err != nil {
		return false, err
	}
	prog, err := syntax.Compile(parsed.Simplify())
	if err != nil {
		return false, err
	}
	return prog.StartCond()&syntax.EmptyBeginText != 0, nil
}

// runeIndex converts byte offsets of a string into rune offsets.
type runeIndex struct {
	text string
	// byte offset of each rune, plus len(text)
	starts []int
}

func newRuneIndex(text string) runeIndex {
	starts := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i := range text {
		starts = append(starts, i)
	}
	starts = append(starts, len(text))
	return runeIndex{text: text, starts: starts}
}

func (ri runeIndex) runeAt(byteOff int) int {
	lo, hi := 0, len(ri.starts)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if ri.starts[mid] < byteOff {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
