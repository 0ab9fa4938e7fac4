package token

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// LiveToken is a match with an identity that survives re-scans.
type LiveToken struct {
	Match
	ID string
}

type groupKey struct {
	matcher string
	raw     string
}

// Reconciler re-scans raw text and re-associates the new matches with the
// live tokens of the previous pass.
//
// A new match adopts the id and data of the nearest unused previous token
// with the same matcher and raw text. Data maps are carried by reference, so
// mutations made through a token's map stay visible after reconciliation.
type Reconciler struct {
	matchers []Matcher
	live     []LiveToken
	prevText string
	newID    func() string
	dmp      *diffmatchpatch.DiffMatchPatch
}

type ReconcilerOption func(*Reconciler)

// WithIDFunc replaces the id generator (default: random UUIDs).
func WithIDFunc(fn func() string) ReconcilerOption {
	return func(r *Reconciler) {
		if fn != nil {
			r.newID = fn
		}
	}
}

func NewReconciler(matchers []Matcher, opts ...ReconcilerOption) (*Reconciler, error) {
	r := &Reconciler{newID: uuid.NewString, dmp: diffmatchpatch.New()}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.SetMatchers(matchers); err != nil {
		return nil, err
	}
	return r, nil
}

// SetMatchers replaces the matcher set. Names must be unique and non-empty.
// Live tokens of removed matchers stop matching on the next Reconcile.
func (r *Reconciler) SetMatchers(matchers []Matcher) error {
	seen := make(map[string]struct{}, len(matchers))
	for _, m := range matchers {
		if m == nil || m.Name() == "" {
			return ErrUnnamedMatcher
		}
		if _, dup := seen[m.Name()]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateMatcher, m.Name())
		}
		seen[m.Name()] = struct{}{}
	}
	r.matchers = append([]Matcher(nil), matchers...)
	return nil
}

// Matchers returns the current matcher set in registration order.
func (r *Reconciler) Matchers() []Matcher {
	return append([]Matcher(nil), r.matchers...)
}

// Tokens returns the live tokens of the last pass.
func (r *Reconciler) Tokens() []LiveToken {
	return append([]LiveToken(nil), r.live...)
}

// Lookup returns the live token with id.
func (r *Reconciler) Lookup(id string) (LiveToken, bool) {
	for _, t := range r.live {
		if t.ID == id {
			return t, true
		}
	}
	return LiveToken{}, false
}

// Reconcile scans text and returns the new live tokens in text order.
func (r *Reconciler) Reconcile(text string) []LiveToken {
	shift := r.editShift(text)
	groups := make(map[groupKey][]LiveToken)
	for _, t := range r.live {
		t.Start = shift(t.Start)
		k := groupKey{matcher: t.Matcher, raw: t.Raw}
		groups[k] = append(groups[k], t)
	}
	used := make(map[groupKey][]bool, len(groups))
	for k, g := range groups {
		sort.SliceStable(g, func(i, j int) bool { return g[i].Start < g[j].Start })
		used[k] = make([]bool, len(g))
	}

	matches := Scan(text, r.matchers)
	next := make([]LiveToken, 0, len(matches))
	for _, m := range matches {
		k := groupKey{matcher: m.Matcher, raw: m.Raw}
		if i, ok := nearestUnused(groups[k], used[k], m.Start); ok {
			prev := groups[k][i]
			used[k][i] = true
			if prev.Data != nil {
				m.Data = prev.Data
			}
			next = append(next, LiveToken{Match: m, ID: prev.ID})
			continue
		}
		if m.Data == nil {
			m.Data = make(map[string]any)
		}
		next = append(next, LiveToken{Match: m, ID: r.newID()})
	}
	r.live = next
	r.prevText = text
	return r.Tokens()
}

// editShift returns a function mapping a previous rune offset across the
// single edited region between the previous text and text. Offsets inside
// the region are left as they were.
func (r *Reconciler) editShift(text string) func(int) int {
	oldLen := utf8.RuneCountInString(r.prevText)
	newLen := utf8.RuneCountInString(text)
	prefix := r.dmp.DiffCommonPrefix(r.prevText, text)
	suffix := r.dmp.DiffCommonSuffix(r.prevText, text)
	if limit := min(oldLen, newLen) - prefix; suffix > limit {
		suffix = limit
	}
	editEnd := oldLen - suffix
	delta := newLen - oldLen
	return func(off int) int {
		if off >= editEnd && off >= prefix {
			return off + delta
		}
		return off
	}
}

// nearestUnused binary-searches group (sorted by Start) for the unused
// entry closest to start. Ties prefer the left candidate.
func nearestUnused(group []LiveToken, used []bool, start int) (int, bool) {
	if len(group) == 0 {
		return 0, false
	}
	pivot := sort.Search(len(group), func(i int) bool { return group[i].Start >= start })

	left := pivot - 1
	for left >= 0 && used[left] {
		left--
	}
	right := pivot
	for right < len(group) && used[right] {
		right++
	}

	switch {
	case left < 0 && right >= len(group):
		return 0, false
	case left < 0:
		return right, true
	case right >= len(group):
		return left, true
	}
	if start-group[left].Start <= group[right].Start-start {
		return left, true
	}
	return right, true
}
