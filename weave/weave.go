// Package weave rebuilds the visual tree of a raw value from the tokens a
// host declared for it.
//
// Registration and weaving are two explicit phases: the host calls Register
// with the descriptors for the current render pass, then Weave.
package weave

import (
	"strings"

	"github.com/iw2rmb/tokenweave/vtree"
)

// Tags used for nodes the weaver creates itself.
const (
	TagRoot  = "root"
	TagToken = "token"
)

// Descriptor declares one token: a raw substring and what to render for it.
type Descriptor struct {
	Raw string
	// Visual is the rendered content. Nil renders Raw verbatim.
	Visual []*vtree.Node
	// Ancestors wraps the token, outermost first. The outermost ancestor
	// becomes the rendered unit of the token.
	Ancestors []*vtree.Node
	// Key identifies the declaration (for example a live token id).
	Key string
}

type NodeKind uint8

const (
	NodePlain NodeKind = iota
	NodeToken
	NodeBreak
)

func (k NodeKind) String() string {
	switch k {
	case NodePlain:
		return "plain"
	case NodeToken:
		return "token"
	case NodeBreak:
		return "break"
	default:
		return "unknown"
	}
}

// Node is one woven span. Concatenating Text over all nodes yields the raw
// value; spans are contiguous and do not overlap.
type Node struct {
	Kind     NodeKind
	RawStart int
	RawEnd   int
	Text     string

	// Token-only fields.
	Descriptor *Descriptor
	Element    *vtree.Node
}

// Len returns the raw length of the span.
func (n Node) Len() int { return n.RawEnd - n.RawStart }

// Diverged reports whether the token renders text of a different length
// than its raw span.
func (n Node) Diverged() bool {
	return n.Kind == NodeToken && n.Element.Diverged()
}

type Options struct {
	Multiline bool
}

// Result is the output of one weave.
type Result struct {
	Nodes []Node
	Root  *vtree.Node

	Active      *Node
	ActiveState ActiveState

	// Stale is set when a registered descriptor no longer occurs in the
	// value. Weaving is suspended: Nodes and Root are empty and the active
	// state is the one from the previous weave. Hosts keep showing their
	// previous frame until the registrations are refreshed.
	Stale bool
}

// Tokens returns the token nodes of r.
func (r Result) Tokens() []Node {
	var out []Node
	for _, n := range r.Nodes {
		if n.Kind == NodeToken {
			out = append(out, n)
		}
	}
	return out
}

// Weaver holds the current registration set.
type Weaver struct {
	opt   Options
	descs []Descriptor

	prevActive *Node
	prevState  ActiveState
}

func New(opt Options) *Weaver {
	return &Weaver{opt: opt}
}

// SetOptions replaces the weave options.
func (w *Weaver) SetOptions(opt Options) { w.opt = opt }

// Register replaces the registration set for the next weave.
func (w *Weaver) Register(descs []Descriptor) {
	w.descs = append(w.descs[:0:0], descs...)
}

// Registered returns the current registration set.
func (w *Weaver) Registered() []Descriptor {
	return append([]Descriptor(nil), w.descs...)
}

// Weave builds the woven nodes and visual tree for value. start and end are
// the current selection in raw coordinates.
func (w *Weaver) Weave(value string, start, end int) Result {
	runes := []rune(value)

	if w.stale(value) {
		return Result{Stale: true, Active: w.prevActive, ActiveState: w.prevState}
	}

	placed := w.place(runes)
	res := Result{}
	res.Nodes, res.Root = w.build(runes, placed)
	res.Active, res.ActiveState = Active(res.Nodes, start, end)
	w.prevActive, w.prevState = res.Active, res.ActiveState
	return res
}

func (w *Weaver) stale(value string) bool {
	for _, d := range w.descs {
		if d.Raw == "" {
			continue
		}
		if !strings.Contains(value, d.Raw) {
			return true
		}
	}
	return false
}

type placement struct {
	start int
	end   int
	desc  int
}

// place assigns descriptors to left-to-right non-overlapping occurrences.
func (w *Weaver) place(runes []rune) []placement {
	if len(w.descs) == 0 {
		return nil
	}
	pool := make([][]rune, len(w.descs))
	consumed := make([]bool, len(w.descs))
	remaining := 0
	for i, d := range w.descs {
		pool[i] = []rune(d.Raw)
		if len(pool[i]) == 0 {
			consumed[i] = true
			continue
		}
		remaining++
	}

	var out []placement
	for pos := 0; pos < len(runes) && remaining > 0; {
		matched := false
		for i, raw := range pool {
			if consumed[i] || !hasPrefixAt(runes, pos, raw) {
				continue
			}
			consumed[i] = true
			remaining--
			out = append(out, placement{start: pos, end: pos + len(raw), desc: i})
			pos += len(raw)
			matched = true
			break
		}
		if !matched {
			pos++
		}
	}
	return out
}

func hasPrefixAt(runes []rune, pos int, raw []rune) bool {
	if pos+len(raw) > len(runes) {
		return false
	}
	for i, r := range raw {
		if runes[pos+i] != r {
			return false
		}
	}
	return true
}

func (w *Weaver) build(runes []rune, placed []placement) ([]Node, *vtree.Node) {
	root := vtree.NewElement(TagRoot)
	nodes := make([]Node, 0, 2*len(placed)+2)

	plain := func(start, end int) {
		if start >= end {
			return
		}
		text := string(runes[start:end])
		nodes = append(nodes, Node{Kind: NodePlain, RawStart: start, RawEnd: end, Text: text})
		root.Append(vtree.NewText(text))
	}

	cursor := 0
	for _, p := range placed {
		plain(cursor, p.start)
		desc := &w.descs[p.desc]
		el := renderToken(desc, p.start, p.end)
		root.Append(el)
		nodes = append(nodes, Node{
			Kind:       NodeToken,
			RawStart:   p.start,
			RawEnd:     p.end,
			Text:       desc.Raw,
			Descriptor: desc,
			Element:    el,
		})
		cursor = p.end
	}
	plain(cursor, len(runes))

	if w.opt.Multiline && len(runes) > 0 && runes[len(runes)-1] == '\n' {
		root.Append(vtree.NewBreak())
		nodes = append(nodes, Node{Kind: NodeBreak, RawStart: len(runes), RawEnd: len(runes)})
	}
	return nodes, root
}

// renderToken returns the rendered unit for a placed descriptor: the
// outermost declared ancestor when there is one, else a token element.
func renderToken(desc *Descriptor, start, end int) *vtree.Node {
	content := make([]*vtree.Node, 0, len(desc.Visual))
	for _, v := range desc.Visual {
		content = append(content, v.Clone())
	}
	if desc.Visual == nil {
		content = append(content, vtree.NewText(desc.Raw))
	}

	var unit *vtree.Node
	if len(desc.Ancestors) == 0 {
		unit = vtree.NewElement(TagToken, content...)
	} else {
		var parent *vtree.Node
		for _, a := range desc.Ancestors {
			c := a.Clone()
			c.Children = nil
			c.Token = nil
			if parent == nil {
				unit = c
			} else {
				parent.Append(c)
			}
			parent = c
		}
		parent.Append(content...)
	}
	unit.Token = &vtree.TokenMark{
		RawStart: start,
		RawEnd:   end,
		RawText:  desc.Raw,
		Key:      desc.Key,
	}
	return unit
}
