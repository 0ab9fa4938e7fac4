// Package vtree models the rendered surface of a woven document.
//
// A tree is made of text leaves and element nodes. An element that carries a
// TokenMark is the rendered unit of one token: its raw span may differ in
// length from the text it renders. Offsets inside text nodes are rune
// offsets; offsets on element nodes are child indices, as in a DOM range.
package vtree

import (
	"strings"
	"unicode/utf8"
)

type Kind uint8

const (
	KindElement Kind = iota
	KindText
	KindBreak // explicit line break; renders nothing and spans no raw text
)

// TokenMark tags the element that renders a token.
type TokenMark struct {
	RawStart int
	RawEnd   int
	RawText  string
	Key      string
}

// RawLen is the length of the token's raw span.
func (m *TokenMark) RawLen() int { return m.RawEnd - m.RawStart }

type Node struct {
	Kind  Kind
	Tag   string
	Text  string
	Attrs map[string]string

	Token *TokenMark

	Parent   *Node
	Children []*Node
}

// NewText returns a text leaf.
func NewText(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// NewElement returns an element with the given children attached.
func NewElement(tag string, children ...*Node) *Node {
	n := &Node{Kind: KindElement, Tag: tag}
	n.Append(children...)
	return n
}

// NewBreak returns a line-break node.
func NewBreak() *Node {
	return &Node{Kind: KindBreak, Tag: "br"}
}

// Append attaches children to n, detaching them from any previous parent.
func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.Parent = n
		n.Children = append(n.Children, c)
	}
}

// Attr returns an attribute value.
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// SetAttr sets an attribute and returns n.
func (n *Node) SetAttr(name, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
	return n
}

// Clone deep-copies n. The copy has no parent.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Tag: n.Tag, Text: n.Text}
	if n.Attrs != nil {
		out.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			out.Attrs[k] = v
		}
	}
	if n.Token != nil {
		mark := *n.Token
		out.Token = &mark
	}
	for _, c := range n.Children {
		out.Append(c.Clone())
	}
	return out
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// RenderedLen returns the rune length of the text n renders.
func (n *Node) RenderedLen() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case KindText:
		return utf8.RuneCountInString(n.Text)
	case KindBreak:
		return 0
	}
	total := 0
	for _, c := range n.Children {
		total += c.RenderedLen()
	}
	return total
}

// RawLen returns how much raw text n spans.
func (n *Node) RawLen() int {
	if n == nil {
		return 0
	}
	if n.Token != nil {
		return n.Token.RawLen()
	}
	switch n.Kind {
	case KindText:
		return utf8.RuneCountInString(n.Text)
	case KindBreak:
		return 0
	}
	total := 0
	for _, c := range n.Children {
		total += c.RawLen()
	}
	return total
}

// Diverged reports whether n is a token whose rendered length differs from
// its raw span length.
func (n *Node) Diverged() bool {
	return n != nil && n.Token != nil && n.RenderedLen() != n.Token.RawLen()
}

// TokenAncestor returns the outermost token element containing n, stopping at
// root. It returns nil when n is not inside a token.
func TokenAncestor(root, n *Node) *Node {
	var found *Node
	for p := n; p != nil; p = p.Parent {
		if p.Token != nil {
			found = p
		}
		if p == root {
			break
		}
	}
	return found
}

// TextContent concatenates the rendered text of n.
func TextContent(n *Node) string {
	var sb strings.Builder
	writeText(&sb, n)
	return sb.String()
}

func writeText(sb *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	if n.Kind == KindText {
		sb.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		writeText(sb, c)
	}
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Leaves returns the text leaves under n in document order.
func Leaves(n *Node) []*Node {
	var out []*Node
	Walk(n, func(c *Node) bool {
		if c.Kind == KindText {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Elements returns every element under n for which match returns true.
func Elements(n *Node, match func(*Node) bool) []*Node {
	var out []*Node
	Walk(n, func(c *Node) bool {
		if c.Kind == KindElement && match(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}
