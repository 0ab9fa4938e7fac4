// Package hashtag marks #tag tokens. Tags render verbatim inside a
// "hashtag" element.
package hashtag

import (
	"github.com/iw2rmb/tokenweave/structured"
	"github.com/iw2rmb/tokenweave/token"
	"github.com/iw2rmb/tokenweave/vtree"
	"github.com/iw2rmb/tokenweave/weave"
)

const (
	Name   = "hashtag"
	KeyTag = "tag"
)

type Plugin struct {
	matcher token.Matcher
}

func New() *Plugin {
	return &Plugin{
		matcher: token.MustRegexpMatcher(Name, `#([\p{L}\p{N}_]+)`, func(groups []string) map[string]any {
			return map[string]any{KeyTag: groups[1]}
		}),
	}
}

func (p *Plugin) Matcher() token.Matcher { return p.matcher }

func (p *Plugin) Render(tok token.LiveToken, _ structured.UpdateFunc) weave.Descriptor {
	tag, _ := tok.Data[KeyTag].(string)
	return weave.Descriptor{
		Ancestors: []*vtree.Node{vtree.NewElement(Name).SetAttr(KeyTag, tag)},
	}
}
