// Package mention renders @handle tokens as display names. Names are
// resolved after a token is created and kept in a TTL cache shared by all
// tokens with the same handle.
package mention

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/iw2rmb/tokenweave/engine"
	"github.com/iw2rmb/tokenweave/structured"
	"github.com/iw2rmb/tokenweave/token"
	"github.com/iw2rmb/tokenweave/vtree"
	"github.com/iw2rmb/tokenweave/weave"
)

const (
	Name = "mention"

	DefaultTTL = 5 * time.Minute
	// MaxSuggestions caps the portal list.
	MaxSuggestions = 5
)

// Data keys.
const (
	KeyHandle = "handle"
	KeyName   = "name"
)

// Resolver returns the display name for handle.
type Resolver func(ctx context.Context, handle string) (string, error)

type Options struct {
	Resolve Resolver
	// TTL of resolved names. Defaults to DefaultTTL.
	TTL time.Duration
	// Schedule runs a resolution. It must call fn on the host's event loop;
	// the default calls it immediately.
	Schedule func(fn func())
	// Candidates lists handles for the suggestion portal.
	Candidates func(prefix string) []string
	Logger     *zerolog.Logger
}

// Plugin implements structured.Plugin, Portaler, InsertHook and KeyHook.
type Plugin struct {
	opt     Options
	log     zerolog.Logger
	matcher token.Matcher
	names   *gocache.Cache
}

func New(opt Options) *Plugin {
	if opt.TTL <= 0 {
		opt.TTL = DefaultTTL
	}
	if opt.Schedule == nil {
		opt.Schedule = func(fn func()) { fn() }
	}
	p := &Plugin{
		opt:   opt,
		log:   zerolog.Nop(),
		names: gocache.New(opt.TTL, 2*opt.TTL),
		matcher: token.MustRegexpMatcher(Name, `@(\w+)`, func(groups []string) map[string]any {
			return map[string]any{KeyHandle: groups[1]}
		}),
	}
	if opt.Logger != nil {
		p.log = opt.Logger.With().Str("plugin", Name).Logger()
	}
	return p
}

func (p *Plugin) Matcher() token.Matcher { return p.matcher }

// Render shows the resolved name when there is one and the raw handle
// otherwise. Either way the token is wrapped in a "mention" element.
func (p *Plugin) Render(tok token.LiveToken, _ structured.UpdateFunc) weave.Descriptor {
	handle := handleOf(tok)
	d := weave.Descriptor{
		Ancestors: []*vtree.Node{vtree.NewElement(Name).SetAttr(KeyHandle, handle)},
	}
	if name, _ := tok.Data[KeyName].(string); name != "" {
		d.Visual = []*vtree.Node{vtree.NewText(name)}
	}
	return d
}

// OnInsert resolves the display name of a new token.
func (p *Plugin) OnInsert(tok token.LiveToken, update structured.UpdateFunc) {
	handle := handleOf(tok)
	if handle == "" {
		return
	}
	if name, ok := p.cached(handle); ok {
		update(map[string]any{KeyName: name})
		return
	}
	if p.opt.Resolve == nil {
		return
	}
	p.opt.Schedule(func() {
		name, err := p.opt.Resolve(context.Background(), handle)
		if err != nil {
			p.log.Warn().Err(err).Str("handle", handle).Msg("cannot resolve mention")
			return
		}
		p.names.Set(handle, name, gocache.DefaultExpiration)
		p.log.Debug().Str("handle", handle).Str("name", name).Msg("resolved mention")
		update(map[string]any{KeyName: name})
	})
}

func (p *Plugin) cached(handle string) (string, bool) {
	v, ok := p.names.Get(handle)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

// Suggestions returns up to MaxSuggestions candidate handles extending the
// active handle.
func (p *Plugin) Suggestions(handle string) []string {
	if p.opt.Candidates == nil {
		return nil
	}
	var out []string
	for _, c := range p.opt.Candidates(handle) {
		if c == handle || !strings.HasPrefix(c, handle) {
			continue
		}
		out = append(out, c)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

// Portal lists suggestions while the caret sits at the end of the token.
func (p *Plugin) Portal(ctx structured.Context) string {
	if !ctx.State.ActiveState.IsCollapsed || !ctx.State.ActiveState.IsAtEndOfToken {
		return ""
	}
	sugg := p.Suggestions(handleOf(ctx.Token))
	if len(sugg) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, s := range sugg {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("@" + s)
		if name, ok := p.cached(s); ok {
			sb.WriteString("  " + name)
		}
	}
	return sb.String()
}

// OnKeyDown accepts the first suggestion on Tab.
func (p *Plugin) OnKeyDown(ev engine.KeyEvent, ctx structured.Context) bool {
	if ev.Key != engine.KeyTab || ev.Shift || !ctx.State.ActiveState.IsAtEndOfToken {
		return false
	}
	sugg := p.Suggestions(handleOf(ctx.Token))
	if len(sugg) == 0 {
		return false
	}
	return ctx.Replace("@" + sugg[0])
}

func handleOf(tok token.LiveToken) string {
	h, _ := tok.Data[KeyHandle].(string)
	return h
}
