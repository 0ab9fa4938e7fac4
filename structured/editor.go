package structured

import (
	"errors"
	"fmt"
	"maps"

	"github.com/rs/zerolog"

	"github.com/iw2rmb/tokenweave/engine"
	"github.com/iw2rmb/tokenweave/token"
	"github.com/iw2rmb/tokenweave/weave"
)

var ErrNilPlugin = errors.New("structured: nil plugin")

type Config struct {
	Engine  engine.Config
	Plugins []Plugin
	// IDFunc mints token ids. Defaults to random UUIDs.
	IDFunc func() string
}

// Editor is an engine whose tokens come from plugins.
type Editor struct {
	eng     *engine.Engine
	rec     *token.Reconciler
	plugins map[string]Plugin
	log     zerolog.Logger
	onKey   func(engine.KeyEvent) bool

	value      string
	reconciled bool
	tokens     []token.LiveToken
	inserted   map[string]struct{}
}

// New validates the plugin set and returns an editor rendering into
// surface.
func New(cfg Config, surface engine.Surface, clip engine.Clipboard) (*Editor, error) {
	matchers := make([]token.Matcher, 0, len(cfg.Plugins))
	plugins := make(map[string]Plugin, len(cfg.Plugins))
	for i, p := range cfg.Plugins {
		if p == nil {
			return nil, fmt.Errorf("plugin %d: %w", i, ErrNilPlugin)
		}
		m := p.Matcher()
		if m == nil {
			return nil, fmt.Errorf("plugin %d: %w", i, token.ErrUnnamedMatcher)
		}
		matchers = append(matchers, m)
		plugins[m.Name()] = p
	}
	rec, err := token.NewReconciler(matchers, token.WithIDFunc(cfg.IDFunc))
	if err != nil {
		return nil, fmt.Errorf("structured: %w", err)
	}

	ed := &Editor{
		rec:      rec,
		plugins:  plugins,
		log:      zerolog.Nop(),
		onKey:    cfg.Engine.OnKeyDown,
		inserted: make(map[string]struct{}),
	}
	if cfg.Engine.Logger != nil {
		ed.log = *cfg.Engine.Logger
	}
	ecfg := cfg.Engine
	ecfg.OnKeyDown = ed.keyDown
	ed.eng = engine.New(ecfg, surface, clip)
	ed.eng.SetTokenSource(ed)
	return ed, nil
}

// Engine returns the underlying engine. Hosts feed events to it directly.
func (ed *Editor) Engine() *engine.Engine { return ed.eng }

func (ed *Editor) Value() string { return ed.eng.Value() }

// LiveTokens returns the live tokens of the current value in text order.
func (ed *Editor) LiveTokens() []token.LiveToken {
	return append([]token.LiveToken(nil), ed.tokens...)
}

// Tokens implements engine.TokenSource. The value is re-scanned only when it
// changed; descriptors are rendered on every call so data updates show up.
func (ed *Editor) Tokens(value string) []weave.Descriptor {
	if !ed.reconciled || value != ed.value {
		ed.tokens = ed.rec.Reconcile(value)
		ed.value, ed.reconciled = value, true
		ed.scheduleInserts()
	}
	descs := make([]weave.Descriptor, 0, len(ed.tokens))
	for _, tok := range ed.tokens {
		p, ok := ed.plugins[tok.Matcher]
		if !ok {
			continue
		}
		d := p.Render(tok, ed.updater(tok.ID))
		d.Raw = tok.Raw
		d.Key = tok.ID
		descs = append(descs, d)
	}
	return descs
}

// scheduleInserts queues OnInsert for token ids seen for the first time.
func (ed *Editor) scheduleInserts() {
	live := make(map[string]struct{}, len(ed.tokens))
	for _, tok := range ed.tokens {
		live[tok.ID] = struct{}{}
		if _, done := ed.inserted[tok.ID]; done {
			continue
		}
		ed.inserted[tok.ID] = struct{}{}
		hook, ok := ed.plugins[tok.Matcher].(InsertHook)
		if !ok {
			continue
		}
		ed.eng.Defer(func() { hook.OnInsert(tok, ed.updater(tok.ID)) })
	}
	for id := range ed.inserted {
		if _, ok := live[id]; !ok {
			delete(ed.inserted, id)
		}
	}
}

// Update merges partial into the data of the token with id and re-renders.
// It reports false when the token no longer exists.
func (ed *Editor) Update(id string, partial map[string]any) bool {
	tok, ok := ed.rec.Lookup(id)
	if !ok {
		ed.log.Debug().Str("token", id).Msg("update for a token that no longer exists")
		return false
	}
	maps.Copy(tok.Data, partial)
	ed.eng.Refresh()
	return true
}

func (ed *Editor) updater(id string) UpdateFunc {
	return func(partial map[string]any) { ed.Update(id, partial) }
}

// Replace substitutes the active token's raw span with text, as one undo
// step, and places the caret after it.
func (ed *Editor) Replace(text string) bool {
	n := ed.eng.State().ActiveToken
	if n == nil || n.Kind != weave.NodeToken {
		return false
	}
	return ed.eng.ReplaceRange(n.RawStart, n.RawEnd, text)
}

// ActiveToken returns the live token containing the selection.
func (ed *Editor) ActiveToken() (token.LiveToken, bool) {
	n := ed.eng.State().ActiveToken
	if n == nil || n.Kind != weave.NodeToken || n.Descriptor == nil {
		return token.LiveToken{}, false
	}
	return ed.rec.Lookup(n.Descriptor.Key)
}

// context returns the active token's plugin and context.
func (ed *Editor) context() (Plugin, Context, bool) {
	tok, ok := ed.ActiveToken()
	if !ok {
		return nil, Context{}, false
	}
	p, ok := ed.plugins[tok.Matcher]
	if !ok {
		return nil, Context{}, false
	}
	return p, Context{
		Token:   tok,
		State:   ed.eng.State(),
		Replace: ed.Replace,
		Update:  ed.updater(tok.ID),
	}, true
}

// Portal returns the contextual UI of the active token's plugin, or "".
func (ed *Editor) Portal() string {
	p, ctx, ok := ed.context()
	if !ok {
		return ""
	}
	if pp, ok := p.(Portaler); ok {
		return pp.Portal(ctx)
	}
	return ""
}

// keyDown gives the active token's plugin the first look at a key, then the
// configured hook.
func (ed *Editor) keyDown(ev engine.KeyEvent) bool {
	if p, ctx, ok := ed.context(); ok {
		if kh, ok := p.(KeyHook); ok && kh.OnKeyDown(ev, ctx) {
			return true
		}
	}
	return ed.onKey != nil && ed.onKey(ev)
}
