// Package structured layers pluggable tokenizers over the engine. Each
// plugin contributes a matcher and decides how its tokens render; the
// editor keeps token identities stable across edits and routes the active
// token to its plugin for portals and key handling.
package structured

import (
	"github.com/iw2rmb/tokenweave/engine"
	"github.com/iw2rmb/tokenweave/token"
	"github.com/iw2rmb/tokenweave/weave"
)

// UpdateFunc merges partial into a token's data without touching the raw
// value. The selection is preserved.
type UpdateFunc func(partial map[string]any)

// ReplaceFunc substitutes the active token's raw span with text and places
// the caret after it.
type ReplaceFunc func(text string) bool

// Context is what a plugin sees about its active token.
type Context struct {
	Token   token.LiveToken
	State   engine.State
	Replace ReplaceFunc
	Update  UpdateFunc
}

// Plugin recognizes one kind of token and renders it.
//
// Render must be total. Raw and Key of the returned descriptor are set by
// the editor.
type Plugin interface {
	Matcher() token.Matcher
	Render(tok token.LiveToken, update UpdateFunc) weave.Descriptor
}

// Portaler is implemented by plugins that show contextual UI while one of
// their tokens is active.
type Portaler interface {
	Portal(ctx Context) string
}

// InsertHook is implemented by plugins that react to newly created tokens.
// OnInsert runs once per token identity, after the render that created it.
type InsertHook interface {
	OnInsert(tok token.LiveToken, update UpdateFunc)
}

// KeyHook is implemented by plugins that intercept keys while one of their
// tokens is active. Returning true suppresses built-in handling.
type KeyHook interface {
	OnKeyDown(ev engine.KeyEvent, ctx Context) bool
}
