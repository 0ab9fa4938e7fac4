package engine

import (
	"github.com/iw2rmb/tokenweave/vtree"
	"github.com/iw2rmb/tokenweave/weave"
)

// Surface is the native editable surface the engine renders into.
type Surface interface {
	// Selection returns the native selection. ok is false when the surface
	// has no selection.
	Selection() (sel vtree.Selection, ok bool)
	// Select writes the native selection.
	Select(sel vtree.Selection)
	// Attached reports whether the surface is still mounted. Deferred
	// selection writes are dropped when it is not.
	Attached() bool
	// Text returns the text the surface currently displays, including any
	// uncommitted composition text.
	Text() string
	// Draw replaces the displayed tree.
	Draw(root *vtree.Node)
}

// Measurer is implemented by surfaces that can report geometry for portal
// positioning.
type Measurer interface {
	RectAt(p vtree.Point) (Rect, bool)
	RootRect() (Rect, bool)
}

// Clipboard provides clipboard integration.
//
// Errors must not crash the host; failures are logged and the operation is
// skipped.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}

// Rect is a surface-relative rectangle in the surface's units.
type Rect struct {
	X, Y          int
	Width, Height int
}

// TokenSource produces the token declarations for a value. It is consulted
// on every render.
type TokenSource interface {
	Tokens(value string) []weave.Descriptor
}
