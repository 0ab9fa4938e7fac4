package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/iw2rmb/tokenweave/buffer"
)

const (
	DefaultPendingSelectionTTL = 100 * time.Millisecond
	DefaultSwipeWindow         = time.Second
	DefaultCompositionGuard    = 50 * time.Millisecond
)

// PortalAnchor selects how PortalRect positions contextual UI.
type PortalAnchor uint8

const (
	// AnchorSelection anchors to the focus end of the selection.
	AnchorSelection PortalAnchor = iota
	// AnchorRoot anchors to the surface itself.
	AnchorRoot
	// AnchorCustom uses Config.PortalRect.
	AnchorCustom
)

func (a PortalAnchor) String() string {
	switch a {
	case AnchorSelection:
		return "selection"
	case AnchorRoot:
		return "root"
	case AnchorCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParsePortalAnchor maps a config string to a PortalAnchor.
func ParsePortalAnchor(s string) (PortalAnchor, bool) {
	switch s {
	case "", "selection":
		return AnchorSelection, true
	case "root":
		return AnchorRoot, true
	case "custom":
		return AnchorCustom, true
	default:
		return AnchorSelection, false
	}
}

// Config configures an Engine.
type Config struct {
	// Initial raw value.
	Value string

	// Multiline gates Enter and the trailing line-break node.
	Multiline bool
	// Placeholder is reported in State while the value is empty and no
	// composition is active.
	Placeholder string

	PortalAnchor PortalAnchor
	// PortalRect is used with AnchorCustom.
	PortalRect func() Rect

	// Forwarded to buffer.Options.
	HistoryLimit int
	IdleTimeout  time.Duration

	// Validity of the intended caret after an edit while the native
	// selection catches up.
	PendingSelectionTTL time.Duration
	// How long a multi-character insert is remembered for swipe correction.
	SwipeWindow time.Duration
	// How long after a composition ends a redundant input event or commit
	// keystroke is swallowed.
	CompositionGuard time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
	// Logger defaults to a disabled logger.
	Logger *zerolog.Logger

	// OnChange is called with the new value after every edit made through
	// the engine.
	OnChange func(value string)
	// OnKeyDown runs before built-in key handling. Returning true
	// suppresses the built-in handling for that key.
	OnKeyDown func(ev KeyEvent) bool
}

func (c Config) withDefaults() Config {
	if c.PendingSelectionTTL <= 0 {
		c.PendingSelectionTTL = DefaultPendingSelectionTTL
	}
	if c.SwipeWindow <= 0 {
		c.SwipeWindow = DefaultSwipeWindow
	}
	if c.CompositionGuard <= 0 {
		c.CompositionGuard = DefaultCompositionGuard
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	return c
}

func (c Config) bufferOptions() buffer.Options {
	return buffer.Options{HistoryLimit: c.HistoryLimit, IdleTimeout: c.IdleTimeout}
}
