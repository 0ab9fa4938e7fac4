package editor

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/iw2rmb/tokenweave/engine"
	"github.com/iw2rmb/tokenweave/structured"
)

// Config configures the editor Model.
type Config struct {
	// Initial raw value.
	Value string

	Multiline    bool
	ReadOnly     bool
	Placeholder  string
	PortalAnchor engine.PortalAnchor

	Plugins []structured.Plugin

	// Forwarded to the engine.
	HistoryLimit int
	IdleTimeout  time.Duration

	// TabWidth is the cell width of a tab stop. Defaults to 4.
	TabWidth int

	KeyMap KeyMap
	// Style defaults to DefaultStyle.
	Style *Style

	// Clipboard defaults to the system clipboard. Set NoClipboard to run
	// without one.
	Clipboard   engine.Clipboard
	NoClipboard bool

	ScrollPolicy ScrollPolicy

	Logger *zerolog.Logger

	// OnChange is called after every update that changed the value or the
	// selection.
	OnChange func(ChangeEvent)

	// Now is the engine clock. Defaults to time.Now.
	Now func() time.Time
	// IDFunc mints token ids.
	IDFunc func() string
}

func (c Config) withDefaults() Config {
	if c.TabWidth <= 0 {
		c.TabWidth = 4
	}
	if c.KeyMap.isZero() {
		c.KeyMap = DefaultKeyMap()
	}
	if c.Style == nil {
		st := DefaultStyle()
		c.Style = &st
	}
	if c.Clipboard == nil && !c.NoClipboard {
		c.Clipboard = SystemClipboard{}
	}
	return c
}

func (c Config) structured() structured.Config {
	return structured.Config{
		Engine: engine.Config{
			Value:        c.Value,
			Multiline:    c.Multiline,
			Placeholder:  c.Placeholder,
			PortalAnchor: c.PortalAnchor,
			HistoryLimit: c.HistoryLimit,
			IdleTimeout:  c.IdleTimeout,
			Now:          c.Now,
			Logger:       c.Logger,
		},
		Plugins: c.Plugins,
		IDFunc:  c.IDFunc,
	}
}

// ScrollPolicy decides whether the viewport may move without the caret.
type ScrollPolicy int

const (
	// ScrollAllowManual lets the mouse wheel scroll the viewport.
	ScrollAllowManual ScrollPolicy = iota
	// ScrollFollowCaret ignores wheel events; only caret moves scroll.
	ScrollFollowCaret
)
