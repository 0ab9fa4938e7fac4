package editor

import (
	"github.com/atotto/clipboard"

	"github.com/iw2rmb/tokenweave/engine"
)

// SystemClipboard is the OS clipboard.
type SystemClipboard struct{}

var _ engine.Clipboard = SystemClipboard{}

func (SystemClipboard) ReadText() (string, error) { return clipboard.ReadAll() }

func (SystemClipboard) WriteText(s string) error { return clipboard.WriteAll(s) }
