package engine

import (
	"github.com/iw2rmb/tokenweave/buffer"
	"github.com/iw2rmb/tokenweave/vtree"
	"github.com/iw2rmb/tokenweave/weave"
)

// Key names follow the DOM KeyboardEvent.key values.
const (
	KeyEnter      = "Enter"
	KeyBackspace  = "Backspace"
	KeyDelete     = "Delete"
	KeySpace      = " "
	KeyTab        = "Tab"
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyHome       = "Home"
	KeyEnd        = "End"
	KeyPageUp     = "PageUp"
	KeyPageDown   = "PageDown"
	KeyShift      = "Shift"
	KeyControl    = "Control"
	KeyAlt        = "Alt"
	KeyMeta       = "Meta"
)

type KeyEvent struct {
	Key   string
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
	// IsComposing is set for keystrokes delivered while an IME composition
	// is in progress.
	IsComposing bool
}

func isArrow(key string) bool {
	switch key {
	case KeyArrowLeft, KeyArrowRight, KeyArrowUp, KeyArrowDown:
		return true
	}
	return false
}

func isNavigation(key string) bool {
	switch key {
	case KeyHome, KeyEnd, KeyPageUp, KeyPageDown:
		return true
	}
	return isArrow(key)
}

func isModifier(key string) bool {
	switch key {
	case KeyShift, KeyControl, KeyAlt, KeyMeta:
		return true
	}
	return false
}

// InputType names an edit intent, using the DOM InputEvent.inputType values.
type InputType string

const (
	InsertText             InputType = "insertText"
	InsertReplacementText  InputType = "insertReplacementText"
	InsertParagraph        InputType = "insertParagraph"
	InsertLineBreak        InputType = "insertLineBreak"
	InsertFromPaste        InputType = "insertFromPaste"
	InsertFromDrop         InputType = "insertFromDrop"
	InsertCompositionText  InputType = "insertCompositionText"
	DeleteContentBackward  InputType = "deleteContentBackward"
	DeleteContentForward   InputType = "deleteContentForward"
	DeleteWordBackward     InputType = "deleteWordBackward"
	DeleteWordForward      InputType = "deleteWordForward"
	DeleteSoftLineBackward InputType = "deleteSoftLineBackward"
	DeleteSoftLineForward  InputType = "deleteSoftLineForward"
	DeleteHardLineBackward InputType = "deleteHardLineBackward"
	DeleteHardLineForward  InputType = "deleteHardLineForward"
	DeleteByCut            InputType = "deleteByCut"
	HistoryUndo            InputType = "historyUndo"
	HistoryRedo            InputType = "historyRedo"
)

// InputEvent is a pending edit reported by the surface before it applies
// it.
type InputEvent struct {
	Type InputType
	Data string
	// DataTransfer is the alternate payload channel some platforms use for
	// replacement and paste text.
	DataTransfer string
	// TargetRange is the native range the edit applies to, when reported.
	TargetRange *vtree.Range
}

// payload returns Data, falling back to DataTransfer when Data is empty.
func (ev InputEvent) payload() string {
	if ev.Data != "" {
		return ev.Data
	}
	return ev.DataTransfer
}

// State is the render-prop view of the engine for contextual UI.
type State struct {
	Value       string
	Selection   buffer.Range
	ActiveToken *weave.Node
	ActiveState weave.ActiveState
	// NativeRange is the selection mapped into the current visual tree,
	// normalized.
	NativeRange vtree.Range
	// Placeholder is set only while it should be shown.
	Placeholder string
	Composing   bool
}
