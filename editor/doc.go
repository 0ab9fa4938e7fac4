// Package editor provides a Bubble Tea component hosting a structured
// editor.
//
// The component plays the part of the native surface: it owns the on-screen
// selection, moves it with the keyboard, and renders the woven tree with
// per-tag token styles. Edits are never applied here directly; keys are
// translated into engine key and input events so that tokens, undo
// coalescing and selection snapping behave as they do on any other surface.
package editor
