// Package engine is the editing core of a structured text surface.
//
// The raw value is a plain string and is always authoritative. The surface
// renders a woven visual tree in which tokens may display text that differs
// from their raw span. The engine translates native selection and input
// events into raw edits, keeps undo history, and writes the resulting
// selection back through the Surface after each render.
//
// Hosts drive the engine from a single goroutine: deliver an event, then call
// Settle to run the deferred selection restoration.
package engine
