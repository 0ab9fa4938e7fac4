// Package buffer holds the raw value, its selection and the undo history.
//
// Offsets are 0-based rune offsets into the raw value. Ranges carry an
// anchor (Start) and a focus (End) and may be reversed; Normalized orders
// them.
package buffer
