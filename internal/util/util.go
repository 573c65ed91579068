// Package util contains small geometry and string helpers for rendering.
package util

import "strings"

// Rect is a rectangle on the screen.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the given position lies within the rectangle.
func (r Rect) Contains(x, y int) bool {
	return (x >= r.X) && (x < r.X+r.W) &&
		(y >= r.Y) && (y < r.Y+r.H)
}

// TruncateAt shortens s to at most length runes, marking a cut with "...".
func TruncateAt(s string, length int) string {
	r := []rune(s)
	switch {
	case len(r) <= length:
		return s
	case length <= 3:
		return string(r[:max(length, 0)])
	default:
		return string(append(r[:length-3], []rune("...")...))
	}
}

// PadCenter pads s with spaces on both sides to the given length, putting
// the odd space on the right. Longer strings are returned as they are.
func PadCenter(s string, length int) string {
	pad := length - len([]rune(s))
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
}
