package ui

import "github.com/ja-he/workbench/internal/styling"

// CR is a constrained renderer.
// It only allows rendering using the underlying renderer within the set
// dimension constraint.
//
// Non-conforming rendering requests are corrected to be within the bounds.
type CR struct {
	renderer Renderer

	constraint func() (x, y, w, h int)
}

// NewConstrainedRenderer returns a renderer drawing through the given one but
// only within the dimensions the constraint returns at draw time.
func NewConstrainedRenderer(
	renderer Renderer,
	constraint func() (x, y, w, h int),
) *CR {
	return &CR{
		renderer:   renderer,
		constraint: constraint,
	}
}

// Dimensions returns the current constraint.
func (r *CR) Dimensions() (x, y, w, h int) {
	return r.constraint()
}

// DrawText draws the given text, within the given dimensions, constrained by
// the set constraint, in the given style.
func (r *CR) DrawText(x, y, w, h int, styling styling.DrawStyling, text string) {
	cx, cy, cw, ch := r.constrain(x, y, w, h)
	if cw <= 0 || ch <= 0 {
		return
	}
	r.renderer.DrawText(cx, cy, cw, ch, styling, text)
}

// DrawBox draws a box of the given dimensions, constrained by the set
// constraint, in the given style.
func (r *CR) DrawBox(x, y, w, h int, sty styling.DrawStyling) {
	cx, cy, cw, ch := r.constrain(x, y, w, h)
	if cw <= 0 || ch <= 0 {
		return
	}
	r.renderer.DrawBox(cx, cy, cw, ch, sty)
}

func (r *CR) constrain(rawX, rawY, rawW, rawH int) (x, y, w, h int) {
	cx, cy, cw, ch := r.constraint()

	x, y, w, h = rawX, rawY, rawW, rawH
	// move the origin into bounds, shortening the box accordingly
	if x < cx {
		w -= cx - x
		x = cx
	}
	if y < cy {
		h -= cy - y
		y = cy
	}

	if maxW := cw - (x - cx); w > maxW {
		w = maxW
	}
	if maxH := ch - (y - cy); h > maxH {
		h = maxH
	}
	return x, y, w, h
}
