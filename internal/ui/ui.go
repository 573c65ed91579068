// Package ui contains the rendering interfaces shared by the screen toolkit,
// the stack skin and the parts drawing into it.
package ui

import (
	"github.com/ja-he/workbench/internal/styling"
)

// Renderer draws boxes and text.
type Renderer interface {
	// Draw a box of the indicated dimensions at the indicated location but
	// limited to the constraint (bounding box) of the renderer.
	// In the case that the box is not fully contained by the bounding box,
	// it is truncated to fit and drawn at the corrected coordinates with the
	// corrected dimensions.
	DrawBox(x, y, w, h int, style styling.DrawStyling)
	// Draw text within the box described by the given coordinates and
	// dimensions, but limited to the constraint (bounding box) of the renderer.
	DrawText(x, y, w, h int, style styling.DrawStyling, text string)
}

// ConstrainedRenderer is a renderer that is assumed to be constrained to
// certain dimensions, i.E. it does not draw outside of them.
type ConstrainedRenderer interface {
	Renderer

	// Dimensions returns the dimensions of the renderer.
	Dimensions() (x, y, w, h int)
}

// RenderOrchestratorControl is the set of functions of a renderer (e.g.,
// tcell.Screen) needed to control a full render cycle.
type RenderOrchestratorControl interface {
	Clear()
	Show()
}
