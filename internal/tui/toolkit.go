package tui

import (
	"fmt"

	"github.com/ja-he/workbench/internal/toolkit"
	"github.com/ja-he/workbench/internal/ui"
)

// ScreenToolkit is a toolkit.Toolkit whose controls are rectangular regions
// of a terminal screen.
//
// Regions are laid out by whoever owns them (usually a stack's skin) via
// SetBounds; a new region initially covers its parent.
type ScreenToolkit struct {
	screen *ScreenHandler
	root   *Region
}

// NewScreenToolkit returns a toolkit over the given screen handler. Its root
// region always covers the whole screen.
func NewScreenToolkit(screen *ScreenHandler) *ScreenToolkit {
	t := &ScreenToolkit{screen: screen}
	t.root = &Region{toolkit: t, visible: true}
	return t
}

// Root returns the region covering the screen.
func (t *ScreenToolkit) Root() *Region { return t.root }

// CreateControl creates a new invisible region covering the given parent.
func (t *ScreenToolkit) CreateControl(parent toolkit.Control) (toolkit.Control, error) {
	p, ok := parent.(*Region)
	if !ok || p == nil || p.toolkit != t {
		return nil, fmt.Errorf("parent '%v' is not a region of this screen", parent)
	}
	if p.disposed {
		return nil, toolkit.ErrDisposed
	}
	r := &Region{toolkit: t, parent: p}
	r.x, r.y, r.w, r.h = p.Dimensions()
	p.children = append(p.children, r)
	return r, nil
}

// Region is a rectangular area of the screen.
type Region struct {
	toolkit  *ScreenToolkit
	parent   *Region
	children []*Region

	x, y, w, h int

	visible  bool
	disposed bool
}

// SetBounds moves and resizes the region.
func (r *Region) SetBounds(x, y, w, h int) {
	r.x, r.y, r.w, r.h = x, y, w, h
}

// Dimensions returns the bounds of the region.
func (r *Region) Dimensions() (x, y, w, h int) {
	if r.parent == nil {
		return r.toolkit.screen.Dimensions()
	}
	return r.x, r.y, r.w, r.h
}

// Renderer returns a renderer constrained to the region, which draws nothing
// while the region is hidden.
func (r *Region) Renderer() ui.ConstrainedRenderer {
	return ui.NewConstrainedRenderer(r.toolkit.screen, func() (x, y, w, h int) {
		if !r.IsVisible() {
			return 0, 0, 0, 0
		}
		return r.Dimensions()
	})
}

// Dispose disposes the region and its descendants.
func (r *Region) Dispose() {
	if r.disposed {
		return
	}
	for _, c := range r.children {
		c.Dispose()
	}
	r.children = nil
	r.disposed = true
	if r.parent != nil {
		for i, c := range r.parent.children {
			if c == r {
				r.parent.children = append(r.parent.children[:i], r.parent.children[i+1:]...)
				break
			}
		}
	}
}

// IsDisposed indicates whether the region was disposed.
func (r *Region) IsDisposed() bool { return r.disposed }

// SetVisible sets the region's own visibility.
func (r *Region) SetVisible(visible bool) { r.visible = visible }

// IsVisible indicates whether the region and all its ancestors are visible.
func (r *Region) IsVisible() bool {
	if r.disposed || !r.visible {
		return false
	}
	return r.parent == nil || r.parent.IsVisible()
}
