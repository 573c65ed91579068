package part

import (
	"github.com/ja-he/workbench/internal/memento"
	"github.com/ja-he/workbench/internal/toolkit"
)

// Base is a minimal part implementation to embed in parts, keeping the site
// and the control they were given.
type Base struct {
	site    *Site
	control toolkit.Control
}

// Init keeps the site.
func (b *Base) Init(site *Site, _ *memento.Memento) error {
	b.site = site
	return nil
}

// Site returns the site the part was initialized with.
func (b *Base) Site() *Site { return b.site }

// CreateControl keeps the control.
func (b *Base) CreateControl(parent toolkit.Control) error {
	b.control = parent
	return nil
}

// Control returns the part's control.
func (b *Base) Control() toolkit.Control { return b.control }

// SetFocus does nothing.
func (b *Base) SetFocus() {}

// Dispose does nothing.
func (b *Base) Dispose() {}
