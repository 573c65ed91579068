// Package toolkit defines the opaque control handles the workbench core
// builds its parts into, and a headless implementation of them.
//
// The core never inspects geometry or painting; it only creates controls
// under a parent, toggles their visibility and disposes them.
package toolkit

import "errors"

// ErrDisposed is returned when creating a control under a disposed parent.
var ErrDisposed = errors.New("control is disposed")

// Control is an opaque handle to a toolkit control.
type Control interface {
	Dispose()
	IsDisposed() bool

	SetVisible(visible bool)
	IsVisible() bool
}

// Toolkit creates controls.
type Toolkit interface {
	CreateControl(parent Control) (Control, error)
}
