// Package part implements part references: lazily materializing handles to
// the views and editors of a workbench page.
//
// A Reference exists as soon as a part is requested. The part itself, its
// Site and its toolkit control are only created when the reference is asked
// to restore the part, and any failure while doing so is replaced by an
// ErrorPart so that the rest of the page is unaffected.
package part

import (
	"github.com/rs/zerolog"

	"github.com/ja-he/workbench/internal/memento"
	"github.com/ja-he/workbench/internal/styling"
	"github.com/ja-he/workbench/internal/toolkit"
	"github.com/ja-he/workbench/internal/ui"
)

// Kind distinguishes views from editors.
type Kind int

const (
	_ Kind = iota
	// KindView is a view, identified by its primary and secondary id.
	KindView
	// KindEditor is an editor, identified by its editor id and its input.
	KindEditor
)

// String returns the name of the kind, e.g. for logging.
func (k Kind) String() string {
	switch k {
	case KindView:
		return "view"
	case KindEditor:
		return "editor"
	}
	return "[unknown kind]"
}

// Part is a view or editor implementation.
type Part interface {
	// Init is called once with the site created for the part and the part's
	// state restored from a previous session, which may be nil.
	// The part must return the given site from Site afterwards.
	Init(site *Site, state *memento.Memento) error
	Site() *Site

	// CreateControl builds the part's content into the given control, which
	// was created for the part.
	CreateControl(parent toolkit.Control) error

	Name() string
	SetFocus()
	Dispose()
}

// StateSaver is a part that persists state across sessions.
type StateSaver interface {
	SaveState(m *memento.Memento)
}

// Dirtier is a part that can have unsaved changes.
type Dirtier interface {
	IsDirty() bool
}

// Deactivator is a part that wants to know when it loses activation.
type Deactivator interface {
	Deactivated()
}

// Contributor is a part that contributes actions to its action bars.
type Contributor interface {
	ContributeActions(bars *ActionBars) error
}

// Describer is a part with a tooltip and a content description.
type Describer interface {
	TitleToolTip() string
	ContentDescription() string
}

// PropertySource is a part that publishes arbitrary properties.
type PropertySource interface {
	PartProperties() map[string]string
}

// Drawer is a part that renders its content.
type Drawer interface {
	Draw(r ui.ConstrainedRenderer, stylesheet *styling.Stylesheet)
}

// Factory creates part instances.
type Factory interface {
	Create() (Part, error)
}

// FactoryFunc adapts a function to a Factory.
type FactoryFunc func() (Part, error)

// Create calls f.
func (f FactoryFunc) Create() (Part, error) { return f() }

// Descriptor describes a registered view or editor.
type Descriptor struct {
	ID            string
	Label         string
	Kind          Kind
	AllowMultiple bool
	Factory       Factory
	Properties    map[string]string
}

// Host is the page a reference belongs to, supplying what materialization
// needs and the page services offered to parts through their site.
type Host interface {
	Toolkit() toolkit.Toolkit
	// Parent returns the control new part controls are created under.
	Parent() toolkit.Control
	Logger() zerolog.Logger

	Activate(ref *Reference) error
}

// Separator separates primary and secondary id in a compound key.
const Separator = ":"

// CompoundKey returns the key identifying a part with the given ids.
func CompoundKey(primaryID, secondaryID string) string {
	if secondaryID == "" {
		return primaryID
	}
	return primaryID + Separator + secondaryID
}
