// Package presentation implements the protocol between a stack of parts and
// the presentation rendering it.
//
// A StackSite is the single source of truth for its stack's state, members
// and selection. Its StackPresentation only proposes changes by calling the
// site and reflects a change once the site confirms it by calling back.
package presentation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ja-he/workbench/internal/memento"
	"github.com/ja-he/workbench/internal/styling"
	"github.com/ja-he/workbench/internal/ui"
)

// State is the visual state of a stack.
type State int

const (
	// Restored is the initial state.
	Restored State = iota
	Minimized
	Maximized
)

// String returns the name of the state, as used in configuration and saved
// sessions.
func (s State) String() string {
	switch s {
	case Restored:
		return "restored"
	case Minimized:
		return "minimized"
	case Maximized:
		return "maximized"
	}
	return "[unknown state]"
}

// ParseState returns the state of the given name.
func ParseState(name string) (State, error) {
	switch name {
	case "restored":
		return Restored, nil
	case "minimized":
		return Minimized, nil
	case "maximized":
		return Maximized, nil
	}
	return Restored, fmt.Errorf("unknown stack state '%s'", name)
}

// ActiveState is the activation level of a stack.
type ActiveState int

const (
	Inactive ActiveState = iota
	ActiveNoFocus
	ActiveFocus
)

// String returns the name of the activation level.
func (a ActiveState) String() string {
	switch a {
	case Inactive:
		return "inactive"
	case ActiveNoFocus:
		return "active-nofocus"
	case ActiveFocus:
		return "active-focus"
	}
	return "[unknown activation]"
}

// SiteID identifies a site in a Registry.
type SiteID uuid.UUID

// String returns the textual form of the id.
func (id SiteID) String() string { return uuid.UUID(id).String() }

// PresentablePart is a part as seen by a presentation.
type PresentablePart interface {
	Key() string
	PartName() string
	TitleToolTip() string
	IsDirty() bool

	SetVisible(visible bool)
	Draw(r ui.ConstrainedRenderer, stylesheet *styling.Stylesheet)
}

// DropTarget is the result of a successful drag negotiation. The cookie is
// opaque to everyone but the presentation that returned it.
type DropTarget struct {
	Site   SiteID
	Cookie any
}

// StackPresentation renders a stack.
//
// Every method is called by the owning site only, after the site has
// applied the corresponding change.
type StackPresentation interface {
	SetState(state State)
	SetActive(active ActiveState)

	AddPart(p PresentablePart, cookie any)
	RemovePart(p PresentablePart)
	SelectPart(p PresentablePart)

	// DragOver returns the cookie for dropping p at the given location, and
	// false if p can not be dropped there. It must not change anything.
	DragOver(p PresentablePart, location int) (cookie any, ok bool)

	SaveState(m *memento.Memento)
	RestoreState(m *memento.Memento)

	Dispose()
}

// Ordered is implemented by presentations that arrange their parts
// themselves, e.g. at a drop position. The site keeps its members in the
// order the presentation reports.
type Ordered interface {
	PartOrder() []PresentablePart
}

// Factory creates the presentation for a new site.
type Factory func(registry *Registry, id SiteID) StackPresentation

// Handler is informed of the requests of a site it has to act on, usually
// by the page owning the site.
type Handler interface {
	// ActivationRequested is called when the user asks for a member to
	// become the active part.
	ActivationRequested(site *StackSite, p PresentablePart) error
	// CloseRequested is called with the members to close. It either closes
	// all of them, detaching them from the site, or returns an error and
	// closes none.
	CloseRequested(site *StackSite, parts []PresentablePart) error
	// StateChanged is called after the site changed its state.
	StateChanged(site *StackSite, from, to State)
}
