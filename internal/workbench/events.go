package workbench

import (
	"github.com/ja-he/workbench/internal/part"
)

// EventType is the type of a part event.
type EventType int

const (
	_ EventType = iota
	PartOpened
	PartClosed
	PartActivated
	PartDeactivated
	PartBroughtToTop
	ActivePartChanged
	PartInputChanged
)

// String returns the name of the event type.
func (t EventType) String() string {
	switch t {
	case PartOpened:
		return "opened"
	case PartClosed:
		return "closed"
	case PartActivated:
		return "activated"
	case PartDeactivated:
		return "deactivated"
	case PartBroughtToTop:
		return "brought-to-top"
	case ActivePartChanged:
		return "active-part-changed"
	case PartInputChanged:
		return "input-changed"
	}
	return "[unknown event]"
}

// PartEvent informs of a change of a part. For ActivePartChanged, Ref is the
// new active part, which may be nil.
type PartEvent struct {
	Type EventType
	Ref  *part.Reference
}

// PartListener is notified of part events.
type PartListener func(e PartEvent)

// AddPartListener registers a listener for the page's part events.
func (p *Page) AddPartListener(l PartListener) {
	p.listeners = append(p.listeners, l)
}

func (p *Page) fire(t EventType, ref *part.Reference) {
	e := PartEvent{Type: t, Ref: ref}
	for _, l := range p.listeners {
		l(e)
	}
}
