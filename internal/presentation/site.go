package presentation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/memento"
)

// Memento tags and keys of a saved stack.
const (
	TagPage         = "page"
	TagPresentation = "presentation"
	TagProperties   = "properties"
	TagProperty     = "property"

	KeyContent      = "content"
	KeyLabel        = "label"
	KeyState        = "state"
	KeyActivePageID = "activePageID"
)

// StackSite controls one stack of parts and its presentation.
type StackSite struct {
	id       SiteID
	stackID  string
	registry *Registry
	logger   zerolog.Logger

	presentation StackPresentation
	handler      Handler

	supported map[State]bool
	closeable func(p PresentablePart) bool
	moveable  func(p PresentablePart) bool

	state    State
	active   ActiveState
	parts    []PresentablePart
	selected PresentablePart

	properties map[string]string
	disposed   bool
}

// Options configure a new site.
type Options struct {
	// SupportedStates are the states the stack may take besides Restored,
	// which is always supported.
	SupportedStates []State
	// Closeable and Moveable veto closing and moving members. Nil means
	// every member may be closed or moved.
	Closeable func(p PresentablePart) bool
	Moveable  func(p PresentablePart) bool
}

// NewStackSite registers a new site for the stack with the given id and
// creates its presentation with the given factory.
func NewStackSite(registry *Registry, stackID string, factory Factory, options Options, logger zerolog.Logger) *StackSite {
	s := &StackSite{
		stackID:    stackID,
		registry:   registry,
		logger:     logger.With().Str("stack", stackID).Logger(),
		supported:  map[State]bool{Restored: true},
		closeable:  options.Closeable,
		moveable:   options.Moveable,
		properties: map[string]string{},
	}
	for _, state := range options.SupportedStates {
		s.supported[state] = true
	}
	s.id = registry.register(s)
	s.presentation = factory(registry, s.id)
	return s
}

// ID returns the id the site is registered with.
func (s *StackSite) ID() SiteID { return s.id }

// StackID returns the id of the stack in the page layout.
func (s *StackSite) StackID() string { return s.stackID }

// Presentation returns the site's presentation.
func (s *StackSite) Presentation() StackPresentation { return s.presentation }

// SetHandler sets the handler acting on the site's requests.
func (s *StackSite) SetHandler(h Handler) { s.handler = h }

// State returns the confirmed state of the stack.
func (s *StackSite) State() State { return s.state }

// Active returns the activation level of the stack.
func (s *StackSite) Active() ActiveState { return s.active }

// Selected returns the selected member, or nil if the stack is empty.
func (s *StackSite) Selected() PresentablePart { return s.selected }

// Parts returns the members in the order they were added.
func (s *StackSite) Parts() []PresentablePart {
	result := make([]PresentablePart, len(s.parts))
	copy(result, s.parts)
	return result
}

// Contains reports whether p is a member of the stack.
func (s *StackSite) Contains(p PresentablePart) bool { return s.indexOf(p) >= 0 }

// SupportsState reports whether the stack may take the given state.
func (s *StackSite) SupportsState(state State) bool { return s.supported[state] }

// IsCloseable reports whether p may be closed.
func (s *StackSite) IsCloseable(p PresentablePart) bool {
	return s.closeable == nil || s.closeable(p)
}

// IsPartMoveable reports whether p may be moved.
func (s *StackSite) IsPartMoveable(p PresentablePart) bool {
	return s.moveable == nil || s.moveable(p)
}

// violation logs and returns a protocol violation.
func (s *StackSite) violation(op, subject string, cause error) error {
	err := fault.Protocol(op, subject, cause)
	s.logger.Error().Err(err).Msg("rejected presentation request")
	return err
}

// SetState changes the stack's state and only then tells the presentation.
// An unsupported state is rejected, leaving everything unchanged.
func (s *StackSite) SetState(state State) error {
	if !s.SupportsState(state) {
		return s.violation("set state", state.String(), errors.New("state not supported by stack"))
	}
	if state == s.state {
		return nil
	}
	old := s.state
	s.state = state
	s.presentation.SetState(state)
	s.logger.Debug().Str("from", old.String()).Str("to", state.String()).Msg("changed stack state")
	if s.handler != nil {
		s.handler.StateChanged(s, old, state)
	}
	return nil
}

// SetActive sets the activation level and propagates it to the presentation.
func (s *StackSite) SetActive(active ActiveState) {
	s.active = active
	s.presentation.SetActive(active)
}

// AddPart adds p to the stack, where the cookie of a drop target places it.
// Adding to an empty stack selects the new member.
func (s *StackSite) AddPart(p PresentablePart, cookie any) error {
	if s.Contains(p) {
		return s.violation("add part", p.Key(), errors.New("part already in stack"))
	}
	s.parts = append(s.parts, p)
	p.SetVisible(false)
	s.presentation.AddPart(p, cookie)
	s.syncOrder()
	if s.selected == nil {
		s.selectPart(p)
	}
	return nil
}

// RemovePart removes p from the stack unless it may not be closed.
func (s *StackSite) RemovePart(p PresentablePart) error {
	if !s.Contains(p) {
		return s.violation("remove part", p.Key(), errors.New("part not in stack"))
	}
	if !s.IsCloseable(p) {
		return s.violation("remove part", p.Key(), errors.New("part is not closeable"))
	}
	s.removePart(p)
	return nil
}

// Detach removes p from the stack regardless of whether it is closeable.
// It is used by the page when the part itself goes away.
func (s *StackSite) Detach(p PresentablePart) error {
	if !s.Contains(p) {
		return fault.Protocol("detach", p.Key(), errors.New("part not in stack"))
	}
	s.removePart(p)
	return nil
}

func (s *StackSite) removePart(p PresentablePart) {
	i := s.indexOf(p)
	s.parts = append(s.parts[:i], s.parts[i+1:]...)
	s.presentation.RemovePart(p)
	p.SetVisible(false)
	if s.selected != p {
		return
	}
	s.selected = nil
	if len(s.parts) > 0 {
		if i >= len(s.parts) {
			i = len(s.parts) - 1
		}
		s.selectPart(s.parts[i])
	}
}

// MovePart moves a member to where the cookie places it: it is removed, added
// again and selected again if it was selected before.
func (s *StackSite) MovePart(p PresentablePart, cookie any) error {
	if !s.Contains(p) {
		return s.violation("move part", p.Key(), errors.New("part not in stack"))
	}
	if !s.IsPartMoveable(p) {
		return s.violation("move part", p.Key(), errors.New("part is not moveable"))
	}
	i := s.indexOf(p)
	s.parts = append(s.parts[:i], s.parts[i+1:]...)
	s.presentation.RemovePart(p)
	s.parts = append(s.parts, p)
	s.presentation.AddPart(p, cookie)
	s.syncOrder()
	// the selection never moves to a neighbour while p is in transit
	if s.selected == p {
		s.presentation.SelectPart(p)
	}
	return nil
}

// syncOrder takes over the member order of an Ordered presentation, as long
// as it holds exactly the site's members.
func (s *StackSite) syncOrder() {
	ordered, ok := s.presentation.(Ordered)
	if !ok {
		return
	}
	order := ordered.PartOrder()
	if len(order) != len(s.parts) {
		return
	}
	for _, p := range order {
		if !s.Contains(p) {
			return
		}
	}
	s.parts = append(s.parts[:0], order...)
}

// SelectPart makes p the foreground member without changing the stack's
// state or activation. Selecting the selected member does nothing.
func (s *StackSite) SelectPart(p PresentablePart) error {
	if !s.Contains(p) {
		return s.violation("select part", p.Key(), errors.New("part not in stack"))
	}
	if s.selected != p {
		s.selectPart(p)
	}
	return nil
}

func (s *StackSite) selectPart(p PresentablePart) {
	if s.selected != nil {
		s.selected.SetVisible(false)
	}
	s.selected = p
	p.SetVisible(true)
	s.presentation.SelectPart(p)
}

// RequestActivation asks for p to become the page's active part. Without a
// handler, p is merely selected.
func (s *StackSite) RequestActivation(p PresentablePart) error {
	if !s.Contains(p) {
		return s.violation("activate part", p.Key(), errors.New("part not in stack"))
	}
	if s.handler == nil {
		return s.SelectPart(p)
	}
	return s.handler.ActivationRequested(s, p)
}

// DragOver asks the presentation where p would land at location, without
// changing anything. It returns nil if p may not be dropped there.
func (s *StackSite) DragOver(p PresentablePart, location int) *DropTarget {
	if s.Contains(p) && !s.IsPartMoveable(p) {
		return nil
	}
	cookie, ok := s.presentation.DragOver(p, location)
	if !ok {
		return nil
	}
	return &DropTarget{Site: s.id, Cookie: cookie}
}

// Close closes the given members, each once. Unknown members reject the
// whole batch, members that may not be closed are left out of it. The handler may reject
// the remaining batch, in which case nothing is closed.
func (s *StackSite) Close(parts []PresentablePart) error {
	for _, p := range parts {
		if !s.Contains(p) {
			return s.violation("close", p.Key(), errors.New("part not in stack"))
		}
	}
	closing := []PresentablePart{}
	seen := map[PresentablePart]bool{}
	for _, p := range parts {
		if seen[p] {
			continue
		}
		seen[p] = true
		if s.IsCloseable(p) {
			closing = append(closing, p)
		} else {
			s.logger.Debug().Str("part", p.Key()).Msg("part vetoed closing")
		}
	}
	if len(closing) == 0 {
		return nil
	}
	if s.handler != nil {
		return s.handler.CloseRequested(s, closing)
	}
	for _, p := range closing {
		s.removePart(p)
	}
	return nil
}

// SetProperty sets a stack property, which is persisted with the stack.
func (s *StackSite) SetProperty(key, value string) { s.properties[key] = value }

// Property returns a stack property and whether it is set.
func (s *StackSite) Property(key string) (string, bool) {
	v, ok := s.properties[key]
	return v, ok
}

// SaveState writes the stack's state, its members, its properties and the
// presentation's own state into m.
func (s *StackSite) SaveState(m *memento.Memento) {
	m.PutString(KeyState, s.state.String())
	if s.selected != nil {
		m.PutString(KeyActivePageID, s.selected.Key())
	}
	for _, p := range s.parts {
		page := m.CreateChild(TagPage)
		page.PutString(KeyContent, p.Key())
		page.PutString(KeyLabel, p.PartName())
	}
	s.presentation.SaveState(m.CreateChild(TagPresentation))

	if len(s.properties) > 0 {
		props := m.CreateChild(TagProperties)
		keys := make([]string, 0, len(s.properties))
		for k := range s.properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			props.CreateChildWithID(TagProperty, k).PutTextData(s.properties[k])
		}
	}
}

// SavedPages returns the member keys saved in m, in order.
func SavedPages(m *memento.Memento) []string {
	keys := []string{}
	for _, page := range m.GetChildren(TagPage) {
		if key, ok := page.GetString(KeyContent); ok && key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// RestoreState restores the stack's state, selection, properties and the
// presentation's state from m. The members must have been added already.
// Invalid values are skipped and reported in the returned error.
func (s *StackSite) RestoreState(m *memento.Memento) error {
	var errs []error

	if name, ok := m.GetString(KeyState); ok {
		state, err := ParseState(name)
		switch {
		case err != nil:
			errs = append(errs, fault.Persistence("restore", s.stackID, err))
		case !s.SupportsState(state):
			errs = append(errs, fault.Persistence("restore", s.stackID, fmt.Errorf("state '%s' not supported", name)))
		default:
			if err := s.SetState(state); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if key, ok := m.GetString(KeyActivePageID); ok {
		for _, p := range s.parts {
			if p.Key() == key {
				s.selectPart(p)
			}
		}
	}

	if props := m.GetChild(TagProperties); props != nil {
		for _, prop := range props.GetChildren(TagProperty) {
			text, _ := prop.GetTextData()
			if prop.GetID() != "" {
				s.properties[prop.GetID()] = text
			}
		}
	}

	if state := m.GetChild(TagPresentation); state != nil {
		s.presentation.RestoreState(state)
	}

	for _, err := range errs {
		s.logger.Warn().Err(err).Msg("skipping saved stack state")
	}
	return errors.Join(errs...)
}

// Dispose disposes the presentation and unregisters the site. Members are
// not disposed, they belong to the page.
func (s *StackSite) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.presentation.Dispose()
	s.registry.unregister(s.id)
}

// IsDisposed reports whether the site was disposed.
func (s *StackSite) IsDisposed() bool { return s.disposed }

func (s *StackSite) indexOf(p PresentablePart) int {
	for i, member := range s.parts {
		if member == p {
			return i
		}
	}
	return -1
}
