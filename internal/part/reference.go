package part

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/memento"
	"github.com/ja-he/workbench/internal/toolkit"
)

// State is the lifecycle state of a reference's part.
type State int

const (
	// StateLazy means the part has not been created yet.
	StateLazy State = iota
	// StateCreating means the part is being created.
	StateCreating
	// StateCreated means the part (or its error substitute) exists.
	StateCreated
	// StateDisposed means the reference was disposed. It can not be revived.
	StateDisposed
)

// String returns the name of the state, e.g. for logging.
func (s State) String() string {
	switch s {
	case StateLazy:
		return "lazy"
	case StateCreating:
		return "creating"
	case StateCreated:
		return "created"
	case StateDisposed:
		return "disposed"
	}
	return "[unknown state]"
}

// Memento keys of a saved reference.
const (
	TagPartState   = "partState"
	TagProperties  = "properties"
	TagProperty    = "property"
	KeyPartName    = "partName"
	KeyToolTip     = "toolTip"
	KeyDescription = "contentDescription"
	KeyDirty       = "dirty"
	KeyInput       = "input"
	KeyPinned      = "pinned"
)

// Reference is a lazily materializing handle to a view or an editor.
//
// Its identity is fixed at construction. Name, tooltip, description and
// properties are cached, so they can be queried before the part exists and
// after it was disposed.
type Reference struct {
	kind        Kind
	primaryID   string
	secondaryID string
	input       string
	descriptor  *Descriptor
	host        Host
	logger      zerolog.Logger

	state   State
	part    Part
	site    *Site
	control toolkit.Control
	err     error

	// restored state of the previous session, the part's own subtree of which
	// is handed to Init
	pending *memento.Memento

	registeredName     string
	partName           string
	toolTip            string
	contentDescription string
	dirty              bool
	pinned             bool
	properties         map[string]string

	listeners []func(ref *Reference, key string)
}

// NewViewReference returns a reference to the view with the given ids.
// state is the reference's saved state of a previous session, or nil.
func NewViewReference(host Host, primaryID, secondaryID string, desc *Descriptor, state *memento.Memento) *Reference {
	return newReference(KindView, host, primaryID, secondaryID, "", desc, state)
}

// NewEditorReference returns a reference to an editor of the given id for the
// given input. The descriptor may be nil if the editor is no longer
// registered, in which case materializing yields an ErrorPart.
func NewEditorReference(host Host, editorID, input string, desc *Descriptor, state *memento.Memento) *Reference {
	return newReference(KindEditor, host, editorID, "", input, desc, state)
}

func newReference(kind Kind, host Host, primaryID, secondaryID, input string, desc *Descriptor, state *memento.Memento) *Reference {
	r := &Reference{
		kind:        kind,
		primaryID:   primaryID,
		secondaryID: secondaryID,
		input:       input,
		descriptor:  desc,
		host:        host,
		pending:     state,
		properties:  map[string]string{},
	}
	r.logger = host.Logger().With().Str("part", r.Key()).Str("kind", kind.String()).Logger()

	r.registeredName = primaryID
	if desc != nil {
		if desc.Label != "" {
			r.registeredName = desc.Label
		}
		for k, v := range desc.Properties {
			r.properties[k] = v
		}
	}
	r.partName = r.registeredName
	if kind == KindEditor && input != "" {
		r.partName = input
	}
	if state != nil {
		r.seedFromMemento(state)
	}
	return r
}

func (r *Reference) seedFromMemento(m *memento.Memento) {
	if v, ok := m.GetString(KeyPartName); ok && v != "" {
		r.partName = v
	}
	if v, ok := m.GetString(KeyToolTip); ok {
		r.toolTip = v
	}
	if v, ok := m.GetString(KeyDescription); ok {
		r.contentDescription = v
	}
	if v, ok := m.GetBoolean(KeyDirty); ok {
		r.dirty = v
	}
	if v, ok := m.GetBoolean(KeyPinned); ok {
		r.pinned = v
	}
	if props := m.GetChild(TagProperties); props != nil {
		for _, p := range props.GetChildren(TagProperty) {
			if p.GetID() == "" {
				continue
			}
			text, _ := p.GetTextData()
			r.properties[p.GetID()] = text
		}
	}
}

// Kind returns whether the reference is to a view or an editor.
func (r *Reference) Kind() Kind { return r.kind }

// ID returns the primary id (the editor id for editors).
func (r *Reference) ID() string { return r.primaryID }

// SecondaryID returns the secondary id, which is empty for single instance
// views and editors.
func (r *Reference) SecondaryID() string { return r.secondaryID }

// Input returns the name of an editor's input.
func (r *Reference) Input() string { return r.input }

// Key returns the compound key of the reference.
func (r *Reference) Key() string {
	if r.kind == KindEditor && r.input != "" {
		return CompoundKey(r.primaryID, r.input)
	}
	return CompoundKey(r.primaryID, r.secondaryID)
}

// Descriptor returns the descriptor the reference was created from, if any.
func (r *Reference) Descriptor() *Descriptor { return r.descriptor }

// State returns the lifecycle state.
func (r *Reference) State() State { return r.state }

// IsDisposed indicates whether the reference was disposed.
func (r *Reference) IsDisposed() bool { return r.state == StateDisposed }

// Err returns the error that caused the part to be substituted by an
// ErrorPart, or nil.
func (r *Reference) Err() error { return r.err }

// Site returns the site of the materialized part, or nil.
func (r *Reference) Site() *Site { return r.site }

// Control returns the control of the materialized part, or nil.
func (r *Reference) Control() toolkit.Control { return r.control }

// Part returns the part.
//
// If restore is false and the part does not exist, Part returns nil without
// side effects. Otherwise the part is created if necessary. Creation never
// fails: a part that can not be created is replaced with an ErrorPart.
// A request to create the part while it is being created is refused and
// returns nil, as is any request after disposal.
func (r *Reference) Part(restore bool) Part {
	switch r.state {
	case StateCreated:
		return r.part
	case StateDisposed:
		return nil
	case StateCreating:
		if restore {
			r.logger.Error().Msg("refusing recursive attempt to create part while it is being created")
		}
		return nil
	}
	if !restore {
		return nil
	}
	r.materialize()
	return r.part
}

func (r *Reference) materialize() {
	r.state = StateCreating
	r.logger.Debug().Msg("creating part")

	p, site, control, err := r.create()
	if err != nil {
		r.logger.Error().Err(err).Msg("could not create part, showing error part instead")
		r.err = err
		p, site, control, err = r.createErrorPart(err)
		if err != nil {
			r.logger.Error().Err(err).Msg("could not create control for error part")
		}
	}

	r.part, r.site, r.control = p, site, control
	r.state = StateCreated
	r.refreshFromPart()
}

func (r *Reference) create() (p Part, site *Site, control toolkit.Control, err error) {
	key := r.Key()

	defer func() {
		if err == nil {
			return
		}
		if p != nil {
			guard(func() error { p.Dispose(); return nil })
		}
		if control != nil {
			control.Dispose()
		}
		if site != nil {
			site.dispose()
			site.actionBars.Dispose()
		}
		p, site, control = nil, nil, nil
	}()

	if r.descriptor == nil || r.descriptor.Factory == nil {
		return nil, nil, nil, fault.Configuration("create", key, fmt.Errorf("no %s registered with id '%s'", r.kind, r.primaryID))
	}

	err = guard(func() error {
		var createErr error
		p, createErr = r.descriptor.Factory.Create()
		return createErr
	})
	if err != nil {
		return p, nil, nil, fault.Initialization("construct", key, err)
	}
	if p == nil {
		return nil, nil, nil, fault.Initialization("construct", key, errors.New("factory returned no part"))
	}

	site = newSite(r)
	if err = guard(func() error { return p.Init(site, r.partState()) }); err != nil {
		return p, site, nil, fault.Initialization("init", key, err)
	}
	if p.Site() != site {
		return p, site, nil, fault.Initialization("init", key, errors.New("part does not report the site it was initialized with"))
	}
	if contributor, ok := p.(Contributor); ok {
		if err = guard(func() error { return contributor.ContributeActions(site.actionBars) }); err != nil {
			return p, site, nil, fault.Initialization("contribute", key, err)
		}
	}

	control, err = r.host.Toolkit().CreateControl(r.host.Parent())
	if err != nil {
		return p, site, nil, fault.Initialization("create control", key, err)
	}
	if err = guard(func() error { return p.CreateControl(control) }); err != nil {
		return p, site, control, fault.Initialization("create control", key, err)
	}
	return p, site, control, nil
}

func (r *Reference) createErrorPart(cause error) (Part, *Site, toolkit.Control, error) {
	p := NewErrorPart(cause)
	site := newSite(r)
	// an error part can not fail to initialize
	_ = p.Init(site, nil)
	control, err := r.host.Toolkit().CreateControl(r.host.Parent())
	if err != nil {
		return p, site, nil, err
	}
	_ = p.CreateControl(control)
	return p, site, control, nil
}

// partState returns the part's own saved state, if any.
func (r *Reference) partState() *memento.Memento {
	if r.pending == nil {
		return nil
	}
	return r.pending.GetChild(TagPartState)
}

// refreshFromPart updates the cache from the materialized part.
func (r *Reference) refreshFromPart() {
	if r.part == nil {
		return
	}
	if name := r.part.Name(); name != "" {
		r.partName = name
	}
	if d, ok := r.part.(Describer); ok {
		r.toolTip = d.TitleToolTip()
		r.contentDescription = d.ContentDescription()
	}
	if d, ok := r.part.(Dirtier); ok {
		r.dirty = d.IsDirty()
	}
	if ps, ok := r.part.(PropertySource); ok {
		for k, v := range ps.PartProperties() {
			r.properties[k] = v
		}
	}
}

// AddPropertyListener registers a function called whenever the part fires a
// property change.
func (r *Reference) AddPropertyListener(listener func(ref *Reference, key string)) {
	r.listeners = append(r.listeners, listener)
}

func (r *Reference) propertyChanged(key string) {
	r.refreshFromPart()
	for _, l := range r.listeners {
		l(r, key)
	}
}

// RegisteredName returns the name the part is registered with.
func (r *Reference) RegisteredName() string { return r.registeredName }

// PartName returns the name of the part, which for editors usually is the
// name of their input.
func (r *Reference) PartName() string { return r.partName }

// TitleToolTip returns the part's tooltip.
func (r *Reference) TitleToolTip() string { return r.toolTip }

// ContentDescription returns the part's content description.
func (r *Reference) ContentDescription() string { return r.contentDescription }

// PartProperty returns the cached property and whether it is set.
func (r *Reference) PartProperty(key string) (string, bool) {
	v, ok := r.properties[key]
	return v, ok
}

// IsDirty indicates whether the part has unsaved changes.
func (r *Reference) IsDirty() bool {
	if d, ok := r.part.(Dirtier); ok && r.state == StateCreated {
		return d.IsDirty()
	}
	return r.dirty
}

// IsPinned indicates whether an editor is pinned, i.E. must not be reused
// for another input.
func (r *Reference) IsPinned() bool { return r.pinned }

// SetPinned pins or unpins an editor.
func (r *Reference) SetPinned(pinned bool) { r.pinned = pinned }

// Activate materializes the part if needed, shows its action bars and gives
// it focus.
func (r *Reference) Activate() {
	p := r.Part(true)
	if p == nil {
		return
	}
	r.site.actionBars.SetVisible(true)
	if err := guard(func() error { p.SetFocus(); return nil }); err != nil {
		r.logger.Error().Err(err).Msg("part failed to take focus")
	}
}

// Deactivate hides the part's action bars and notifies it.
func (r *Reference) Deactivate() {
	if r.state != StateCreated {
		return
	}
	r.site.actionBars.SetVisible(false)
	if d, ok := r.part.(Deactivator); ok {
		if err := guard(func() error { d.Deactivated(); return nil }); err != nil {
			r.logger.Error().Err(err).Msg("part failed to deactivate")
		}
	}
}

// Dispose disposes the part, then its control, its site and finally its
// action bars. Disposing a disposed reference does nothing; disposing a
// reference while its part is being created is refused.
func (r *Reference) Dispose() error {
	switch r.state {
	case StateDisposed:
		return nil
	case StateCreating:
		err := fault.Protocol("dispose", r.Key(), errors.New("part is being created"))
		r.logger.Error().Err(err).Msg("refusing to dispose part")
		return err
	}

	if r.part != nil {
		r.refreshFromPart()
		if err := guard(func() error { r.part.Dispose(); return nil }); err != nil {
			r.logger.Error().Err(err).Msg("part failed to dispose")
		}
	}
	if r.control != nil {
		r.control.Dispose()
	}
	if r.site != nil {
		r.site.dispose()
		r.site.actionBars.Dispose()
	}

	r.part, r.control = nil, nil
	r.state = StateDisposed
	r.logger.Debug().Msg("disposed part")
	return nil
}

// SaveState writes the reference's cached metadata and the part's state into
// m. The part's own state is saved by the part if it exists and saves state;
// otherwise the state restored from the previous session is carried over.
func (r *Reference) SaveState(m *memento.Memento) {
	if r.state == StateCreated {
		r.refreshFromPart()
	}
	m.PutString(KeyPartName, r.partName)
	if r.toolTip != "" {
		m.PutString(KeyToolTip, r.toolTip)
	}
	if r.contentDescription != "" {
		m.PutString(KeyDescription, r.contentDescription)
	}
	if r.kind == KindEditor {
		m.PutString(KeyInput, r.input)
		m.PutBoolean(KeyPinned, r.pinned)
		m.PutBoolean(KeyDirty, r.IsDirty())
	}

	if len(r.properties) > 0 {
		props := m.CreateChild(TagProperties)
		keys := make([]string, 0, len(r.properties))
		for k := range r.properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			props.CreateChildWithID(TagProperty, k).PutTextData(r.properties[k])
		}
	}

	if saver, ok := r.part.(StateSaver); ok && r.state == StateCreated {
		state := memento.New(TagPartState)
		if err := guard(func() error { saver.SaveState(state); return nil }); err != nil {
			r.logger.Error().Err(err).Msg("part failed to save its state, keeping previous state")
		} else {
			appendCopy(m, state)
			return
		}
	}
	if previous := r.partState(); previous != nil {
		appendCopy(m, previous)
	}
}

// appendCopy appends a deep copy of child to m.
func appendCopy(m, child *memento.Memento) {
	c := m.CreateChild(child.GetType())
	c.PutMemento(child)
	if text, ok := child.GetTextData(); ok {
		c.PutTextData(text)
	}
}

// guard runs f, converting a panic into an error.
func guard(f func() error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()
	return f()
}
