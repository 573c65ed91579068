// Package viewfactory shares view references between the requesters of a
// view by counting references per compound key.
//
// The first Acquire of a key creates the reference, later ones return the
// same reference. The last Release removes it, notifies the observer and,
// without an observer, disposes it.
package viewfactory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/memento"
	"github.com/ja-he/workbench/internal/part"
)

// Memento tags of the saved views.
const (
	TagViews = "views"
	TagView  = "view"
)

// DescriptorFinder looks up view descriptors.
type DescriptorFinder interface {
	FindDescriptor(id string) (*part.Descriptor, bool)
}

// Observer is notified when a reference is created and when its last
// holder released it.
//
// PartRemoved takes over disposal of the reference.
type Observer interface {
	PartAdded(ref *part.Reference)
	PartRemoved(ref *part.Reference)
}

type entry struct {
	ref   *part.Reference
	count int
}

// ViewFactory is the reference counter for the views of a page.
type ViewFactory struct {
	host     part.Host
	registry DescriptorFinder
	observer Observer
	logger   zerolog.Logger

	entries map[string]*entry
	order   []string

	// saved state per key, for views not currently referenced
	pending map[string]*memento.Memento
}

// New returns a view factory creating references on the given host.
func New(host part.Host, registry DescriptorFinder, logger zerolog.Logger) *ViewFactory {
	return &ViewFactory{
		host:     host,
		registry: registry,
		logger:   logger,
		entries:  map[string]*entry{},
		pending:  map[string]*memento.Memento{},
	}
}

// SetObserver sets the observer, usually the page.
func (f *ViewFactory) SetObserver(o Observer) { f.observer = o }

// Key returns the compound key of the given ids.
func Key(primaryID, secondaryID string) string {
	return part.CompoundKey(primaryID, secondaryID)
}

// ExtractPrimaryID returns the primary id of a compound key.
func ExtractPrimaryID(key string) string {
	if i := strings.Index(key, part.Separator); i >= 0 {
		return key[:i]
	}
	return key
}

// ExtractSecondaryID returns the secondary id of a compound key, which is
// empty if there is none.
func ExtractSecondaryID(key string) string {
	if i := strings.Index(key, part.Separator); i >= 0 {
		return key[i+len(part.Separator):]
	}
	return ""
}

// Acquire returns the reference for the given ids, creating it if it is not
// currently held, and increments its count.
func (f *ViewFactory) Acquire(primaryID, secondaryID string) (*part.Reference, error) {
	key := Key(primaryID, secondaryID)
	if primaryID == "" || strings.Contains(primaryID, part.Separator) {
		return nil, fault.Configuration("acquire", key, fmt.Errorf("malformed view id"))
	}
	desc, ok := f.registry.FindDescriptor(primaryID)
	if !ok || desc.Kind != part.KindView {
		return nil, fault.Configuration("acquire", key, fmt.Errorf("no view registered with id '%s'", primaryID))
	}
	if secondaryID != "" && !desc.AllowMultiple {
		return nil, fault.Configuration("acquire", key, fmt.Errorf("view does not allow multiple instances"))
	}

	if e, ok := f.entries[key]; ok {
		e.count++
		return e.ref, nil
	}

	state := f.pending[key]
	delete(f.pending, key)
	ref := part.NewViewReference(f.host, primaryID, secondaryID, desc, state)
	f.entries[key] = &entry{ref: ref, count: 1}
	f.order = append(f.order, key)
	f.logger.Debug().Str("part", key).Msg("created view reference")

	if f.observer != nil {
		f.observer.PartAdded(ref)
	}
	return ref, nil
}

// Release decrements the count of the given reference. At zero, the
// reference's state is kept for a later Acquire of the same key, the entry is
// removed and the observer notified; without observer, the reference is
// disposed right away.
func (f *ViewFactory) Release(ref *part.Reference) error {
	key := ref.Key()
	e, ok := f.entries[key]
	if !ok || e.ref != ref {
		return fault.Protocol("release", key, fmt.Errorf("reference is not held"))
	}
	e.count--
	if e.count > 0 {
		return nil
	}

	state := memento.New(TagView)
	ref.SaveState(state)
	f.pending[key] = state

	delete(f.entries, key)
	for i, k := range f.order {
		if k == key {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	f.logger.Debug().Str("part", key).Msg("released last view reference")

	if f.observer != nil {
		f.observer.PartRemoved(ref)
		return nil
	}
	return ref.Dispose()
}

// ReferenceCount returns the count of the given reference, which is zero if
// it is not held.
func (f *ViewFactory) ReferenceCount(ref *part.Reference) int {
	if e, ok := f.entries[ref.Key()]; ok && e.ref == ref {
		return e.count
	}
	return 0
}

// Find returns the held reference for the given ids, or nil.
func (f *ViewFactory) Find(primaryID, secondaryID string) *part.Reference {
	if e, ok := f.entries[Key(primaryID, secondaryID)]; ok {
		return e.ref
	}
	return nil
}

// References returns the held references in the order of their creation.
func (f *ViewFactory) References() []*part.Reference {
	result := make([]*part.Reference, 0, len(f.order))
	for _, key := range f.order {
		result = append(result, f.entries[key].ref)
	}
	return result
}

// SaveState writes one view element per held reference into m, followed by
// the kept state of views not currently held.
func (f *ViewFactory) SaveState(m *memento.Memento) {
	for _, key := range f.order {
		f.entries[key].ref.SaveState(m.CreateChildWithID(TagView, key))
	}

	keys := make([]string, 0, len(f.pending))
	for key := range f.pending {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		m.CreateChildWithID(TagView, key).PutMemento(f.pending[key])
	}
}

// RestoreState keeps the state of each view element of m, to be handed to
// the reference created by the next Acquire of its key.
// Elements without id are skipped.
func (f *ViewFactory) RestoreState(m *memento.Memento) {
	for _, child := range m.GetChildren(TagView) {
		key := child.GetID()
		if key == "" {
			err := fault.Persistence("restore", TagView, fmt.Errorf("element without id"))
			f.logger.Warn().Err(err).Msg("skipping saved view")
			continue
		}
		if _, held := f.entries[key]; held {
			f.logger.Warn().Str("part", key).Msg("not restoring state of a view that is already shown")
			continue
		}
		f.pending[key] = child.Clone()
	}
}

// PendingState returns the kept state for the given key, or nil.
func (f *ViewFactory) PendingState(key string) *memento.Memento {
	return f.pending[key]
}
