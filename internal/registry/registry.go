// Package registry holds the descriptors of the views and editors that can be
// shown on a page.
package registry

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ja-he/workbench/internal/config"
	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/part"
)

// ClassFactory returns the factory for parts of a class, configured by their
// declaration.
type ClassFactory func(decl config.PartDescriptor) part.Factory

// Registry is a set of part descriptors keyed by id.
type Registry struct {
	descriptors map[string]*part.Descriptor
	order       []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{descriptors: map[string]*part.Descriptor{}}
}

// FromConfig builds a registry from the configured view and editor
// declarations, instantiating each through the factory of its class.
//
// A declaration of an unknown class is registered nonetheless; creating it
// fails, which shows an error part in its place.
func FromConfig(c config.Config, classes map[string]ClassFactory, logger zerolog.Logger) (*Registry, error) {
	r := New()
	register := func(decl config.PartDescriptor, kind part.Kind) error {
		var factory part.Factory
		if class, ok := classes[decl.Class]; ok {
			factory = class(decl)
		} else {
			logger.Warn().Str("id", decl.ID).Str("class", decl.Class).Msg("part declared with unknown class")
			cause := fault.Configuration("create", decl.ID, fmt.Errorf("unknown part class '%s'", decl.Class))
			factory = part.FactoryFunc(func() (part.Part, error) { return nil, cause })
		}
		return r.Register(&part.Descriptor{
			ID:            decl.ID,
			Label:         decl.Label,
			Kind:          kind,
			AllowMultiple: decl.AllowMultiple,
			Factory:       factory,
			Properties:    decl.Properties,
		})
	}

	for _, decl := range c.Views {
		if err := register(decl, part.KindView); err != nil {
			return nil, err
		}
	}
	for _, decl := range c.Editors {
		if err := register(decl, part.KindEditor); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a descriptor. Ids must be non-empty, unique and must not
// contain the compound key separator.
func (r *Registry) Register(desc *part.Descriptor) error {
	switch {
	case desc.ID == "":
		return fault.Configuration("register", desc.Label, fmt.Errorf("descriptor without id"))
	case strings.Contains(desc.ID, part.Separator):
		return fault.Configuration("register", desc.ID, fmt.Errorf("id contains '%s'", part.Separator))
	case r.descriptors[desc.ID] != nil:
		return fault.Configuration("register", desc.ID, fmt.Errorf("id already registered"))
	}
	r.descriptors[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	return nil
}

// FindDescriptor returns the descriptor registered with the given id.
func (r *Registry) FindDescriptor(id string) (*part.Descriptor, bool) {
	desc, ok := r.descriptors[id]
	return desc, ok
}

// Descriptors returns the descriptors of the given kind in registration
// order.
func (r *Registry) Descriptors(kind part.Kind) []*part.Descriptor {
	result := []*part.Descriptor{}
	for _, id := range r.order {
		if desc := r.descriptors[id]; desc.Kind == kind {
			result = append(result, desc)
		}
	}
	return result
}
