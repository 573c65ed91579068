package presentation

import (
	"github.com/google/uuid"
)

// Registry maps site ids to sites, so that presentations can refer to their
// site by id.
type Registry struct {
	sites map[SiteID]*StackSite
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sites: map[SiteID]*StackSite{}}
}

// Lookup returns the site with the given id and whether it exists.
func (r *Registry) Lookup(id SiteID) (*StackSite, bool) {
	site, ok := r.sites[id]
	return site, ok
}

// Sites returns the number of registered sites.
func (r *Registry) Sites() int { return len(r.sites) }

func (r *Registry) register(site *StackSite) SiteID {
	id := SiteID(uuid.New())
	r.sites[id] = site
	return id
}

func (r *Registry) unregister(id SiteID) { delete(r.sites, id) }
