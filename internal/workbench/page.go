// Package workbench implements the page: the orchestrator owning the views,
// editors and stacks of a workbench window and tracking which part is active.
package workbench

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ja-he/workbench/internal/activation"
	"github.com/ja-he/workbench/internal/config"
	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/memento"
	"github.com/ja-he/workbench/internal/part"
	"github.com/ja-he/workbench/internal/presentation"
	"github.com/ja-he/workbench/internal/toolkit"
	"github.com/ja-he/workbench/internal/viewfactory"
)

// PropertyCloseable is the descriptor property that, set to "false", keeps a
// view from being closed by its stack.
const PropertyCloseable = "closeable"

// DescriptorFinder looks up part descriptors.
type DescriptorFinder interface {
	FindDescriptor(id string) (*part.Descriptor, bool)
}

// Options configure a new page.
type Options struct {
	Toolkit  toolkit.Toolkit
	Parent   toolkit.Control
	Registry DescriptorFinder
	// Presentation creates the presentation of each stack.
	Presentation presentation.Factory
	// Layout declares the page's stacks and the default placement of views.
	Layout config.Layout
	Logger zerolog.Logger
}

// Page owns the parts and stacks of a workbench window.
//
// All methods must be called from the goroutine processing user input.
type Page struct {
	logger   zerolog.Logger
	toolkit  toolkit.Toolkit
	parent   toolkit.Control
	registry DescriptorFinder
	layout   config.Layout

	views      *viewfactory.ViewFactory
	activation *activation.List

	sites         *presentation.Registry
	stacks        []*presentation.StackSite
	editorStack   *presentation.StackSite
	viewPlacement map[string]*presentation.StackSite
	// placing overrides the placement of the next added view
	placing *presentation.StackSite

	stackOf      map[*part.Reference]*presentation.StackSite
	presentables map[*part.Reference]*presentable

	editors []*part.Reference
	// saved state of editors not yet reopened, by key
	pendingEditors map[string]*memento.Memento

	activePart         *part.Reference
	activeEditor       *part.Reference
	partBeingActivated *part.Reference
	// kind of the active part when it was removed, until the next recompute
	orphanedKind part.Kind

	deferCount       int
	recomputeQueued  bool
	pendingDisposals []*part.Reference
	recomputations   int

	listeners []PartListener
	closed    bool
}

// NewPage creates a page with the stacks declared in the layout. The stacks
// are empty until either ResetLayout or RestoreState fills them.
func NewPage(options Options) (*Page, error) {
	p := &Page{
		logger:         options.Logger,
		toolkit:        options.Toolkit,
		parent:         options.Parent,
		registry:       options.Registry,
		layout:         options.Layout,
		activation:     activation.New(),
		sites:          presentation.NewRegistry(),
		viewPlacement:  map[string]*presentation.StackSite{},
		stackOf:        map[*part.Reference]*presentation.StackSite{},
		presentables:   map[*part.Reference]*presentable{},
		pendingEditors: map[string]*memento.Memento{},
	}
	p.views = viewfactory.New(p, options.Registry, options.Logger)
	p.views.SetObserver(&viewObserver{page: p})

	for _, stack := range options.Layout.Stacks {
		supported := []presentation.State{}
		for _, name := range stack.SupportedStates {
			state, err := presentation.ParseState(name)
			if err != nil {
				return nil, fault.Configuration("create stack", stack.ID, err)
			}
			supported = append(supported, state)
		}
		site := presentation.NewStackSite(p.sites, stack.ID, options.Presentation, presentation.Options{
			SupportedStates: supported,
			Closeable:       p.isCloseable,
		}, options.Logger)
		site.SetHandler(&stackHandler{page: p})
		p.stacks = append(p.stacks, site)

		if stack.Editors {
			if p.editorStack != nil {
				return nil, fault.Configuration("create stack", stack.ID, errors.New("more than one editor stack"))
			}
			p.editorStack = site
		}
		for _, key := range stack.Views {
			p.viewPlacement[key] = site
		}
	}
	if len(p.stacks) == 0 {
		return nil, fault.Configuration("create page", "", errors.New("layout has no stacks"))
	}
	return p, nil
}

// Toolkit returns the toolkit part controls are created with.
func (p *Page) Toolkit() toolkit.Toolkit { return p.toolkit }

// Parent returns the control part controls are created under.
func (p *Page) Parent() toolkit.Control { return p.parent }

// Logger returns the page's logger.
func (p *Page) Logger() zerolog.Logger { return p.logger }

// Stacks returns the stacks in layout order.
func (p *Page) Stacks() []*presentation.StackSite {
	result := make([]*presentation.StackSite, len(p.stacks))
	copy(result, p.stacks)
	return result
}

// Stack returns the stack with the given id, or nil.
func (p *Page) Stack(id string) *presentation.StackSite {
	for _, site := range p.stacks {
		if site.StackID() == id {
			return site
		}
	}
	return nil
}

// StackOf returns the stack the given part is in, or nil.
func (p *Page) StackOf(ref *part.Reference) *presentation.StackSite { return p.stackOf[ref] }

// SetState asks the stack with the given id to change its state.
func (p *Page) SetState(stackID string, state presentation.State) error {
	if err := p.checkOpen("set state", stackID); err != nil {
		return err
	}
	site := p.Stack(stackID)
	if site == nil {
		return fault.Configuration("set state", stackID, errors.New("no such stack"))
	}
	return site.SetState(state)
}

// ActivePart returns the active part, or nil.
func (p *Page) ActivePart() *part.Reference { return p.activePart }

// ActiveEditor returns the most recently active editor, which stays the
// active editor while a view is active, or nil.
func (p *Page) ActiveEditor() *part.Reference { return p.activeEditor }

// Recomputations returns how often the active part was recomputed.
func (p *Page) Recomputations() int { return p.recomputations }

// IsClosed reports whether the page was closed.
func (p *Page) IsClosed() bool { return p.closed }

func (p *Page) checkOpen(op, subject string) error {
	if p.closed {
		return fault.Protocol(op, subject, errors.New("page is closed"))
	}
	return nil
}

// violation logs and returns a protocol violation.
func (p *Page) violation(op, subject string, cause error) error {
	err := fault.Protocol(op, subject, cause)
	p.logger.Error().Err(err).Msg("rejected request")
	return err
}

func (p *Page) isCloseable(pp presentation.PresentablePart) bool {
	wrapped, ok := pp.(*presentable)
	if !ok {
		return true
	}
	desc := wrapped.ref.Descriptor()
	if desc == nil {
		return true
	}
	return desc.Properties[PropertyCloseable] != "false"
}

// place adds the part to the given stack.
func (p *Page) place(ref *part.Reference, site *presentation.StackSite) error {
	pp := &presentable{ref: ref}
	p.presentables[ref] = pp
	p.stackOf[ref] = site
	ref.AddPropertyListener(p.propertyChanged)
	if err := site.AddPart(pp, nil); err != nil {
		delete(p.presentables, ref)
		delete(p.stackOf, ref)
		return err
	}
	p.fire(PartOpened, ref)
	return nil
}

func (p *Page) propertyChanged(ref *part.Reference, key string) {
	if key == part.KeyInput {
		p.fire(PartInputChanged, ref)
	}
}

// viewStack returns the stack a view with the given key goes into: the
// stack declaring its key, else the stack declaring its primary id, else the
// first stack that is not the editor stack.
func (p *Page) viewStack(key string) *presentation.StackSite {
	if p.placing != nil {
		return p.placing
	}
	if site, ok := p.viewPlacement[key]; ok {
		return site
	}
	if site, ok := p.viewPlacement[viewfactory.ExtractPrimaryID(key)]; ok {
		return site
	}
	for _, site := range p.stacks {
		if site != p.editorStack {
			return site
		}
	}
	return p.stacks[0]
}

// ShowView shows the view with the given ids, creating it if it is not
// shown yet, and activates it.
func (p *Page) ShowView(primaryID, secondaryID string) (*part.Reference, error) {
	key := viewfactory.Key(primaryID, secondaryID)
	if err := p.checkOpen("show view", key); err != nil {
		return nil, err
	}
	ref := p.views.Find(primaryID, secondaryID)
	if ref == nil {
		var err error
		ref, err = p.views.Acquire(primaryID, secondaryID)
		if err != nil {
			p.logger.Error().Err(err).Str("part", key).Msg("could not show view")
			return nil, err
		}
	}
	return ref, p.Activate(ref)
}

// FindView returns the shown view with the given ids, or nil.
func (p *Page) FindView(primaryID, secondaryID string) *part.Reference {
	return p.views.Find(primaryID, secondaryID)
}

// ViewReferences returns the shown views in the order they were shown.
func (p *Page) ViewReferences() []*part.Reference { return p.views.References() }

// HideView hides the given view. Its state is kept for when it is shown
// again.
func (p *Page) HideView(ref *part.Reference) error {
	if err := p.checkOpen("hide view", ref.Key()); err != nil {
		return err
	}
	if ref.Kind() != part.KindView || p.views.ReferenceCount(ref) == 0 {
		return p.violation("hide view", ref.Key(), errors.New("view is not shown"))
	}
	if ref == p.partBeingActivated {
		return p.violation("hide view", ref.Key(), errors.New("view is being activated"))
	}
	return p.views.Release(ref)
}

// removePart takes a part that is going away off its stack and out of
// activation, recomputes the active part and disposes the part, or queues
// its disposal while updates are deferred.
func (p *Page) removePart(ref *part.Reference) {
	if site, ok := p.stackOf[ref]; ok {
		if err := site.Detach(p.presentables[ref]); err != nil {
			p.logger.Warn().Err(err).Msg("part was not in its stack")
		}
		delete(p.stackOf, ref)
		delete(p.presentables, ref)
	}

	p.activation.Remove(ref)
	if ref == p.activeEditor {
		p.activeEditor = p.activation.ActiveReference(true)
	}
	if ref == p.activePart {
		ref.Deactivate()
		p.activePart = nil
		p.orphanedKind = ref.Kind()
		p.fire(PartDeactivated, ref)
	}
	p.UpdateActivePart()
	p.fire(PartClosed, ref)

	if p.deferCount > 0 {
		p.pendingDisposals = append(p.pendingDisposals, ref)
		return
	}
	p.dispose(ref)
}

func (p *Page) dispose(ref *part.Reference) {
	if err := ref.Dispose(); err != nil {
		p.logger.Error().Err(err).Str("part", ref.Key()).Msg("could not dispose part")
	}
}

// Close closes all editors and views and disposes the stacks. The page can
// not be used afterwards.
func (p *Page) Close() error {
	if p.closed {
		return nil
	}
	if p.partBeingActivated != nil {
		return p.violation("close page", p.partBeingActivated.Key(), errors.New("part is being activated"))
	}
	var errs []error
	p.Deferred(func() {
		if err := p.CloseAllEditors(); err != nil {
			errs = append(errs, err)
		}
		for _, ref := range p.views.References() {
			for p.views.ReferenceCount(ref) > 0 {
				if err := p.views.Release(ref); err != nil {
					errs = append(errs, err)
					break
				}
			}
		}
	})
	for _, site := range p.stacks {
		site.Dispose()
	}
	p.closed = true
	p.logger.Debug().Msg("closed page")
	if len(errs) > 0 {
		return fmt.Errorf("could not close page cleanly (%w)", errors.Join(errs...))
	}
	return nil
}

// viewObserver places views created by the view factory and removes the
// released ones.
type viewObserver struct{ page *Page }

func (o *viewObserver) PartAdded(ref *part.Reference) {
	site := o.page.viewStack(ref.Key())
	if err := o.page.place(ref, site); err != nil {
		o.page.logger.Error().Err(err).Str("part", ref.Key()).Msg("could not place view")
	}
}

func (o *viewObserver) PartRemoved(ref *part.Reference) { o.page.removePart(ref) }

// stackHandler acts on the requests of the page's stacks.
type stackHandler struct{ page *Page }

func (h *stackHandler) ActivationRequested(site *presentation.StackSite, pp presentation.PresentablePart) error {
	return h.page.Activate(pp.(*presentable).ref)
}

func (h *stackHandler) CloseRequested(site *presentation.StackSite, parts []presentation.PresentablePart) error {
	refs := make([]*part.Reference, 0, len(parts))
	for _, pp := range parts {
		refs = append(refs, pp.(*presentable).ref)
	}
	return h.page.closeParts(refs)
}

// StateChanged restores a previously maximized stack when another one is
// maximized, so that at most one stack is maximized.
func (h *stackHandler) StateChanged(site *presentation.StackSite, from, to presentation.State) {
	if to != presentation.Maximized {
		return
	}
	for _, other := range h.page.stacks {
		if other != site && other.State() == presentation.Maximized {
			if err := other.SetState(presentation.Restored); err != nil {
				h.page.logger.Error().Err(err).Msg("could not restore previously maximized stack")
			}
		}
	}
}

// closeParts closes views and editors as one batch, or none of them.
func (p *Page) closeParts(refs []*part.Reference) error {
	if err := p.checkOpen("close", ""); err != nil {
		return err
	}
	refs = distinct(refs)
	for _, ref := range refs {
		if ref == p.partBeingActivated {
			return p.violation("close", ref.Key(), errors.New("part is being activated"))
		}
		if _, placed := p.stackOf[ref]; !placed {
			return p.violation("close", ref.Key(), errors.New("part is not open"))
		}
	}
	var errs []error
	p.Deferred(func() {
		for _, ref := range refs {
			var err error
			if ref.Kind() == part.KindEditor {
				err = p.closeEditor(ref)
			} else {
				err = p.views.Release(ref)
			}
			if err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

// distinct drops repeated references, keeping the first occurrence.
func distinct(refs []*part.Reference) []*part.Reference {
	seen := map[*part.Reference]bool{}
	result := make([]*part.Reference, 0, len(refs))
	for _, ref := range refs {
		if !seen[ref] {
			seen[ref] = true
			result = append(result, ref)
		}
	}
	return result
}

var _ part.Host = (*Page)(nil)
