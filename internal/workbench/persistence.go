package workbench

import (
	"errors"
	"fmt"

	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/memento"
	"github.com/ja-he/workbench/internal/part"
	"github.com/ja-he/workbench/internal/presentation"
	"github.com/ja-he/workbench/internal/viewfactory"
)

// Memento tags and keys of a saved page.
const (
	TagEditors = "editors"
	TagEditor  = "editor"
	TagLayout  = "layout"
	TagStack   = "stack"

	KeyActivePart   = "activePart"
	KeyActiveEditor = "activeEditor"
)

// SaveState writes the open editors, the views and the layout of the page
// into root.
func (p *Page) SaveState(root *memento.Memento) bool {
	if p.closed {
		p.logger.Error().Msg("can not save state of closed page")
		return false
	}

	editors := root.CreateChild(TagEditors)
	for _, ref := range p.editors {
		ref.SaveState(editors.CreateChildWithID(TagEditor, ref.ID()))
	}

	p.views.SaveState(root.CreateChild(viewfactory.TagViews))

	layout := root.CreateChild(TagLayout)
	if p.activePart != nil {
		layout.PutString(KeyActivePart, p.activePart.Key())
	}
	if p.activeEditor != nil {
		layout.PutString(KeyActiveEditor, p.activeEditor.Key())
	}
	for _, site := range p.stacks {
		site.SaveState(layout.CreateChildWithID(TagStack, site.StackID()))
	}
	return true
}

// RestoreState replaces the page's contents with the state saved in root and
// activates the part with the key activeHint, or if that is empty the saved
// active part.
//
// An empty tree restores nothing. Saved elements that can not be restored
// are skipped, and false is returned to indicate that the restoration was
// incomplete.
func (p *Page) RestoreState(root *memento.Memento, activeHint string) bool {
	if root == nil || root.IsEmpty() {
		return true
	}
	if p.closed {
		p.logger.Error().Msg("can not restore state of closed page")
		return false
	}

	var errs []error
	p.clear()
	p.Deferred(func() {
		if views := root.GetChild(viewfactory.TagViews); views != nil {
			p.views.RestoreState(views)
		}
		errs = append(errs, p.restoreEditors(root.GetChild(TagEditors))...)
		errs = append(errs, p.restoreLayout(root.GetChild(TagLayout))...)
	})

	layout := root.GetChild(TagLayout)
	if layout == nil {
		layout = memento.New(TagLayout)
	}
	if key, ok := layout.GetString(KeyActiveEditor); ok {
		if ref := p.findByKey(key); ref != nil {
			if err := p.Activate(ref); err != nil {
				errs = append(errs, err)
			}
		}
	}
	active := activeHint
	if active == "" {
		active, _ = layout.GetString(KeyActivePart)
	}
	if active == "" {
		active = p.layout.Active
	}
	if ref := p.findByKey(active); ref != nil {
		if err := p.Activate(ref); err != nil {
			errs = append(errs, err)
		}
	}

	for _, err := range errs {
		p.logger.Warn().Err(err).Msg("skipped part of saved session")
	}
	return len(errs) == 0
}

func (p *Page) restoreEditors(editors *memento.Memento) []error {
	if editors == nil {
		return nil
	}
	var errs []error
	for _, saved := range editors.GetChildren(TagEditor) {
		id := saved.GetID()
		input, _ := saved.GetString(part.KeyInput)
		if id == "" || input == "" {
			errs = append(errs, fault.Persistence("restore", TagEditor, errors.New("editor without id or input")))
			continue
		}
		if p.editorStack == nil {
			errs = append(errs, fault.Persistence("restore", id, errors.New("layout has no editor stack")))
			continue
		}
		if p.FindEditor(id, input) != nil {
			errs = append(errs, fault.Persistence("restore", id, fmt.Errorf("duplicate editor for input '%s'", input)))
			continue
		}
		// an unknown editor is restored as an error part
		desc, ok := p.registry.FindDescriptor(id)
		if ok && desc.Kind != part.KindEditor {
			desc = nil
		}
		p.pendingEditors[part.CompoundKey(id, input)] = saved.Clone()
		if _, err := p.addEditor(id, input, desc); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (p *Page) restoreLayout(layout *memento.Memento) []error {
	if layout == nil {
		return nil
	}
	var errs []error
	for _, saved := range layout.GetChildren(TagStack) {
		site := p.Stack(saved.GetID())
		if site == nil {
			errs = append(errs, fault.Persistence("restore", saved.GetID(), errors.New("no such stack")))
			continue
		}
		if site != p.editorStack {
			p.placing = site
			for _, key := range presentation.SavedPages(saved) {
				if p.views.Find(viewfactory.ExtractPrimaryID(key), viewfactory.ExtractSecondaryID(key)) != nil {
					continue
				}
				if _, err := p.views.Acquire(viewfactory.ExtractPrimaryID(key), viewfactory.ExtractSecondaryID(key)); err != nil {
					errs = append(errs, err)
				}
			}
			p.placing = nil
		}
		if err := site.RestoreState(saved); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// findByKey returns the open view or editor with the given key, or nil.
func (p *Page) findByKey(key string) *part.Reference {
	if key == "" {
		return nil
	}
	if ref := p.views.Find(viewfactory.ExtractPrimaryID(key), viewfactory.ExtractSecondaryID(key)); ref != nil {
		return ref
	}
	for _, ref := range p.editors {
		if ref.Key() == key {
			return ref
		}
	}
	return nil
}

// ResetLayout replaces the page's contents with the default layout.
func (p *Page) ResetLayout() error {
	if err := p.checkOpen("reset layout", ""); err != nil {
		return err
	}
	p.clear()

	var errs []error
	for i, stack := range p.layout.Stacks {
		site := p.stacks[i]
		p.placing = site
		for _, key := range stack.Views {
			if _, err := p.views.Acquire(viewfactory.ExtractPrimaryID(key), viewfactory.ExtractSecondaryID(key)); err != nil {
				errs = append(errs, err)
			}
		}
		p.placing = nil
		if stack.State != "" {
			state, err := presentation.ParseState(stack.State)
			if err == nil {
				err = site.SetState(state)
			}
			if err != nil {
				errs = append(errs, fault.Configuration("reset layout", stack.ID, err))
			}
		}
	}
	if ref := p.findByKey(p.layout.Active); ref != nil {
		if err := p.Activate(ref); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// clear closes all editors and views and restores all stacks.
func (p *Page) clear() {
	p.Deferred(func() {
		for len(p.editors) > 0 {
			if err := p.closeEditor(p.editors[0]); err != nil {
				p.logger.Error().Err(err).Msg("could not close editor")
				break
			}
		}
		for _, ref := range p.views.References() {
			for p.views.ReferenceCount(ref) > 0 {
				if err := p.views.Release(ref); err != nil {
					p.logger.Error().Err(err).Msg("could not release view")
					break
				}
			}
		}
	})
	for _, site := range p.stacks {
		if err := site.SetState(presentation.Restored); err != nil {
			p.logger.Error().Err(err).Msg("could not restore stack")
		}
	}
}
