package workbench

import (
	"errors"
	"fmt"

	"github.com/ja-he/workbench/internal/part"
	"github.com/ja-he/workbench/internal/presentation"
)

// Activate makes ref the active part: the previous active part is
// deactivated, ref is brought to the top of its stack and of the activation
// history, activated and the change announced once.
//
// Activating the active part does nothing. While a part is being activated
// or created, any further activation is rejected.
func (p *Page) Activate(ref *part.Reference) error {
	if ref == nil {
		return fmt.Errorf("can not activate nil part")
	}
	if err := p.checkOpen("activate", ref.Key()); err != nil {
		return err
	}
	if p.partBeingActivated != nil {
		return p.violation("activate", ref.Key(), fmt.Errorf("part '%s' is being activated", p.partBeingActivated.Key()))
	}
	if ref.State() == part.StateCreating {
		return p.violation("activate", ref.Key(), errors.New("part is being created"))
	}
	if ref == p.activePart {
		return nil
	}
	if _, placed := p.stackOf[ref]; !placed {
		return p.violation("activate", ref.Key(), errors.New("part is not open in this page"))
	}

	p.partBeingActivated = ref
	defer func() { p.partBeingActivated = nil }()

	previous := p.activePart
	if previous != nil {
		previous.Deactivate()
		p.fire(PartDeactivated, previous)
	}
	if ref.Kind() == part.KindEditor {
		p.activeEditor = ref
	}
	p.activation.BringToTop(ref)
	p.bringToTop(ref)
	p.activePart = ref
	ref.Activate()
	p.updateStackActivation()

	p.logger.Debug().Str("part", ref.Key()).Msg("activated part")
	p.fire(PartActivated, ref)
	p.fire(ActivePartChanged, ref)
	return nil
}

// updateStackActivation gives focus to the active part's stack and marks
// the active editor's stack as active without focus.
func (p *Page) updateStackActivation() {
	for _, site := range p.stacks {
		level := presentation.Inactive
		switch {
		case p.activePart != nil && p.stackOf[p.activePart] == site:
			level = presentation.ActiveFocus
		case p.activeEditor != nil && p.stackOf[p.activeEditor] == site:
			level = presentation.ActiveNoFocus
		}
		if site.Active() != level {
			site.SetActive(level)
		}
	}
}

// BringToTop selects the part in its stack without activating it.
func (p *Page) BringToTop(ref *part.Reference) error {
	if err := p.checkOpen("bring to top", ref.Key()); err != nil {
		return err
	}
	if _, placed := p.stackOf[ref]; !placed {
		return p.violation("bring to top", ref.Key(), errors.New("part is not open in this page"))
	}
	p.bringToTop(ref)
	return nil
}

func (p *Page) bringToTop(ref *part.Reference) {
	site := p.stackOf[ref]
	pp := p.presentables[ref]
	if site.Selected() == presentation.PresentablePart(pp) {
		return
	}
	if err := site.SelectPart(pp); err != nil {
		p.logger.Error().Err(err).Msg("could not bring part to top")
		return
	}
	p.fire(PartBroughtToTop, ref)
}

// UpdateActivePart picks a new active part after the active one went away.
// An editor follows an editor; otherwise the most recently active view is
// preferred over the most recently active editor.
//
// While updates are deferred, the recomputation is queued instead.
func (p *Page) UpdateActivePart() {
	if p.deferCount > 0 {
		p.recomputeQueued = true
		return
	}
	p.recomputations++

	if p.activePart != nil && p.activation.Contains(p.activePart) {
		return
	}

	var candidate *part.Reference
	if p.orphanedKind == part.KindEditor {
		candidate = p.activation.ActiveReference(true)
	}
	if candidate == nil {
		candidate = p.activation.TopView()
	}
	if candidate == nil {
		candidate = p.activation.ActiveReference(true)
	}
	p.orphanedKind = 0

	if candidate == p.activePart {
		return
	}
	if candidate == nil {
		p.activePart = nil
		p.updateStackActivation()
		p.fire(ActivePartChanged, nil)
		return
	}
	if err := p.Activate(candidate); err != nil {
		p.logger.Error().Err(err).Msg("could not activate next part")
	}
}

// DeferUpdates enters (true) or leaves (false) a scope in which the
// recomputation of the active part and the disposal of removed parts are
// queued. Scopes nest; leaving the outermost scope recomputes the active
// part once and then performs the queued disposals in order.
func (p *Page) DeferUpdates(deferUpdates bool) {
	if deferUpdates {
		p.deferCount++
		return
	}
	if p.deferCount == 0 {
		p.logger.Warn().Msg("leaving deferred updates without having entered them")
		return
	}
	p.deferCount--
	if p.deferCount > 0 {
		return
	}

	if p.recomputeQueued {
		p.recomputeQueued = false
		p.UpdateActivePart()
	}
	disposals := p.pendingDisposals
	p.pendingDisposals = nil
	for _, ref := range disposals {
		p.dispose(ref)
	}
}

// Deferred runs f with updates deferred.
func (p *Page) Deferred(f func()) {
	p.DeferUpdates(true)
	defer p.DeferUpdates(false)
	f()
}

// IsDeferring reports whether updates are currently deferred.
func (p *Page) IsDeferring() bool { return p.deferCount > 0 }
