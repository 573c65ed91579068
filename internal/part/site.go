package part

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ja-he/workbench/internal/control/action"
	"github.com/ja-he/workbench/internal/input"
)

// Site is the part's handle to the page. Each materialized part owns exactly
// one site, which is disposed together with it.
type Site struct {
	ref        *Reference
	actionBars *ActionBars
	logger     zerolog.Logger
	disposed   bool
}

func newSite(ref *Reference) *Site {
	return &Site{
		ref:        ref,
		actionBars: &ActionBars{bindings: input.EmptyTree()},
		logger:     ref.logger,
	}
}

// Reference returns the reference the site's part belongs to.
func (s *Site) Reference() *Reference { return s.ref }

// Key returns the compound key of the site's part.
func (s *Site) Key() string { return s.ref.Key() }

// Host returns the page the part lives on.
func (s *Site) Host() Host { return s.ref.host }

// ActionBars returns the part's local action bars.
func (s *Site) ActionBars() *ActionBars { return s.actionBars }

// Logger returns a logger annotated with the part's key.
func (s *Site) Logger() *zerolog.Logger { return &s.logger }

// FirePropertyChange notifies the page that a property of the part (e.g.
// its name or dirty flag) changed.
func (s *Site) FirePropertyChange(key string) {
	if s.disposed {
		return
	}
	s.ref.propertyChanged(key)
}

// IsDisposed indicates whether the site was disposed.
func (s *Site) IsDisposed() bool { return s.disposed }

func (s *Site) dispose() { s.disposed = true }

// Contribution is an action contributed to action bars, bound to a key
// sequence.
type Contribution struct {
	Keyspec input.Keyspec
	Action  action.Action
}

// ActionBars hold the actions a part contributes. They are visible, i.E. take
// part in input processing, only while the part is active.
type ActionBars struct {
	contributions []Contribution
	bindings      *input.Tree
	text          input.Processor
	visible       bool
	disposed      bool
}

// Add contributes the given action, bound to the given key sequence.
func (b *ActionBars) Add(keyspec input.Keyspec, a action.Action) error {
	if b.disposed {
		return fmt.Errorf("could not contribute '%s' (action bars disposed)", keyspec)
	}
	if err := b.bindings.Bind(keyspec, a); err != nil {
		return err
	}
	b.contributions = append(b.contributions, Contribution{Keyspec: keyspec, Action: a})
	return nil
}

// SetTextInput sets a processor that is offered input before the bound key
// sequences, e.g. for a part accepting typed text.
func (b *ActionBars) SetTextInput(p input.Processor) { b.text = p }

// Contributions returns the contributed actions in contribution order.
func (b *ActionBars) Contributions() []Contribution {
	result := make([]Contribution, len(b.contributions))
	copy(result, b.contributions)
	return result
}

// Processor returns the input processor for the action bars, or nil if they
// are not visible.
func (b *ActionBars) Processor() input.Processor {
	if !b.IsVisible() {
		return nil
	}
	if b.text == nil {
		return b.bindings
	}
	return input.NewChain(func() []input.Processor { return []input.Processor{b.bindings, b.text} })
}

// SetVisible shows or hides the action bars.
func (b *ActionBars) SetVisible(visible bool) { b.visible = visible }

// IsVisible indicates whether the action bars are shown.
func (b *ActionBars) IsVisible() bool { return b.visible && !b.disposed }

// Dispose drops all contributions.
func (b *ActionBars) Dispose() {
	b.disposed = true
	b.contributions = nil
	b.bindings = input.EmptyTree()
	b.text = nil
}

// IsDisposed indicates whether the action bars were disposed.
func (b *ActionBars) IsDisposed() bool { return b.disposed }
