package workbench

import (
	"fmt"
	"sort"

	"github.com/ja-he/workbench/internal/control/action"
	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/input"
	"github.com/ja-he/workbench/internal/part"
	"github.com/ja-he/workbench/internal/presentation"
)

// Names of the page commands.
const (
	CommandNextPart      = "next-part"
	CommandPreviousPart  = "previous-part"
	CommandNextTab       = "next-tab"
	CommandClosePart     = "close-part"
	CommandMaximizeStack = "maximize-stack"
	CommandMinimizeStack = "minimize-stack"
	CommandRestoreStack  = "restore-stack"
)

// Commands returns the commands operating on the page, by name.
func (p *Page) Commands() map[string]action.Action {
	logged := func(op string, f func() error) func() {
		return func() {
			if err := f(); err != nil {
				p.logger.Error().Err(err).Str("command", op).Msg("command failed")
			}
		}
	}
	hasActive := func() bool { return p.activePart != nil }
	stateCommand := func(state presentation.State) action.Action {
		return action.NewSimple(
			func() string { return "set the active stack " + state.String() },
			logged("set state", func() error {
				return p.stackOf[p.activePart].SetState(state)
			}),
		).WithCondition(hasActive)
	}

	return map[string]action.Action{
		CommandNextPart: action.NewSimple(
			func() string { return "activate the next part" },
			logged(CommandNextPart, func() error { return p.CyclePart(1) }),
		),
		CommandPreviousPart: action.NewSimple(
			func() string { return "activate the previous part" },
			logged(CommandPreviousPart, func() error { return p.CyclePart(-1) }),
		),
		CommandNextTab: action.NewSimple(
			func() string { return "activate the next part in the active stack" },
			logged(CommandNextTab, func() error { return p.CycleTab(1) }),
		).WithCondition(hasActive),
		CommandClosePart: action.NewSimple(
			func() string { return "close the active part" },
			logged(CommandClosePart, func() error {
				site := p.stackOf[p.activePart]
				return site.Close([]presentation.PresentablePart{p.presentables[p.activePart]})
			}),
		).WithCondition(hasActive),
		CommandMaximizeStack: stateCommand(presentation.Maximized),
		CommandMinimizeStack: stateCommand(presentation.Minimized),
		CommandRestoreStack:  stateCommand(presentation.Restored),
	}
}

// Parts returns the open parts in stack order.
func (p *Page) Parts() []*part.Reference {
	result := []*part.Reference{}
	for _, site := range p.stacks {
		for _, pp := range site.Parts() {
			result = append(result, pp.(*presentable).ref)
		}
	}
	return result
}

// CyclePart activates the part delta positions away from the active part in
// stack order, wrapping around.
func (p *Page) CyclePart(delta int) error {
	return p.cycle(p.Parts(), delta)
}

// CycleTab activates the part delta positions away from the active part
// within the active part's stack, wrapping around.
func (p *Page) CycleTab(delta int) error {
	site := p.stackOf[p.activePart]
	if site == nil {
		return nil
	}
	refs := []*part.Reference{}
	for _, pp := range site.Parts() {
		refs = append(refs, pp.(*presentable).ref)
	}
	return p.cycle(refs, delta)
}

func (p *Page) cycle(refs []*part.Reference, delta int) error {
	if len(refs) == 0 {
		return nil
	}
	current := 0
	for i, ref := range refs {
		if ref == p.activePart {
			current = i
			break
		}
	}
	if p.activePart == nil {
		delta = 0
	}
	n := len(refs)
	return p.Activate(refs[((current+delta)%n+n)%n])
}

// BindCommands binds the commands to key sequences. keys maps a keyspec to
// the name of the command it triggers; keyspecs mapped to no command are
// ignored.
func BindCommands(keys map[string]string, commands map[string]action.Action) (*input.Tree, error) {
	keyspecs := make([]string, 0, len(keys))
	for keyspec := range keys {
		keyspecs = append(keyspecs, keyspec)
	}
	sort.Strings(keyspecs)

	tree := input.EmptyTree()
	for _, keyspec := range keyspecs {
		name := keys[keyspec]
		if name == "" {
			continue
		}
		command, ok := commands[name]
		if !ok {
			return nil, fault.Configuration("bind", keyspec, fmt.Errorf("unknown command '%s'", name))
		}
		if err := tree.Bind(input.Keyspec(keyspec), command); err != nil {
			return nil, fault.Configuration("bind", keyspec, err)
		}
	}
	return tree, nil
}
