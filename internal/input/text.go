package input

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/ja-he/workbench/internal/control/action"
)

// TextProcessor is a Processor for text input.
// Runes are handed to its rune callback, other keys are looked up in its
// single-key mappings (e.g. <bs> for deleting a character).
type TextProcessor struct {
	mappings     map[Key]action.Action
	help         Help
	runeCallback func(r rune)
}

// NewTextProcessor returns a new TextProcessor.
// Every keyspec of mappings must denote exactly one key.
func NewTextProcessor(mappings map[Keyspec]action.Action, runeCallback func(r rune)) (*TextProcessor, error) {
	p := &TextProcessor{
		mappings:     map[Key]action.Action{},
		help:         Help{},
		runeCallback: runeCallback,
	}
	for keyspec, a := range mappings {
		keys, err := ParseKeyspec(keyspec)
		if err != nil {
			return nil, fmt.Errorf("could not convert '%s' to keys (%w)", keyspec, err)
		}
		if len(keys) != 1 {
			return nil, fmt.Errorf("keyspec '%s' for text processor has not exactly one key (but %d)", keyspec, len(keys))
		}
		p.mappings[keys[0]] = a
		p.help[keyspec] = a.Explain()
	}
	return p, nil
}

// ProcessInput hands runes to the rune callback and performs mapped actions
// for other keys.
func (p *TextProcessor) ProcessInput(key Key) bool {
	if key.Key == tcell.KeyRune {
		p.runeCallback(key.Ch)
		return true
	}
	a, ok := p.mappings[key]
	if !ok {
		return false
	}
	a.Do()
	return true
}

// CapturesInput is always false; text input only takes precedence by being
// placed before other processors in a chain.
func (p *TextProcessor) CapturesInput() bool { return false }

// GetHelp returns the mapped keys.
func (p *TextProcessor) GetHelp() Help {
	result := Help{}
	for k, v := range p.help {
		result[k] = v
	}
	return result
}
