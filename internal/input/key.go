// Package input maps terminal key events to actions.
//
// Key sequences are written as keyspecs, e.g. "<c-w>q" for CTRL+W followed by
// Q, and bound to actions in a Tree. Several processors are combined into a
// Chain to give the active part's bindings precedence over the page's.
package input

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Key is a single key press, identified by the tcell key and, for runes, the
// character.
type Key struct {
	Key tcell.Key
	Ch  rune
}

// KeyFromTcellEvent converts the given tcell key event to a Key.
func KeyFromTcellEvent(e *tcell.EventKey) Key {
	if e.Key() == tcell.KeyRune {
		return Key{Key: tcell.KeyRune, Ch: e.Rune()}
	}
	return Key{Key: e.Key()}
}

// String returns the keyspec notation of this key.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return "<" + name + ">"
	}
	if k.Key == tcell.KeyRune {
		return string(k.Ch)
	}
	return fmt.Sprintf("<key:%d>", k.Key)
}

// Help maps keyspecs to the explanation of what they do.
type Help = map[Keyspec]string
