package input

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Keyspec is a textual key sequence specification, e.g. "<space>qw" meaning
// the SPACE key, then the Q key, then the W key.
type Keyspec string

var namedKeys = map[string]Key{
	"space": {Key: tcell.KeyRune, Ch: ' '},
	"cr":    {Key: tcell.KeyEnter},
	"esc":   {Key: tcell.KeyESC},
	"tab":   {Key: tcell.KeyTab},
	"s-tab": {Key: tcell.KeyBacktab},
	"del":   {Key: tcell.KeyDelete},
	"bs":    {Key: tcell.KeyBackspace2},
	"left":  {Key: tcell.KeyLeft},
	"right": {Key: tcell.KeyRight},
	"up":    {Key: tcell.KeyUp},
	"down":  {Key: tcell.KeyDown},
}

// keyNames is the reverse of namedKeys.
var keyNames = map[Key]string{}

func init() {
	special := make(map[Key]string, len(namedKeys))
	for name, key := range namedKeys {
		special[key] = name
	}
	for r := 'a'; r <= 'z'; r++ {
		name := "c-" + string(r)
		key := Key{Key: tcell.KeyCtrlA + tcell.Key(r-'a')}
		namedKeys[name] = key
		keyNames[key] = name
	}
	// e.g. <tab> and <c-i> are the same key, prefer the former
	for key, name := range special {
		keyNames[key] = name
	}
}

// ParseKeyspec converts a full key sequence specification to the sequence of
// Keys it describes, or an error, if it is invalid.
func ParseKeyspec(spec Keyspec) ([]Key, error) {
	result := []Key{}

	var special *strings.Builder
	for pos, r := range string(spec) {
		switch {

		case r == '<':
			if special != nil {
				return nil, fmt.Errorf("illegal '<' inside of '<...>' (pos %d)", pos)
			}
			special = &strings.Builder{}

		case r == '>':
			if special == nil {
				return nil, fmt.Errorf("illegal '>' without opening '<' (pos %d)", pos)
			}
			key, ok := namedKeys[strings.ToLower(special.String())]
			if !ok {
				return nil, fmt.Errorf("no key named '%s' (pos %d)", special.String(), pos)
			}
			result = append(result, key)
			special = nil

		case special != nil:
			if !unicode.IsLetter(r) && r != '-' {
				return nil, fmt.Errorf("illegal character '%c' in key name (pos %d)", r, pos)
			}
			special.WriteRune(r)

		default:
			result = append(result, Key{Key: tcell.KeyRune, Ch: r})
		}
	}

	if special != nil {
		return nil, fmt.Errorf("unterminated key name '<%s'", special.String())
	}
	return result, nil
}
