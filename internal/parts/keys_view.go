package parts

import (
	"sort"

	"github.com/ja-he/workbench/internal/input"
	"github.com/ja-he/workbench/internal/part"
	"github.com/ja-he/workbench/internal/styling"
	"github.com/ja-he/workbench/internal/ui"
)

// KeysView lists the current key bindings and what they do.
type KeysView struct {
	part.Base

	help func() input.Help
}

// NewKeysView returns a view of the bindings returned by help.
func NewKeysView(help func() input.Help) *KeysView {
	return &KeysView{help: help}
}

func (v *KeysView) Name() string { return "" }

type mappingAndAction = struct {
	mapping string
	action  string
}

// Draw draws the bindings ordered by what they do.
func (v *KeysView) Draw(r ui.ConstrainedRenderer, stylesheet *styling.Stylesheet) {
	x, y, w, h := r.Dimensions()
	r.DrawBox(x, y, w, h, stylesheet.Normal)

	content := []mappingAndAction{}
	for mapping, action := range v.help() {
		content = append(content, mappingAndAction{mapping: string(mapping), action: action})
	}
	sort.Slice(content, func(i, j int) bool {
		if content[i].action == content[j].action {
			return content[i].mapping < content[j].mapping
		}
		return content[i].action < content[j].action
	})

	const maxKeyWidth = 12
	for row, c := range content {
		if row >= h {
			break
		}
		keyWidth := len([]rune(c.mapping))
		r.DrawText(x+maxKeyWidth-keyWidth, y+row, keyWidth, 1, stylesheet.Normal.DefaultEmphasized().Bolded(), c.mapping)
		r.DrawText(x+maxKeyWidth+1, y+row, w, 1, stylesheet.Normal.Italicized(), c.action)
	}
}
