// Package parts contains the built-in views and editors the workbench can be
// configured with.
package parts

import (
	"github.com/ja-he/workbench/internal/config"
	"github.com/ja-he/workbench/internal/control/action"
	"github.com/ja-he/workbench/internal/input"
	"github.com/ja-he/workbench/internal/part"
	"github.com/ja-he/workbench/internal/potatolog"
	"github.com/ja-he/workbench/internal/registry"
	"github.com/ja-he/workbench/internal/styling"
	"github.com/ja-he/workbench/internal/ui"
)

// Class names of the built-in parts, as used in part declarations.
const (
	ClassText       = "text"
	ClassLog        = "log"
	ClassKeys       = "keys"
	ClassTextEditor = "text-editor"
)

// PropertyText is the declaration property holding the initial text of a
// text view.
const PropertyText = "text"

// Classes returns the factories of the built-in part classes. The log view
// shows the given log, the keys view the help returned by help.
func Classes(logs potatolog.LogReader, help func() input.Help) map[string]registry.ClassFactory {
	return map[string]registry.ClassFactory{
		ClassText: func(decl config.PartDescriptor) part.Factory {
			return part.FactoryFunc(func() (part.Part, error) { return NewTextView(decl.Properties[PropertyText]), nil })
		},
		ClassLog: func(config.PartDescriptor) part.Factory {
			return part.FactoryFunc(func() (part.Part, error) { return NewLogView(logs), nil })
		},
		ClassKeys: func(config.PartDescriptor) part.Factory {
			return part.FactoryFunc(func() (part.Part, error) { return NewKeysView(help), nil })
		},
		ClassTextEditor: func(config.PartDescriptor) part.Factory {
			return part.FactoryFunc(func() (part.Part, error) { return NewTextEditor(), nil })
		},
	}
}

// textInput returns a processor editing b, calling changed after every edit.
func textInput(b *Buffer, changed func()) (*input.TextProcessor, error) {
	edit := func(explanation string, f func() bool) action.Action {
		return action.NewSimple(func() string { return explanation }, func() {
			if f() {
				changed()
			}
		})
	}
	move := func(explanation string, f func()) action.Action {
		return action.NewSimple(func() string { return explanation }, f)
	}
	return input.NewTextProcessor(
		map[input.Keyspec]action.Action{
			"<bs>":    edit("delete previous character", b.BackspaceRune),
			"<del>":   edit("delete character", b.DeleteRune),
			"<cr>":    edit("new line", func() bool { return b.AddRune('\n') }),
			"<left>":  move("move cursor left", b.MoveCursorLeft),
			"<right>": move("move cursor right", b.MoveCursorRight),
			"<up>":    move("move cursor to beginning of line", b.MoveCursorToLineBeginning),
			"<down>":  move("move cursor to end of line", b.MoveCursorToLineEnd),
		},
		func(r rune) {
			if b.AddRune(r) {
				changed()
			}
		},
	)
}

// drawBuffer draws the buffer's lines, scrolled so that the cursor line is
// visible, and the cursor if showCursor is set.
func drawBuffer(r ui.ConstrainedRenderer, style styling.DrawStyling, b *Buffer, showCursor bool) {
	x, y, w, h := r.Dimensions()
	r.DrawBox(x, y, w, h, style)
	if w <= 0 || h <= 0 {
		return
	}

	lines, cursorLine, cursorCol := b.Lines()
	first := 0
	if cursorLine >= h {
		first = cursorLine - h + 1
	}
	for row := 0; row < h && first+row < len(lines); row++ {
		r.DrawText(x, y+row, w, 1, style, lines[first+row])
	}
	if showCursor && cursorCol < w {
		cursor := " "
		if line := []rune(lines[cursorLine]); cursorCol < len(line) {
			cursor = string(line[cursorCol])
		}
		r.DrawText(x+cursorCol, y+cursorLine-first, 1, 1, style.DefaultEmphasized().Bolded(), cursor)
	}
}
