package parts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ja-he/workbench/internal/control/action"
	"github.com/ja-he/workbench/internal/memento"
	"github.com/ja-he/workbench/internal/part"
	"github.com/ja-he/workbench/internal/styling"
	"github.com/ja-he/workbench/internal/ui"
)

// TextEditor edits the text file its input names.
//
// Unsaved changes are kept with the session, so that an editor restored from
// a previous session shows them again, still dirty.
type TextEditor struct {
	part.Base

	buffer  *Buffer
	dirty   bool
	focused bool
}

// NewTextEditor returns a text editor.
func NewTextEditor() *TextEditor {
	return &TextEditor{buffer: NewBuffer("")}
}

// Init restores unsaved changes of a previous session or reads the file.
// A file that does not exist yet is edited as empty.
func (e *TextEditor) Init(site *part.Site, state *memento.Memento) error {
	if err := e.Base.Init(site, state); err != nil {
		return err
	}
	if state != nil {
		if dirty, _ := state.GetBoolean(part.KeyDirty); dirty {
			text, _ := state.GetTextData()
			e.buffer.SetContent(text)
			e.dirty = true
			return nil
		}
	}

	content, err := os.ReadFile(e.filename())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not read '%s' (%w)", e.filename(), err)
	}
	e.buffer.SetContent(string(content))
	return nil
}

func (e *TextEditor) filename() string { return e.Site().Reference().Input() }

// ContributeActions makes the editor accept typed text and adds saving.
func (e *TextEditor) ContributeActions(bars *part.ActionBars) error {
	processor, err := textInput(e.buffer, e.changed)
	if err != nil {
		return err
	}
	bars.SetTextInput(processor)
	return bars.Add("<c-s>", action.NewSimple(
		func() string { return "save file" },
		func() {
			if err := e.Save(); err != nil {
				e.Site().Logger().Error().Err(err).Msg("could not save file")
			}
		},
	).WithCondition(e.IsDirty))
}

func (e *TextEditor) changed() {
	if !e.dirty {
		e.dirty = true
		e.Site().FirePropertyChange(part.KeyDirty)
	}
}

// Save writes the text to the file.
func (e *TextEditor) Save() error {
	if err := os.WriteFile(e.filename(), []byte(e.buffer.Content()), 0644); err != nil {
		return fmt.Errorf("could not write '%s' (%w)", e.filename(), err)
	}
	e.dirty = false
	e.Site().FirePropertyChange(part.KeyDirty)
	e.Site().Logger().Info().Str("file", e.filename()).Msg("saved file")
	return nil
}

// Name is the file's base name.
func (e *TextEditor) Name() string { return filepath.Base(e.filename()) }

// TitleToolTip is the file's path.
func (e *TextEditor) TitleToolTip() string { return e.filename() }

// ContentDescription tells whether there are unsaved changes.
func (e *TextEditor) ContentDescription() string {
	if e.dirty {
		return "modified"
	}
	return ""
}

func (e *TextEditor) Text() string  { return e.buffer.Content() }
func (e *TextEditor) IsDirty() bool { return e.dirty }
func (e *TextEditor) SetFocus()     { e.focused = true }
func (e *TextEditor) Deactivated()  { e.focused = false }

// SaveState keeps unsaved changes.
func (e *TextEditor) SaveState(m *memento.Memento) {
	m.PutBoolean(part.KeyDirty, e.dirty)
	if e.dirty {
		m.PutTextData(e.buffer.Content())
	}
}

// Draw draws the text.
func (e *TextEditor) Draw(r ui.ConstrainedRenderer, stylesheet *styling.Stylesheet) {
	drawBuffer(r, stylesheet.Editor, e.buffer, e.focused)
}
