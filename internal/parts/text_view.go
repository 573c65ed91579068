package parts

import (
	"github.com/ja-he/workbench/internal/control/action"
	"github.com/ja-he/workbench/internal/memento"
	"github.com/ja-he/workbench/internal/part"
	"github.com/ja-he/workbench/internal/styling"
	"github.com/ja-he/workbench/internal/ui"
)

// TextView is a view holding free text, e.g. notes. The text is kept with
// the session rather than written anywhere.
type TextView struct {
	part.Base

	buffer  *Buffer
	focused bool
}

// NewTextView returns a text view starting out with the given text, unless
// it restores text of a previous session.
func NewTextView(initial string) *TextView {
	return &TextView{buffer: NewBuffer(initial)}
}

// Init restores the text of a previous session.
func (v *TextView) Init(site *part.Site, state *memento.Memento) error {
	if err := v.Base.Init(site, state); err != nil {
		return err
	}
	if state != nil {
		if text, ok := state.GetTextData(); ok {
			v.buffer.SetContent(text)
		}
	}
	return nil
}

// Name distinguishes instances by their secondary id.
func (v *TextView) Name() string {
	ref := v.Site().Reference()
	if ref.SecondaryID() == "" {
		return ""
	}
	return ref.RegisteredName() + " " + ref.SecondaryID()
}

// ContributeActions makes the view accept typed text and adds an action
// clearing it.
func (v *TextView) ContributeActions(bars *part.ActionBars) error {
	processor, err := textInput(v.buffer, func() {})
	if err != nil {
		return err
	}
	bars.SetTextInput(processor)
	return bars.Add("<c-l>", action.NewSimple(
		func() string { return "clear text" },
		func() { v.buffer.SetContent("") },
	))
}

func (v *TextView) Text() string                 { return v.buffer.Content() }
func (v *TextView) SetFocus()                    { v.focused = true }
func (v *TextView) Deactivated()                 { v.focused = false }
func (v *TextView) SaveState(m *memento.Memento) { m.PutTextData(v.buffer.Content()) }

// Draw draws the text.
func (v *TextView) Draw(r ui.ConstrainedRenderer, stylesheet *styling.Stylesheet) {
	drawBuffer(r, stylesheet.Normal, v.buffer, v.focused)
}
