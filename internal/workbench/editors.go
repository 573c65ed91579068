package workbench

import (
	"errors"

	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/part"
)

// OpenEditor activates the editor with the given id for the given input,
// opening it in the editor stack if it is not open yet.
func (p *Page) OpenEditor(editorID, input string) (*part.Reference, error) {
	key := part.CompoundKey(editorID, input)
	if err := p.checkOpen("open editor", key); err != nil {
		return nil, err
	}
	if existing := p.FindEditor(editorID, input); existing != nil {
		return existing, p.Activate(existing)
	}

	desc, ok := p.registry.FindDescriptor(editorID)
	switch {
	case !ok || desc.Kind != part.KindEditor:
		return nil, p.configurationError("open editor", key, errors.New("no editor registered with this id"))
	case input == "":
		return nil, p.configurationError("open editor", key, errors.New("editor input must not be empty"))
	case p.editorStack == nil:
		return nil, p.configurationError("open editor", key, errors.New("layout has no editor stack"))
	}

	ref, err := p.addEditor(editorID, input, desc)
	if err != nil {
		return nil, err
	}
	return ref, p.Activate(ref)
}

func (p *Page) configurationError(op, subject string, cause error) error {
	err := fault.Configuration(op, subject, cause)
	p.logger.Error().Err(err).Msg("rejected request")
	return err
}

// addEditor creates and places an editor reference, seeded with the saved
// state for its key if there is one.
func (p *Page) addEditor(editorID, input string, desc *part.Descriptor) (*part.Reference, error) {
	key := part.CompoundKey(editorID, input)
	state := p.pendingEditors[key]
	delete(p.pendingEditors, key)

	ref := part.NewEditorReference(p, editorID, input, desc, state)
	p.editors = append(p.editors, ref)
	if err := p.place(ref, p.editorStack); err != nil {
		p.editors = p.editors[:len(p.editors)-1]
		return nil, err
	}
	return ref, nil
}

// FindEditor returns the open editor with the given id and input, or nil.
func (p *Page) FindEditor(editorID, input string) *part.Reference {
	for _, ref := range p.editors {
		if ref.ID() == editorID && ref.Input() == input {
			return ref
		}
	}
	return nil
}

// EditorReferences returns the open editors in the order they were opened.
func (p *Page) EditorReferences() []*part.Reference {
	result := make([]*part.Reference, len(p.editors))
	copy(result, p.editors)
	return result
}

// CloseEditors closes the given editors as one batch. If any of them is not
// open or is being activated, none is closed.
func (p *Page) CloseEditors(refs []*part.Reference) error {
	for _, ref := range refs {
		if ref.Kind() != part.KindEditor {
			return p.violation("close editors", ref.Key(), errors.New("part is not an editor"))
		}
	}
	return p.closeParts(refs)
}

// CloseAllEditors closes all open editors.
func (p *Page) CloseAllEditors() error {
	if len(p.editors) == 0 {
		return nil
	}
	return p.CloseEditors(p.EditorReferences())
}

func (p *Page) closeEditor(ref *part.Reference) error {
	for i, e := range p.editors {
		if e == ref {
			p.editors = append(p.editors[:i], p.editors[i+1:]...)
			p.removePart(ref)
			return nil
		}
	}
	return fault.Protocol("close editor", ref.Key(), errors.New("editor is not open"))
}
