package part

import (
	"github.com/ja-he/workbench/internal/styling"
	"github.com/ja-he/workbench/internal/ui"
)

// ErrorPart replaces a part that could not be created and shows why.
type ErrorPart struct {
	Base
	err error
}

// NewErrorPart returns an error part for the given cause.
func NewErrorPart(err error) *ErrorPart {
	return &ErrorPart{err: err}
}

// Err returns the cause.
func (p *ErrorPart) Err() error { return p.err }

// Name is empty, so the reference keeps the name of the part that failed.
func (p *ErrorPart) Name() string { return "" }

// TitleToolTip returns the cause.
func (p *ErrorPart) TitleToolTip() string { return p.ContentDescription() }

// ContentDescription returns the cause.
func (p *ErrorPart) ContentDescription() string {
	if p.err == nil {
		return "could not create part"
	}
	return p.err.Error()
}

// Draw shows the cause.
func (p *ErrorPart) Draw(r ui.ConstrainedRenderer, stylesheet *styling.Stylesheet) {
	x, y, w, h := r.Dimensions()
	r.DrawBox(x, y, w, h, stylesheet.ErrorPart)
	r.DrawText(x+1, y+1, w-2, h-2, stylesheet.ErrorPart, p.ContentDescription())
}
