package workbench

import (
	"github.com/ja-he/workbench/internal/part"
	"github.com/ja-he/workbench/internal/styling"
	"github.com/ja-he/workbench/internal/ui"
)

// presentable is a part reference as placed in a stack.
//
// A part is materialized when its stack first shows it, so parts behind
// other tabs are not created until selected.
type presentable struct {
	ref     *part.Reference
	visible bool
}

func (p *presentable) Key() string          { return p.ref.Key() }
func (p *presentable) PartName() string     { return p.ref.PartName() }
func (p *presentable) TitleToolTip() string { return p.ref.TitleToolTip() }
func (p *presentable) IsDirty() bool        { return p.ref.IsDirty() }

func (p *presentable) SetVisible(visible bool) {
	p.visible = visible
	if visible && p.ref.Part(true) == nil {
		return
	}
	if control := p.ref.Control(); control != nil {
		control.SetVisible(visible)
	}
}

func (p *presentable) Draw(r ui.ConstrainedRenderer, stylesheet *styling.Stylesheet) {
	if drawer, ok := p.ref.Part(false).(part.Drawer); ok && p.visible {
		drawer.Draw(r, stylesheet)
	}
}
