// Package skin contains the tab presentation used for all stacks.
package skin

import (
	"fmt"

	"github.com/ja-he/workbench/internal/memento"
	"github.com/ja-he/workbench/internal/presentation"
	"github.com/ja-he/workbench/internal/styling"
	"github.com/ja-he/workbench/internal/ui"
	"github.com/ja-he/workbench/internal/util"
)

// Memento tag and key of the saved tab order.
const (
	TagTab     = "tab"
	KeyContent = "content"
)

const (
	closeMarker = "x"
	dirtyMarker = "*"
)

// stateButtons are the state requests offered in each state, drawn right to
// left at the end of the tab row.
var stateButtons = map[presentation.State][]stateButton{
	presentation.Restored:  {{"+", presentation.Maximized}, {"-", presentation.Minimized}},
	presentation.Maximized: {{"=", presentation.Restored}},
	presentation.Minimized: {{"=", presentation.Restored}},
}

type stateButton struct {
	label   string
	request presentation.State
}

// TabSkin renders a stack as a row of tabs above the selected part.
//
// The skin only ever reflects what its site confirmed; user gestures are
// turned into requests to the site, which it finds by id in the registry.
type TabSkin struct {
	registry *presentation.Registry
	siteID   presentation.SiteID

	tabs     []presentation.PresentablePart
	selected presentation.PresentablePart
	state    presentation.State
	active   presentation.ActiveState

	lastTabsDrawn    []util.Rect
	lastClosesDrawn  []util.Rect
	lastButtonsDrawn map[presentation.State]util.Rect

	disposed bool
}

// NewTabSkin returns the skin for the site with the given id.
func NewTabSkin(registry *presentation.Registry, id presentation.SiteID) *TabSkin {
	return &TabSkin{
		registry:         registry,
		siteID:           id,
		lastButtonsDrawn: map[presentation.State]util.Rect{},
	}
}

// Factory creates tab skins for new sites.
func Factory(registry *presentation.Registry, id presentation.SiteID) presentation.StackPresentation {
	return NewTabSkin(registry, id)
}

// SetState reflects a confirmed state.
func (s *TabSkin) SetState(state presentation.State) { s.state = state }

// SetActive reflects the stack's activation.
func (s *TabSkin) SetActive(active presentation.ActiveState) { s.active = active }

// AddPart adds a tab at the index given by the cookie, or at the end.
func (s *TabSkin) AddPart(p presentation.PresentablePart, cookie any) {
	i, ok := cookie.(int)
	if !ok || i < 0 || i > len(s.tabs) {
		i = len(s.tabs)
	}
	s.tabs = append(s.tabs[:i], append([]presentation.PresentablePart{p}, s.tabs[i:]...)...)
}

// RemovePart removes the tab of p.
func (s *TabSkin) RemovePart(p presentation.PresentablePart) {
	if i := s.indexOf(p); i >= 0 {
		s.tabs = append(s.tabs[:i], s.tabs[i+1:]...)
	}
	if s.selected == p {
		s.selected = nil
	}
}

// SelectPart brings the tab of p to the foreground.
func (s *TabSkin) SelectPart(p presentation.PresentablePart) { s.selected = p }

// PartOrder returns the parts in tab order.
func (s *TabSkin) PartOrder() []presentation.PresentablePart {
	return append([]presentation.PresentablePart{}, s.tabs...)
}

// DragOver returns the tab index at the given column of the tab row as the
// cookie, or the end of the row past the last tab.
func (s *TabSkin) DragOver(p presentation.PresentablePart, location int) (any, bool) {
	if location < 0 || s.disposed {
		return nil, false
	}
	for i, r := range s.lastTabsDrawn {
		if location >= r.X && location < r.X+r.W {
			if i >= len(s.tabs) {
				break
			}
			return i, true
		}
	}
	return len(s.tabs), true
}

// SaveState writes the tab order.
func (s *TabSkin) SaveState(m *memento.Memento) {
	for _, p := range s.tabs {
		m.CreateChild(TagTab).PutString(KeyContent, p.Key())
	}
}

// RestoreState reorders the tabs to the saved order. Tabs not in the saved
// order follow in their current order.
func (s *TabSkin) RestoreState(m *memento.Memento) {
	ordered := []presentation.PresentablePart{}
	for _, tab := range m.GetChildren(TagTab) {
		key, _ := tab.GetString(KeyContent)
		for _, p := range s.tabs {
			if p.Key() == key && !contains(ordered, p) {
				ordered = append(ordered, p)
			}
		}
	}
	for _, p := range s.tabs {
		if !contains(ordered, p) {
			ordered = append(ordered, p)
		}
	}
	s.tabs = ordered
}

// Dispose drops all tabs.
func (s *TabSkin) Dispose() {
	s.disposed = true
	s.tabs = nil
	s.selected = nil
}

// Tabs returns the tabs in display order.
func (s *TabSkin) Tabs() []presentation.PresentablePart {
	result := make([]presentation.PresentablePart, len(s.tabs))
	copy(result, s.tabs)
	return result
}

// Selected returns the part in the foreground, or nil.
func (s *TabSkin) Selected() presentation.PresentablePart { return s.selected }

// State returns the state the skin currently reflects.
func (s *TabSkin) State() presentation.State { return s.state }

func (s *TabSkin) site() (*presentation.StackSite, error) {
	site, ok := s.registry.Lookup(s.siteID)
	if !ok || s.disposed {
		return nil, fmt.Errorf("site %s is gone", s.siteID.String())
	}
	return site, nil
}

func (s *TabSkin) tab(i int) (presentation.PresentablePart, error) {
	if i < 0 || i >= len(s.tabs) {
		return nil, fmt.Errorf("no tab at index %d", i)
	}
	return s.tabs[i], nil
}

// ClickTab asks for the part of the i-th tab to be activated.
func (s *TabSkin) ClickTab(i int) error {
	site, err := s.site()
	if err != nil {
		return err
	}
	p, err := s.tab(i)
	if err != nil {
		return err
	}
	return site.RequestActivation(p)
}

// CycleTab asks for the tab delta positions from the selected one to be
// activated, wrapping around.
func (s *TabSkin) CycleTab(delta int) error {
	if len(s.tabs) == 0 {
		return nil
	}
	current := s.indexOf(s.selected)
	if current < 0 {
		current = 0
	}
	n := len(s.tabs)
	return s.ClickTab(((current+delta)%n + n) % n)
}

// ClickClose asks for the part of the i-th tab to be closed.
func (s *TabSkin) ClickClose(i int) error {
	site, err := s.site()
	if err != nil {
		return err
	}
	p, err := s.tab(i)
	if err != nil {
		return err
	}
	return site.Close([]presentation.PresentablePart{p})
}

// RequestState asks for the stack to change to the given state. The skin
// does not reflect the state unless the site confirms it.
func (s *TabSkin) RequestState(state presentation.State) error {
	site, err := s.site()
	if err != nil {
		return err
	}
	return site.SetState(state)
}

// DragTab drags the i-th tab to the given column of the tab row.
func (s *TabSkin) DragTab(i int, location int) error {
	site, err := s.site()
	if err != nil {
		return err
	}
	p, err := s.tab(i)
	if err != nil {
		return err
	}
	target := site.DragOver(p, location)
	if target == nil {
		return nil
	}
	if target.Site != s.siteID {
		return fmt.Errorf("can not drop on site %s", target.Site.String())
	}
	return site.MovePart(p, target.Cookie)
}

// HandleClick turns a click at the given position into the gesture for
// whatever was drawn there and reports whether there was anything.
func (s *TabSkin) HandleClick(x, y int) (bool, error) {
	for state, r := range s.lastButtonsDrawn {
		if r.Contains(x, y) {
			return true, s.RequestState(state)
		}
	}
	for i, r := range s.lastClosesDrawn {
		if r.Contains(x, y) {
			return true, s.ClickClose(i)
		}
	}
	for i, r := range s.lastTabsDrawn {
		if r.Contains(x, y) {
			return true, s.ClickTab(i)
		}
	}
	return false, nil
}

// Draw draws the tab row into the first row of the renderer and, unless the
// stack is minimized, the selected part below it.
func (s *TabSkin) Draw(r ui.ConstrainedRenderer, stylesheet *styling.Stylesheet) {
	x, y, w, h := r.Dimensions()
	s.lastTabsDrawn = s.lastTabsDrawn[:0]
	s.lastClosesDrawn = s.lastClosesDrawn[:0]
	s.lastButtonsDrawn = map[presentation.State]util.Rect{}
	if w <= 0 || h <= 0 {
		return
	}

	r.DrawBox(x, y, w, 1, stylesheet.Border)

	right := x + w
	for _, button := range stateButtons[s.state] {
		right -= len(button.label) + 2
		box := util.Rect{X: right, Y: y, W: len(button.label) + 2, H: 1}
		r.DrawText(box.X+1, box.Y, len(button.label), 1, stylesheet.Border.Bolded(), button.label)
		s.lastButtonsDrawn[button.request] = box
	}

	tabRow := ui.NewConstrainedRenderer(r, func() (int, int, int, int) { return x, y, right - x, 1 })
	tabX := x
	for _, p := range s.tabs {
		if tabX >= right {
			break
		}
		label := p.PartName()
		if p.IsDirty() {
			label = dirtyMarker + label
		}
		label = util.TruncateAt(label, 24)

		style := stylesheet.TabInactive
		if p == s.selected {
			style = stylesheet.TabActive
			if s.active == presentation.ActiveFocus {
				style = style.Bolded()
			} else if s.active == presentation.Inactive {
				style = style.DefaultDimmed()
			}
		}

		width := len([]rune(label)) + 4
		tab := util.Rect{X: tabX, Y: y, W: width, H: 1}
		closeBox := util.Rect{X: tabX + width - 2, Y: y, W: 1, H: 1}
		tabRow.DrawBox(tab.X, tab.Y, tab.W, tab.H, style)
		tabRow.DrawText(tab.X+1, tab.Y, width-4, 1, style, label)
		tabRow.DrawText(closeBox.X, closeBox.Y, 1, 1, style.DefaultDimmed(), closeMarker)

		s.lastTabsDrawn = append(s.lastTabsDrawn, tab)
		s.lastClosesDrawn = append(s.lastClosesDrawn, closeBox)
		tabX += width + 1
	}

	if s.state == presentation.Minimized || s.selected == nil || h < 2 {
		return
	}
	content := ui.NewConstrainedRenderer(r, func() (int, int, int, int) { return x, y + 1, w, h - 1 })
	content.DrawBox(x, y+1, w, h-1, stylesheet.Normal)
	s.selected.Draw(content, stylesheet)
}

func (s *TabSkin) indexOf(p presentation.PresentablePart) int {
	for i, tab := range s.tabs {
		if tab == p {
			return i
		}
	}
	return -1
}

func contains(parts []presentation.PresentablePart, p presentation.PresentablePart) bool {
	for _, q := range parts {
		if q == p {
			return true
		}
	}
	return false
}
