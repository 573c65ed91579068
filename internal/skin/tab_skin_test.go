package skin_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/memento"
	"github.com/ja-he/workbench/internal/presentation"
	"github.com/ja-he/workbench/internal/skin"
	"github.com/ja-he/workbench/internal/styling"
	"github.com/ja-he/workbench/internal/ui"
)

type member struct {
	key     string
	dirty   bool
	visible bool
	drawn   int
}

func (m *member) Key() string             { return m.key }
func (m *member) PartName() string        { return strings.ToUpper(m.key) }
func (m *member) TitleToolTip() string    { return "" }
func (m *member) IsDirty() bool           { return m.dirty }
func (m *member) SetVisible(visible bool) { m.visible = visible }
func (m *member) Draw(r ui.ConstrainedRenderer, _ *styling.Stylesheet) {
	m.drawn++
}

type text struct {
	x, y int
	text string
}

type screen struct {
	w, h  int
	texts []text
}

func (s *screen) Dimensions() (int, int, int, int)                 { return 0, 0, s.w, s.h }
func (s *screen) DrawBox(x, y, w, h int, _ styling.DrawStyling) {}
func (s *screen) DrawText(x, y, w, h int, _ styling.DrawStyling, t string) {
	s.texts = append(s.texts, text{x, y, t})
}

func (s *screen) find(t string) (int, int, bool) {
	for _, drawn := range s.texts {
		if drawn.text == t {
			return drawn.x, drawn.y, true
		}
	}
	return 0, 0, false
}

func newStack(t *testing.T, states ...presentation.State) (*presentation.StackSite, *skin.TabSkin, []*member) {
	registry := presentation.NewRegistry()
	site := presentation.NewStackSite(registry, "stack", skin.Factory, presentation.Options{
		SupportedStates: states,
		Closeable:       func(p presentation.PresentablePart) bool { return p.Key() != "c" },
	}, zerolog.Nop())
	members := []*member{{key: "a"}, {key: "b"}, {key: "c"}}
	for _, m := range members {
		require.NoError(t, site.AddPart(m, nil))
	}
	return site, site.Presentation().(*skin.TabSkin), members
}

func keys(parts []presentation.PresentablePart) []string {
	result := []string{}
	for _, p := range parts {
		result = append(result, p.Key())
	}
	return result
}

func TestStateRequests(t *testing.T) {
	site, tabs, _ := newStack(t, presentation.Maximized)

	err := tabs.RequestState(presentation.Minimized)
	assert.True(t, errors.Is(err, fault.ErrProtocol))
	assert.Equal(t, presentation.Restored, tabs.State())

	require.NoError(t, tabs.RequestState(presentation.Maximized))
	assert.Equal(t, presentation.Maximized, tabs.State())
	assert.Equal(t, presentation.Maximized, site.State())
}

func TestTabGestures(t *testing.T) {

	t.Run("click selects", func(t *testing.T) {
		site, tabs, m := newStack(t)
		require.NoError(t, tabs.ClickTab(1))
		assert.Same(t, m[1], site.Selected())
		assert.Same(t, m[1], tabs.Selected())
		assert.Error(t, tabs.ClickTab(7))
	})

	t.Run("cycle wraps around", func(t *testing.T) {
		site, tabs, m := newStack(t)
		require.NoError(t, tabs.CycleTab(-1))
		assert.Same(t, m[2], site.Selected())
		require.NoError(t, tabs.CycleTab(1))
		assert.Same(t, m[0], site.Selected())
	})

	t.Run("close", func(t *testing.T) {
		site, tabs, m := newStack(t)
		require.NoError(t, tabs.ClickClose(0))
		assert.Equal(t, []string{"b", "c"}, keys(tabs.Tabs()))
		assert.Same(t, m[1], site.Selected())

		require.NoError(t, tabs.ClickClose(1), "vetoed close is not an error")
		assert.Equal(t, []string{"b", "c"}, keys(tabs.Tabs()))
	})

	t.Run("drag reorders", func(t *testing.T) {
		site, tabs, m := newStack(t)
		tabs.Draw(&screen{w: 80, h: 10}, styling.DefaultStylesheet())

		require.NoError(t, tabs.DragTab(2, 0))
		assert.Equal(t, []string{"c", "a", "b"}, keys(tabs.Tabs()))
		assert.Same(t, m[0], site.Selected())

		require.NoError(t, tabs.DragTab(0, 79))
		assert.Equal(t, []string{"a", "b", "c"}, keys(tabs.Tabs()))
	})

	t.Run("gone site", func(t *testing.T) {
		site, tabs, _ := newStack(t)
		site.Dispose()
		assert.Error(t, tabs.ClickTab(0))
		assert.Error(t, tabs.RequestState(presentation.Restored))
	})
}

func TestDraw(t *testing.T) {

	t.Run("tabs and selected content", func(t *testing.T) {
		_, tabs, m := newStack(t)
		m[1].dirty = true
		s := &screen{w: 60, h: 10}
		tabs.Draw(s, styling.DefaultStylesheet())

		_, _, ok := s.find("A")
		assert.True(t, ok)
		_, _, ok = s.find("*B")
		assert.True(t, ok, "dirty marker missing")
		assert.Equal(t, 1, m[0].drawn)
		assert.Equal(t, 0, m[1].drawn)
	})

	t.Run("minimized draws no content", func(t *testing.T) {
		site, tabs, m := newStack(t, presentation.Minimized)
		require.NoError(t, site.SetState(presentation.Minimized))
		tabs.Draw(&screen{w: 60, h: 10}, styling.DefaultStylesheet())
		assert.Equal(t, 0, m[0].drawn)
	})

	t.Run("clicks", func(t *testing.T) {
		site, tabs, m := newStack(t, presentation.Maximized)
		s := &screen{w: 60, h: 10}
		tabs.Draw(s, styling.DefaultStylesheet())

		x, y, ok := s.find("C")
		require.True(t, ok)
		handled, err := tabs.HandleClick(x, y)
		assert.True(t, handled)
		require.NoError(t, err)
		assert.Same(t, m[2], site.Selected())

		x, y, ok = s.find("+")
		require.True(t, ok)
		handled, err = tabs.HandleClick(x, y)
		assert.True(t, handled)
		require.NoError(t, err)
		assert.Equal(t, presentation.Maximized, site.State())

		handled, _ = tabs.HandleClick(30, 5)
		assert.False(t, handled)
	})
}

func TestSaveRestoreOrder(t *testing.T) {
	_, tabs, _ := newStack(t)
	tabs.Draw(&screen{w: 80, h: 10}, styling.DefaultStylesheet())
	require.NoError(t, tabs.DragTab(2, 0))

	saved := memento.New(presentation.TagPresentation)
	tabs.SaveState(saved)

	_, restored, _ := newStack(t)
	restored.RestoreState(saved)
	assert.Equal(t, []string{"c", "a", "b"}, keys(restored.Tabs()))
}

func TestMemberOrder(t *testing.T) {

	t.Run("the site follows the tab order after a move", func(t *testing.T) {
		site, tabs, members := newStack(t)
		require.NoError(t, site.MovePart(members[2], 0))
		assert.Equal(t, []string{"c", "a", "b"}, keys(tabs.PartOrder()))
		assert.Equal(t, []string{"c", "a", "b"}, keys(site.Parts()))

		require.NoError(t, site.SelectPart(members[1]))
		require.NoError(t, site.Close([]presentation.PresentablePart{members[1]}))
		assert.Equal(t, "a", site.Selected().Key(), "selection did not move to the displayed neighbour")
	})

	t.Run("a member named twice is closed once", func(t *testing.T) {
		site, _, members := newStack(t)
		require.NoError(t, site.Close([]presentation.PresentablePart{members[0], members[0]}))
		assert.Equal(t, []string{"b", "c"}, keys(site.Parts()))
	})
}
