package presentation_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/memento"
	"github.com/ja-he/workbench/internal/presentation"
	"github.com/ja-he/workbench/internal/styling"
	"github.com/ja-he/workbench/internal/ui"
)

type member struct {
	key     string
	visible bool
}

func (m *member) Key() string             { return m.key }
func (m *member) PartName() string        { return "Name of " + m.key }
func (m *member) TitleToolTip() string    { return "" }
func (m *member) IsDirty() bool           { return false }
func (m *member) SetVisible(visible bool) { m.visible = visible }
func (m *member) Draw(ui.ConstrainedRenderer, *styling.Stylesheet) {}

// recorder is a presentation recording what the site confirmed.
type recorder struct {
	registry *presentation.Registry
	id       presentation.SiteID

	states   []presentation.State
	active   presentation.ActiveState
	parts    []string
	selected []string
	restored *memento.Memento
	disposed bool
}

func (r *recorder) SetState(s presentation.State)        { r.states = append(r.states, s) }
func (r *recorder) SetActive(a presentation.ActiveState) { r.active = a }
func (r *recorder) AddPart(p presentation.PresentablePart, cookie any) {
	if i, ok := cookie.(int); ok && i < len(r.parts) {
		r.parts = append(r.parts[:i], append([]string{p.Key()}, r.parts[i:]...)...)
		return
	}
	r.parts = append(r.parts, p.Key())
}
func (r *recorder) RemovePart(p presentation.PresentablePart) {
	for i, k := range r.parts {
		if k == p.Key() {
			r.parts = append(r.parts[:i], r.parts[i+1:]...)
			return
		}
	}
}
func (r *recorder) SelectPart(p presentation.PresentablePart) {
	r.selected = append(r.selected, p.Key())
}
func (r *recorder) DragOver(p presentation.PresentablePart, location int) (any, bool) {
	if location < 0 {
		return nil, false
	}
	return location, true
}
func (r *recorder) SaveState(m *memento.Memento)    { m.PutString("recorded", "yes") }
func (r *recorder) RestoreState(m *memento.Memento) { r.restored = m }
func (r *recorder) Dispose()                        { r.disposed = true }

// userRequest is what a presentation does on a user gesture: it looks up its
// site and asks it.
func (r *recorder) userRequest(f func(site *presentation.StackSite) error) error {
	site, ok := r.registry.Lookup(r.id)
	if !ok {
		return fmt.Errorf("site gone")
	}
	return f(site)
}

type handler struct {
	activations []string
	closes      [][]string
	rejectClose bool
	changes     []presentation.State
}

func (h *handler) ActivationRequested(site *presentation.StackSite, p presentation.PresentablePart) error {
	h.activations = append(h.activations, p.Key())
	return site.SelectPart(p)
}
func (h *handler) CloseRequested(site *presentation.StackSite, parts []presentation.PresentablePart) error {
	if h.rejectClose {
		return fault.Protocol("close", site.StackID(), errors.New("rejected"))
	}
	keys := []string{}
	for _, p := range parts {
		keys = append(keys, p.Key())
		if err := site.Detach(p); err != nil {
			return err
		}
	}
	h.closes = append(h.closes, keys)
	return nil
}
func (h *handler) StateChanged(site *presentation.StackSite, from, to presentation.State) {
	h.changes = append(h.changes, to)
}

func newSite(options presentation.Options) (*presentation.StackSite, *recorder, *presentation.Registry) {
	registry := presentation.NewRegistry()
	var rec *recorder
	site := presentation.NewStackSite(registry, "stack", func(reg *presentation.Registry, id presentation.SiteID) presentation.StackPresentation {
		rec = &recorder{registry: reg, id: id}
		return rec
	}, options, zerolog.Nop())
	return site, rec, registry
}

func TestInitialState(t *testing.T) {
	site, rec, registry := newSite(presentation.Options{})
	assert.Equal(t, presentation.Restored, site.State())
	assert.Equal(t, presentation.Inactive, site.Active())
	assert.Nil(t, site.Selected())
	assert.Empty(t, rec.states)

	found, ok := registry.Lookup(rec.id)
	require.True(t, ok)
	assert.Same(t, site, found)

	site.Dispose()
	assert.True(t, rec.disposed)
	_, ok = registry.Lookup(rec.id)
	assert.False(t, ok)
}

func TestSetState(t *testing.T) {

	t.Run("unsupported state never reaches the presentation", func(t *testing.T) {
		site, rec, _ := newSite(presentation.Options{SupportedStates: []presentation.State{presentation.Maximized}})
		h := &handler{}
		site.SetHandler(h)

		err := rec.userRequest(func(s *presentation.StackSite) error { return s.SetState(presentation.Minimized) })
		assert.True(t, errors.Is(err, fault.ErrProtocol))
		assert.Equal(t, presentation.Restored, site.State())
		assert.Empty(t, rec.states)
		assert.Empty(t, h.changes)

		err = rec.userRequest(func(s *presentation.StackSite) error { return s.SetState(presentation.Maximized) })
		require.NoError(t, err)
		assert.Equal(t, presentation.Maximized, site.State())
		assert.Equal(t, []presentation.State{presentation.Maximized}, rec.states)
		assert.Equal(t, []presentation.State{presentation.Maximized}, h.changes)
	})

	t.Run("repeated state is confirmed once", func(t *testing.T) {
		site, rec, _ := newSite(presentation.Options{SupportedStates: []presentation.State{presentation.Minimized}})
		require.NoError(t, site.SetState(presentation.Minimized))
		require.NoError(t, site.SetState(presentation.Minimized))
		require.NoError(t, site.SetState(presentation.Restored))
		assert.Equal(t, []presentation.State{presentation.Minimized, presentation.Restored}, rec.states)
	})

	t.Run("activation is propagated", func(t *testing.T) {
		site, rec, _ := newSite(presentation.Options{})
		site.SetActive(presentation.ActiveFocus)
		assert.Equal(t, presentation.ActiveFocus, rec.active)
		assert.Equal(t, presentation.Restored, site.State())
	})
}

func TestMembership(t *testing.T) {

	t.Run("first member is selected", func(t *testing.T) {
		site, rec, _ := newSite(presentation.Options{})
		a, b := &member{key: "a"}, &member{key: "b"}
		require.NoError(t, site.AddPart(a, nil))
		require.NoError(t, site.AddPart(b, nil))
		assert.Same(t, a, site.Selected())
		assert.True(t, a.visible)
		assert.False(t, b.visible)
		assert.Equal(t, []string{"a"}, rec.selected)

		assert.True(t, errors.Is(site.AddPart(a, nil), fault.ErrProtocol))
	})

	t.Run("removing the selected member selects a neighbour", func(t *testing.T) {
		site, _, _ := newSite(presentation.Options{})
		a, b, c := &member{key: "a"}, &member{key: "b"}, &member{key: "c"}
		for _, m := range []*member{a, b, c} {
			require.NoError(t, site.AddPart(m, nil))
		}
		require.NoError(t, site.SelectPart(c))
		require.NoError(t, site.RemovePart(c))
		assert.Same(t, b, site.Selected())
		assert.True(t, b.visible)
		assert.False(t, c.visible)

		require.NoError(t, site.RemovePart(a))
		assert.Same(t, b, site.Selected())
		require.NoError(t, site.RemovePart(b))
		assert.Nil(t, site.Selected())
	})

	t.Run("remove vetoed for non-closeable part", func(t *testing.T) {
		site, rec, _ := newSite(presentation.Options{
			Closeable: func(p presentation.PresentablePart) bool { return p.Key() != "fixed" },
		})
		fixed := &member{key: "fixed"}
		require.NoError(t, site.AddPart(fixed, nil))
		assert.True(t, errors.Is(site.RemovePart(fixed), fault.ErrProtocol))
		assert.True(t, site.Contains(fixed))
		assert.Equal(t, []string{"fixed"}, rec.parts)

		require.NoError(t, site.Detach(fixed))
		assert.False(t, site.Contains(fixed))
	})

	t.Run("select unknown part", func(t *testing.T) {
		site, rec, _ := newSite(presentation.Options{})
		a := &member{key: "a"}
		require.NoError(t, site.AddPart(a, nil))
		err := site.SelectPart(&member{key: "stranger"})
		assert.True(t, errors.Is(err, fault.ErrProtocol))
		assert.Same(t, a, site.Selected())
		assert.Equal(t, []string{"a"}, rec.selected)
	})

	t.Run("select is idempotent", func(t *testing.T) {
		site, rec, _ := newSite(presentation.Options{})
		a, b := &member{key: "a"}, &member{key: "b"}
		require.NoError(t, site.AddPart(a, nil))
		require.NoError(t, site.AddPart(b, nil))
		require.NoError(t, site.SelectPart(b))
		require.NoError(t, site.SelectPart(b))
		assert.Equal(t, []string{"a", "b"}, rec.selected)
		assert.True(t, b.visible)
		assert.False(t, a.visible)
	})
}

func TestMovePart(t *testing.T) {

	t.Run("single member stays selected and focused", func(t *testing.T) {
		site, rec, _ := newSite(presentation.Options{})
		only := &member{key: "only"}
		require.NoError(t, site.AddPart(only, nil))
		site.SetActive(presentation.ActiveFocus)

		target := site.DragOver(only, 0)
		require.NotNil(t, target)
		assert.Equal(t, site.ID(), target.Site)
		require.NoError(t, site.MovePart(only, target.Cookie))

		assert.Same(t, only, site.Selected())
		assert.True(t, only.visible)
		assert.Equal(t, presentation.ActiveFocus, site.Active())
		assert.Equal(t, presentation.ActiveFocus, rec.active)
		assert.Equal(t, []string{"only"}, rec.parts)
		assert.Equal(t, "only", rec.selected[len(rec.selected)-1])
	})

	t.Run("reorder keeps selection", func(t *testing.T) {
		site, rec, _ := newSite(presentation.Options{})
		a, b, c := &member{key: "a"}, &member{key: "b"}, &member{key: "c"}
		for _, m := range []*member{a, b, c} {
			require.NoError(t, site.AddPart(m, nil))
		}
		require.NoError(t, site.SelectPart(b))
		rec.selected = nil

		require.NoError(t, site.MovePart(c, 0))
		assert.Equal(t, []string{"c", "a", "b"}, rec.parts)
		assert.Same(t, b, site.Selected())
		assert.Empty(t, rec.selected, "moving an unselected part changed the selection")

		require.NoError(t, site.MovePart(b, 0))
		assert.Equal(t, []string{"b", "c", "a"}, rec.parts)
		assert.Equal(t, []string{"b"}, rec.selected)
		assert.True(t, b.visible)
	})

	t.Run("immoveable part", func(t *testing.T) {
		site, rec, _ := newSite(presentation.Options{
			Moveable: func(presentation.PresentablePart) bool { return false },
		})
		a, b := &member{key: "a"}, &member{key: "b"}
		require.NoError(t, site.AddPart(a, nil))
		require.NoError(t, site.AddPart(b, nil))
		assert.Nil(t, site.DragOver(a, 0))
		assert.True(t, errors.Is(site.MovePart(b, 0), fault.ErrProtocol))
		assert.Equal(t, []string{"a", "b"}, rec.parts)
	})

	t.Run("drag over is a pure query", func(t *testing.T) {
		site, rec, _ := newSite(presentation.Options{})
		a := &member{key: "a"}
		require.NoError(t, site.AddPart(a, nil))
		assert.Nil(t, site.DragOver(a, -1))
		assert.NotNil(t, site.DragOver(&member{key: "new"}, 3))
		assert.Equal(t, []string{"a"}, rec.parts)
		assert.Len(t, site.Parts(), 1)
	})
}

func TestClose(t *testing.T) {
	setup := func(h *handler) (*presentation.StackSite, []*member) {
		site, _, _ := newSite(presentation.Options{
			Closeable: func(p presentation.PresentablePart) bool { return p.Key() != "fixed" },
		})
		if h != nil {
			site.SetHandler(h)
		}
		members := []*member{{key: "a"}, {key: "fixed"}, {key: "b"}}
		for _, m := range members {
			require.NoError(t, site.AddPart(m, nil))
		}
		return site, members
	}

	t.Run("vetoed parts are skipped", func(t *testing.T) {
		h := &handler{}
		site, m := setup(h)
		require.NoError(t, site.Close([]presentation.PresentablePart{m[0], m[1], m[2]}))
		assert.Equal(t, [][]string{{"a", "b"}}, h.closes)
		assert.Equal(t, []presentation.PresentablePart{m[1]}, site.Parts())
	})

	t.Run("unknown part rejects the batch", func(t *testing.T) {
		h := &handler{}
		site, m := setup(h)
		err := site.Close([]presentation.PresentablePart{m[0], &member{key: "stranger"}})
		assert.True(t, errors.Is(err, fault.ErrProtocol))
		assert.Empty(t, h.closes)
		assert.Len(t, site.Parts(), 3)
	})

	t.Run("handler rejects the batch", func(t *testing.T) {
		h := &handler{rejectClose: true}
		site, m := setup(h)
		err := site.Close([]presentation.PresentablePart{m[0], m[2]})
		assert.Error(t, err)
		assert.Len(t, site.Parts(), 3)
	})

	t.Run("without handler", func(t *testing.T) {
		site, m := setup(nil)
		require.NoError(t, site.Close([]presentation.PresentablePart{m[2]}))
		assert.Len(t, site.Parts(), 2)
	})
}

func TestRequestActivation(t *testing.T) {
	h := &handler{}
	site, rec, _ := newSite(presentation.Options{})
	site.SetHandler(h)
	a, b := &member{key: "a"}, &member{key: "b"}
	require.NoError(t, site.AddPart(a, nil))
	require.NoError(t, site.AddPart(b, nil))

	require.NoError(t, rec.userRequest(func(s *presentation.StackSite) error { return s.RequestActivation(b) }))
	assert.Equal(t, []string{"b"}, h.activations)
	assert.Same(t, b, site.Selected())

	err := rec.userRequest(func(s *presentation.StackSite) error { return s.RequestActivation(&member{key: "c"}) })
	assert.True(t, errors.Is(err, fault.ErrProtocol))
	assert.Equal(t, []string{"b"}, h.activations)
}

func TestSaveRestore(t *testing.T) {
	site, _, _ := newSite(presentation.Options{SupportedStates: []presentation.State{presentation.Maximized}})
	a, b := &member{key: "a"}, &member{key: "b"}
	require.NoError(t, site.AddPart(a, nil))
	require.NoError(t, site.AddPart(b, nil))
	require.NoError(t, site.SelectPart(b))
	require.NoError(t, site.SetState(presentation.Maximized))
	site.SetProperty("color", "blue")

	saved := memento.New("stack")
	site.SaveState(saved)
	assert.Equal(t, []string{"a", "b"}, presentation.SavedPages(saved))

	other, rec, _ := newSite(presentation.Options{SupportedStates: []presentation.State{presentation.Maximized}})
	a2, b2 := &member{key: "a"}, &member{key: "b"}
	require.NoError(t, other.AddPart(a2, nil))
	require.NoError(t, other.AddPart(b2, nil))
	require.NoError(t, other.RestoreState(saved))

	assert.Equal(t, presentation.Maximized, other.State())
	assert.Same(t, b2, other.Selected())
	v, ok := other.Property("color")
	assert.True(t, ok)
	assert.Equal(t, "blue", v)
	require.NotNil(t, rec.restored)
	recorded, _ := rec.restored.GetString("recorded")
	assert.Equal(t, "yes", recorded)

	t.Run("unsupported saved state is skipped", func(t *testing.T) {
		limited, rec, _ := newSite(presentation.Options{})
		err := limited.RestoreState(saved)
		assert.True(t, errors.Is(err, fault.ErrPersistence))
		assert.Equal(t, presentation.Restored, limited.State())
		assert.Empty(t, rec.states)
		assert.NotNil(t, rec.restored, "rest of the state was not restored")
	})
}
