package workbench_test

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja-he/workbench/internal/config"
	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/memento"
	"github.com/ja-he/workbench/internal/part"
	"github.com/ja-he/workbench/internal/presentation"
	"github.com/ja-he/workbench/internal/registry"
	"github.com/ja-he/workbench/internal/skin"
	"github.com/ja-he/workbench/internal/toolkit"
	"github.com/ja-he/workbench/internal/workbench"
)

type testPart struct {
	part.Base
	env  *env
	name string
	text string

	onInit  func(site *part.Site)
	onFocus func()
}

func (p *testPart) Init(site *part.Site, state *memento.Memento) error {
	if err := p.Base.Init(site, state); err != nil {
		return err
	}
	if state != nil {
		p.text, _ = state.GetTextData()
	}
	if p.onInit != nil {
		p.onInit(site)
	}
	return nil
}
func (p *testPart) Name() string                 { return p.name }
func (p *testPart) SaveState(m *memento.Memento) { m.PutTextData(p.text) }
func (p *testPart) SetFocus() {
	if p.onFocus != nil {
		p.onFocus()
	}
}
func (p *testPart) Dispose() {
	p.env.disposed = append(p.env.disposed, p.Site().Key())
}

type env struct {
	page     *workbench.Page
	tk       *toolkit.Tree
	disposed []string
	events   []workbench.PartEvent
	hooks    map[string]func(p *testPart)
}

func layout() config.Layout {
	return config.Layout{
		Stacks: []config.Stack{
			{ID: "side", Views: []string{"a", "b"}, SupportedStates: []string{"minimized", "maximized"}},
			{ID: "editors", Editors: true, SupportedStates: []string{"maximized"}},
			{ID: "bottom", Views: []string{"c"}, SupportedStates: []string{"minimized", "maximized"}},
		},
		Active: "a",
	}
}

func newEnv(t *testing.T) *env {
	e := &env{tk: toolkit.NewTree(), hooks: map[string]func(p *testPart){}}
	reg := registry.New()
	factory := func(id string) part.Factory {
		return part.FactoryFunc(func() (part.Part, error) {
			p := &testPart{env: e, name: "Name of " + id}
			if hook, ok := e.hooks[id]; ok {
				hook(p)
			}
			return p, nil
		})
	}
	for _, desc := range []*part.Descriptor{
		{ID: "a", Label: "A", Kind: part.KindView, Factory: factory("a")},
		{ID: "b", Label: "B", Kind: part.KindView, Factory: factory("b")},
		{ID: "c", Label: "C", Kind: part.KindView, Factory: factory("c")},
		{ID: "multi", Label: "Multi", Kind: part.KindView, AllowMultiple: true, Factory: factory("multi")},
		{ID: "fixed", Label: "Fixed", Kind: part.KindView, Factory: factory("fixed"), Properties: map[string]string{workbench.PropertyCloseable: "false"}},
		{ID: "ed", Label: "Editor", Kind: part.KindEditor, Factory: factory("ed")},
	} {
		require.NoError(t, reg.Register(desc))
	}

	page, err := workbench.NewPage(workbench.Options{
		Toolkit:      e.tk,
		Parent:       e.tk.Root(),
		Registry:     reg,
		Presentation: skin.Factory,
		Layout:       layout(),
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)
	page.AddPartListener(func(ev workbench.PartEvent) { e.events = append(e.events, ev) })
	e.page = page
	return e
}

func (e *env) count(t workbench.EventType) int {
	n := 0
	for _, ev := range e.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func TestNewPage(t *testing.T) {
	for name, l := range map[string]config.Layout{
		"no stacks":         {},
		"two editor stacks": {Stacks: []config.Stack{{ID: "x", Editors: true}, {ID: "y", Editors: true}}},
		"unknown state":     {Stacks: []config.Stack{{ID: "x", SupportedStates: []string{"huge"}}}},
	} {
		t.Run(name, func(t *testing.T) {
			tk := toolkit.NewTree()
			_, err := workbench.NewPage(workbench.Options{
				Toolkit: tk, Parent: tk.Root(), Registry: registry.New(),
				Presentation: skin.Factory, Layout: l, Logger: zerolog.Nop(),
			})
			assert.True(t, errors.Is(err, fault.ErrConfiguration), "unexpected error %v", err)
		})
	}
}

func TestShowHideView(t *testing.T) {

	t.Run("show places and activates", func(t *testing.T) {
		e := newEnv(t)
		a, err := e.page.ShowView("a", "")
		require.NoError(t, err)
		assert.Same(t, a, e.page.ActivePart())
		assert.Equal(t, "side", e.page.StackOf(a).StackID())
		assert.Equal(t, part.StateCreated, a.State())
		assert.Equal(t, 1, e.count(workbench.ActivePartChanged))
		assert.Equal(t, 1, e.count(workbench.PartOpened))
		assert.Equal(t, presentation.ActiveFocus, e.page.Stack("side").Active())

		again, err := e.page.ShowView("a", "")
		require.NoError(t, err)
		assert.Same(t, a, again)
		assert.Equal(t, 1, e.count(workbench.ActivePartChanged))
	})

	t.Run("undeclared views go to the first view stack", func(t *testing.T) {
		e := newEnv(t)
		m, err := e.page.ShowView("multi", "1")
		require.NoError(t, err)
		assert.Equal(t, "side", e.page.StackOf(m).StackID())
		assert.Equal(t, "multi:1", m.Key())
	})

	t.Run("configuration errors", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.page.ShowView("a", "second")
		assert.True(t, errors.Is(err, fault.ErrConfiguration))
		_, err = e.page.ShowView("nope", "")
		assert.True(t, errors.Is(err, fault.ErrConfiguration))
		assert.Empty(t, e.page.ViewReferences())
	})

	t.Run("lazy tabs", func(t *testing.T) {
		e := newEnv(t)
		a, _ := e.page.ShowView("a", "")
		b, _ := e.page.ShowView("b", "")
		require.NoError(t, e.page.Activate(a))
		assert.Equal(t, part.StateCreated, b.State())

		m, err := e.page.ShowView("multi", "x")
		require.NoError(t, err)
		require.NoError(t, e.page.Activate(a))
		assert.Equal(t, part.StateCreated, m.State())
		assert.Equal(t, 3, e.tk.Live())
	})

	t.Run("hide recomputes the active part", func(t *testing.T) {
		e := newEnv(t)
		a, _ := e.page.ShowView("a", "")
		c, _ := e.page.ShowView("c", "")
		require.Same(t, c, e.page.ActivePart())

		require.NoError(t, e.page.HideView(c))
		assert.Same(t, a, e.page.ActivePart())
		assert.True(t, c.IsDisposed())
		assert.Equal(t, []string{"c"}, e.disposed)
		assert.Nil(t, e.page.FindView("c", ""))

		err := e.page.HideView(c)
		assert.True(t, errors.Is(err, fault.ErrProtocol))
	})

	t.Run("hidden view keeps its state", func(t *testing.T) {
		e := newEnv(t)
		m, _ := e.page.ShowView("multi", "notes")
		m.Part(true).(*testPart).text = "kept"
		require.NoError(t, e.page.HideView(m))

		again, err := e.page.ShowView("multi", "notes")
		require.NoError(t, err)
		assert.NotSame(t, m, again)
		assert.Equal(t, "kept", again.Part(true).(*testPart).text)
	})
}

func TestDeferredUpdates(t *testing.T) {
	e := newEnv(t)
	a, _ := e.page.ShowView("a", "")
	b, _ := e.page.ShowView("b", "")
	c, _ := e.page.ShowView("c", "")
	before := e.page.Recomputations()

	e.page.Deferred(func() {
		require.NoError(t, e.page.HideView(a))
		require.NoError(t, e.page.HideView(b))
		require.NoError(t, e.page.HideView(c))
		assert.Empty(t, e.disposed, "disposed while deferred")
		assert.Equal(t, before, e.page.Recomputations(), "recomputed while deferred")
		assert.False(t, a.IsDisposed())
	})

	assert.Equal(t, before+1, e.page.Recomputations())
	assert.Equal(t, []string{"a", "b", "c"}, e.disposed)
	assert.Nil(t, e.page.ActivePart())

	t.Run("nested scopes flush once", func(t *testing.T) {
		e := newEnv(t)
		a, _ := e.page.ShowView("a", "")
		b, _ := e.page.ShowView("b", "")
		before := e.page.Recomputations()

		e.page.DeferUpdates(true)
		require.NoError(t, e.page.HideView(b))
		e.page.Deferred(func() {
			require.NoError(t, e.page.HideView(a))
		})
		assert.Empty(t, e.disposed)
		assert.True(t, e.page.IsDeferring())
		e.page.DeferUpdates(false)

		assert.Equal(t, before+1, e.page.Recomputations())
		assert.Equal(t, []string{"b", "a"}, e.disposed)
	})
}

func TestActivation(t *testing.T) {

	t.Run("re-entrant activation is rejected", func(t *testing.T) {
		e := newEnv(t)
		var reentry error
		e.hooks["b"] = func(p *testPart) {
			p.onInit = func(site *part.Site) {
				reentry = site.Host().Activate(site.Reference())
			}
		}
		_, err := e.page.ShowView("a", "")
		require.NoError(t, err)
		b, err := e.page.ShowView("b", "")
		require.NoError(t, err)

		assert.True(t, errors.Is(reentry, fault.ErrProtocol), "unexpected error %v", reentry)
		assert.Same(t, b, e.page.ActivePart())
		assert.Equal(t, part.StateCreated, b.State())
		assert.Equal(t, 2, e.count(workbench.ActivePartChanged))
	})

	t.Run("a part activating itself while created is rejected", func(t *testing.T) {
		e := newEnv(t)
		var reentry error
		focused := 0
		e.hooks["c"] = func(p *testPart) {
			p.onInit = func(site *part.Site) {
				reentry = site.Host().Activate(site.Reference())
			}
			p.onFocus = func() { focused++ }
		}
		c, err := e.page.ShowView("c", "")
		require.NoError(t, err)

		assert.True(t, errors.Is(reentry, fault.ErrProtocol), "unexpected error %v", reentry)
		assert.Same(t, c, e.page.ActivePart())
		assert.Equal(t, part.StateCreated, c.State())
		assert.True(t, c.Site().ActionBars().IsVisible())
		assert.Equal(t, 1, focused)
	})

	t.Run("activating another part while activating is rejected", func(t *testing.T) {
		e := newEnv(t)
		a, _ := e.page.ShowView("a", "")
		var reentry error
		e.hooks["b"] = func(p *testPart) {
			p.onFocus = func() { reentry = e.page.Activate(a) }
		}
		b, _ := e.page.ShowView("b", "")
		assert.True(t, errors.Is(reentry, fault.ErrProtocol))
		assert.Same(t, b, e.page.ActivePart())
	})

	t.Run("closing the part being activated is rejected", func(t *testing.T) {
		e := newEnv(t)
		var closing error
		e.hooks["ed"] = func(p *testPart) {
			p.onFocus = func() {
				closing = e.page.CloseEditors([]*part.Reference{p.Site().Reference()})
			}
		}
		ed, err := e.page.OpenEditor("ed", "file.txt")
		require.NoError(t, err)
		assert.True(t, errors.Is(closing, fault.ErrProtocol))
		assert.Equal(t, []*part.Reference{ed}, e.page.EditorReferences())
		assert.False(t, ed.IsDisposed())
	})

	t.Run("action bars follow activation", func(t *testing.T) {
		e := newEnv(t)
		a, _ := e.page.ShowView("a", "")
		c, _ := e.page.ShowView("c", "")
		assert.False(t, a.Site().ActionBars().IsVisible())
		assert.True(t, c.Site().ActionBars().IsVisible())
		assert.Equal(t, presentation.Inactive, e.page.Stack("side").Active())
		assert.Equal(t, presentation.ActiveFocus, e.page.Stack("bottom").Active())
	})

	t.Run("bring to top does not activate", func(t *testing.T) {
		e := newEnv(t)
		a, _ := e.page.ShowView("a", "")
		b, _ := e.page.ShowView("b", "")
		c, _ := e.page.ShowView("c", "")
		before := e.count(workbench.PartBroughtToTop)
		require.NoError(t, e.page.BringToTop(a))
		assert.Same(t, c, e.page.ActivePart())
		assert.Equal(t, "a", e.page.StackOf(b).Selected().Key())
		assert.Equal(t, before+1, e.count(workbench.PartBroughtToTop))
		assert.False(t, b.Site().ActionBars().IsVisible())
	})

	t.Run("cycling", func(t *testing.T) {
		e := newEnv(t)
		a, _ := e.page.ShowView("a", "")
		b, _ := e.page.ShowView("b", "")
		c, _ := e.page.ShowView("c", "")
		require.NoError(t, e.page.CyclePart(1))
		assert.Same(t, a, e.page.ActivePart())
		require.NoError(t, e.page.CyclePart(-1))
		assert.Same(t, c, e.page.ActivePart())
		require.NoError(t, e.page.Activate(a))
		require.NoError(t, e.page.CycleTab(1))
		assert.Same(t, b, e.page.ActivePart())
	})
}

func TestEditors(t *testing.T) {

	t.Run("reuse by id and input", func(t *testing.T) {
		e := newEnv(t)
		one, err := e.page.OpenEditor("ed", "one.txt")
		require.NoError(t, err)
		two, err := e.page.OpenEditor("ed", "two.txt")
		require.NoError(t, err)
		again, err := e.page.OpenEditor("ed", "one.txt")
		require.NoError(t, err)
		assert.Same(t, one, again)
		assert.NotSame(t, one, two)
		assert.Same(t, one, e.page.ActivePart())
		assert.Equal(t, "editors", e.page.StackOf(two).StackID())
		assert.Len(t, e.page.EditorReferences(), 2)
	})

	t.Run("rejected", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.page.OpenEditor("a", "x")
		assert.True(t, errors.Is(err, fault.ErrConfiguration))
		_, err = e.page.OpenEditor("ed", "")
		assert.True(t, errors.Is(err, fault.ErrConfiguration))
		assert.Empty(t, e.page.EditorReferences())
	})

	t.Run("active editor survives view activation", func(t *testing.T) {
		e := newEnv(t)
		ed, _ := e.page.OpenEditor("ed", "one.txt")
		v, _ := e.page.ShowView("c", "")
		assert.Same(t, v, e.page.ActivePart())
		assert.Same(t, ed, e.page.ActiveEditor())
		assert.Equal(t, presentation.ActiveNoFocus, e.page.Stack("editors").Active())

		require.NoError(t, e.page.HideView(v))
		assert.Same(t, ed, e.page.ActivePart())
	})

	t.Run("editor follows closed editor", func(t *testing.T) {
		e := newEnv(t)
		one, _ := e.page.OpenEditor("ed", "one.txt")
		v, _ := e.page.ShowView("c", "")
		two, _ := e.page.OpenEditor("ed", "two.txt")
		_ = v

		require.NoError(t, e.page.CloseEditors([]*part.Reference{two}))
		assert.Same(t, one, e.page.ActivePart())
		assert.Same(t, one, e.page.ActiveEditor())
		assert.True(t, two.IsDisposed())
	})

	t.Run("close all", func(t *testing.T) {
		e := newEnv(t)
		_, _ = e.page.OpenEditor("ed", "one.txt")
		_, _ = e.page.OpenEditor("ed", "two.txt")
		before := e.page.Recomputations()
		require.NoError(t, e.page.CloseAllEditors())
		assert.Empty(t, e.page.EditorReferences())
		assert.Nil(t, e.page.ActiveEditor())
		assert.Nil(t, e.page.ActivePart())
		assert.Equal(t, before+1, e.page.Recomputations())
		assert.Equal(t, []string{"ed:one.txt", "ed:two.txt"}, e.disposed)
	})

	t.Run("close batch naming an editor twice", func(t *testing.T) {
		e := newEnv(t)
		one, _ := e.page.OpenEditor("ed", "one.txt")
		two, _ := e.page.OpenEditor("ed", "two.txt")
		require.NoError(t, e.page.CloseEditors([]*part.Reference{one, one}))
		assert.True(t, one.IsDisposed())
		assert.Equal(t, []*part.Reference{two}, e.page.EditorReferences())
		assert.Equal(t, []string{"ed:one.txt"}, e.disposed)
	})

	t.Run("close batch with unknown editor", func(t *testing.T) {
		e := newEnv(t)
		one, _ := e.page.OpenEditor("ed", "one.txt")
		stranger := part.NewEditorReference(e.page, "ed", "stranger.txt", nil, nil)
		err := e.page.CloseEditors([]*part.Reference{one, stranger})
		assert.True(t, errors.Is(err, fault.ErrProtocol))
		assert.Len(t, e.page.EditorReferences(), 1)
	})
}

func TestStacks(t *testing.T) {

	t.Run("one maximized stack", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, e.page.SetState("side", presentation.Maximized))
		require.NoError(t, e.page.SetState("bottom", presentation.Maximized))
		assert.Equal(t, presentation.Restored, e.page.Stack("side").State())
		assert.Equal(t, presentation.Maximized, e.page.Stack("bottom").State())
	})

	t.Run("unsupported state", func(t *testing.T) {
		e := newEnv(t)
		err := e.page.SetState("editors", presentation.Minimized)
		assert.True(t, errors.Is(err, fault.ErrProtocol))
		err = e.page.SetState("nope", presentation.Minimized)
		assert.True(t, errors.Is(err, fault.ErrConfiguration))
	})

	t.Run("stack close goes through the page", func(t *testing.T) {
		e := newEnv(t)
		a, _ := e.page.ShowView("a", "")
		f, _ := e.page.ShowView("fixed", "")
		site := e.page.StackOf(a)
		tabs := site.Presentation().(*skin.TabSkin)

		require.NoError(t, tabs.ClickClose(0))
		assert.True(t, a.IsDisposed())
		assert.Nil(t, e.page.FindView("a", ""))

		require.NoError(t, tabs.ClickClose(0))
		assert.False(t, f.IsDisposed(), "view declared not closeable was closed")
	})

	t.Run("tab click activates", func(t *testing.T) {
		e := newEnv(t)
		a, _ := e.page.ShowView("a", "")
		_, _ = e.page.ShowView("c", "")
		tabs := e.page.StackOf(a).Presentation().(*skin.TabSkin)
		require.NoError(t, tabs.ClickTab(0))
		assert.Same(t, a, e.page.ActivePart())
	})

	t.Run("move keeps the active part selected and focused", func(t *testing.T) {
		e := newEnv(t)
		a, _ := e.page.ShowView("a", "")
		site := e.page.StackOf(a)
		selected := site.Selected()
		require.NoError(t, site.MovePart(selected, 0))
		assert.Same(t, selected, site.Selected())
		assert.Same(t, a, e.page.ActivePart())
		assert.Equal(t, presentation.ActiveFocus, site.Active())
	})
}

func TestClose(t *testing.T) {
	e := newEnv(t)
	_, _ = e.page.ShowView("a", "")
	_, _ = e.page.ShowView("c", "")
	_, _ = e.page.OpenEditor("ed", "one.txt")

	require.NoError(t, e.page.Close())
	assert.ElementsMatch(t, []string{"a", "c", "ed:one.txt"}, e.disposed)
	assert.Equal(t, 0, e.tk.Live())
	assert.True(t, e.page.IsClosed())

	_, err := e.page.ShowView("a", "")
	assert.True(t, errors.Is(err, fault.ErrProtocol))
	require.NoError(t, e.page.Close())
}
