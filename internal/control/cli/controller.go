package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/ja-he/workbench/internal/config"
	"github.com/ja-he/workbench/internal/control/action"
	"github.com/ja-he/workbench/internal/input"
	"github.com/ja-he/workbench/internal/parts"
	"github.com/ja-he/workbench/internal/potatolog"
	"github.com/ja-he/workbench/internal/presentation"
	"github.com/ja-he/workbench/internal/registry"
	"github.com/ja-he/workbench/internal/skin"
	"github.com/ja-he/workbench/internal/storage"
	"github.com/ja-he/workbench/internal/styling"
	"github.com/ja-he/workbench/internal/tui"
	"github.com/ja-he/workbench/internal/ui"
	"github.com/ja-he/workbench/internal/util"
	"github.com/ja-he/workbench/internal/workbench"
)

// Names of the commands the controller adds to the page's commands.
const (
	CommandOpenEditor  = "open-editor"
	CommandOpenNotes   = "open-notes"
	CommandSaveSession = "save-session"
	CommandQuit        = "quit"
)

// ScratchFile is the file the open-editor command edits, relative to the
// workbench home.
const ScratchFile = "scratch.txt"

// Controller runs a workbench page on a terminal screen: it feeds key and
// mouse events to the page, draws the stacks and keeps the session.
//
// All page access happens on the goroutine calling Run (or HandleEvent and
// Draw).
type Controller struct {
	page       *workbench.Page
	config     config.Config
	toolkit    *tui.ScreenToolkit
	screen     *tui.ScreenHandler
	stylesheet *styling.Stylesheet
	store      storage.SessionStore
	home       string

	input    input.Processor
	bindings *input.Tree

	bounds      map[string]util.Rect
	lastButtons tcell.ButtonMask
	quitting    bool

	logger zerolog.Logger
}

// NewController builds the page the configuration describes on the given
// screen. The session is not restored yet, see Restore.
func NewController(
	c config.Config,
	home string,
	store storage.SessionStore,
	screen *tui.ScreenHandler,
	logs potatolog.LogReader,
	logger zerolog.Logger,
) (*Controller, error) {
	controller := &Controller{
		config:     c,
		toolkit:    tui.NewScreenToolkit(screen),
		screen:     screen,
		stylesheet: styling.NewStylesheetFromConfig(c.Stylesheet),
		store:      store,
		home:       home,
		bounds:     map[string]util.Rect{},
		logger:     logger,
	}

	help := func() input.Help {
		if controller.input == nil {
			return input.Help{}
		}
		return controller.input.GetHelp()
	}
	reg, err := registry.FromConfig(c, parts.Classes(logs, help), logger)
	if err != nil {
		return nil, fmt.Errorf("could not register parts (%w)", err)
	}

	controller.page, err = workbench.NewPage(workbench.Options{
		Toolkit:      controller.toolkit,
		Parent:       controller.toolkit.Root(),
		Registry:     reg,
		Presentation: skin.Factory,
		Layout:       c.Layout,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create page (%w)", err)
	}

	commands := controller.page.Commands()
	for name, command := range controller.commands() {
		commands[name] = command
	}
	controller.bindings, err = workbench.BindCommands(c.Keys, commands)
	if err != nil {
		return nil, fmt.Errorf("could not bind keys (%w)", err)
	}
	controller.input = input.NewChain(func() []input.Processor {
		processors := []input.Processor{}
		if active := controller.page.ActivePart(); active != nil && active.Site() != nil {
			if p := active.Site().ActionBars().Processor(); p != nil {
				processors = append(processors, p)
			}
		}
		return append(processors, controller.bindings)
	})

	return controller, nil
}

func (c *Controller) commands() map[string]action.Action {
	explain := func(s string) func() string { return func() string { return s } }
	return map[string]action.Action{
		CommandOpenEditor: action.NewSimple(explain("open the scratch file"), func() {
			if _, err := c.page.OpenEditor(config.TextEditorID, filepath.Join(c.home, ScratchFile)); err != nil {
				c.logger.Error().Err(err).Msg("could not open scratch file")
			}
		}),
		CommandOpenNotes: action.NewSimple(explain("open new notes"), func() {
			n := 1
			for c.page.FindView(config.NotesViewID, strconv.Itoa(n)) != nil {
				n++
			}
			if _, err := c.page.ShowView(config.NotesViewID, strconv.Itoa(n)); err != nil {
				c.logger.Error().Err(err).Msg("could not open notes")
			}
		}),
		CommandSaveSession: action.NewSimple(explain("save session"), func() {
			if err := c.SaveSession(); err != nil {
				c.logger.Error().Err(err).Msg("could not save session")
			}
		}),
		CommandQuit: action.NewSimple(explain("save session and quit"), func() { c.quitting = true }),
	}
}

// Page returns the controlled page.
func (c *Controller) Page() *workbench.Page { return c.page }

// IsQuitting indicates whether quitting was requested.
func (c *Controller) IsQuitting() bool { return c.quitting }

// Restore restores the saved session, activating the part with the key
// activeHint if given, and opens editors for the given files.
func (c *Controller) Restore(activeHint string, files []string) error {
	if err := storage.Restore(c.store, c.page, activeHint, c.logger); err != nil {
		c.logger.Error().Err(err).Msg("could not set up default layout")
	}
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("could not resolve '%s' (%w)", file, err)
		}
		if _, err := c.page.OpenEditor(config.TextEditorID, abs); err != nil {
			return fmt.Errorf("could not open '%s' (%w)", file, err)
		}
	}
	return nil
}

// SaveSession saves the session to the store.
func (c *Controller) SaveSession() error {
	if err := storage.Save(c.store, c.page); err != nil {
		return err
	}
	c.logger.Info().Msg("saved session")
	return nil
}

// HandleEvent processes a screen event.
func (c *Controller) HandleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		key := input.KeyFromTcellEvent(e)
		if !c.input.ProcessInput(key) {
			c.logger.Debug().Str("key", key.String()).Msg("could not apply key input")
		}

	case *tcell.EventMouse:
		buttons := e.Buttons()
		pressed := buttons&tcell.Button1 != 0 && c.lastButtons&tcell.Button1 == 0
		c.lastButtons = buttons
		if pressed {
			c.click(e.Position())
		}

	case *tcell.EventResize:
		c.screen.NeedsSync()
	}
}

// click lets the skin of the stack under the cursor handle the click, and
// otherwise activates the stack's selected part.
func (c *Controller) click(x, y int) {
	for _, site := range c.page.Stacks() {
		if !c.bounds[site.StackID()].Contains(x, y) {
			continue
		}
		if tabs, ok := site.Presentation().(*skin.TabSkin); ok {
			handled, err := tabs.HandleClick(x, y)
			if err != nil {
				c.logger.Warn().Err(err).Str("stack", site.StackID()).Msg("click not applied")
			}
			if handled {
				return
			}
		}
		if selected := site.Selected(); selected != nil {
			if err := site.RequestActivation(selected); err != nil {
				c.logger.Warn().Err(err).Str("stack", site.StackID()).Msg("could not activate clicked part")
			}
		}
		return
	}
}

// Draw draws the stacks and the status line.
func (c *Controller) Draw() {
	c.screen.Clear()
	_, _, w, h := c.screen.Dimensions()

	stacks := []StackInfo{}
	for i, site := range c.page.Stacks() {
		stacks = append(stacks, StackInfo{
			ID:      site.StackID(),
			Editors: c.config.Layout.Stacks[i].Editors,
			State:   site.State(),
		})
	}
	c.bounds = Arrange(stacks, w, h-1)

	for _, ref := range c.page.Parts() {
		region, ok := ref.Control().(*tui.Region)
		if !ok {
			continue
		}
		b := c.bounds[c.page.StackOf(ref).StackID()]
		region.SetBounds(b.X, b.Y+1, b.W, max(b.H-1, 0))
	}

	for _, site := range c.page.Stacks() {
		b := c.bounds[site.StackID()]
		if b.W <= 0 || b.H <= 0 {
			continue
		}
		drawer, ok := site.Presentation().(interface {
			Draw(ui.ConstrainedRenderer, *styling.Stylesheet)
		})
		if !ok {
			continue
		}
		drawer.Draw(ui.NewConstrainedRenderer(c.screen, func() (int, int, int, int) { return b.X, b.Y, b.W, b.H }), c.stylesheet)
	}

	c.drawStatus(0, h-1, w)
	c.screen.Show()
}

func (c *Controller) drawStatus(x, y, w int) {
	c.screen.DrawBox(x, y, w, 1, c.stylesheet.Status)
	status := "no active part"
	if active := c.page.ActivePart(); active != nil {
		status = active.PartName()
		if description := active.ContentDescription(); description != "" {
			status += " (" + description + ")"
		}
		if site := c.page.StackOf(active); site != nil && site.State() != presentation.Restored {
			status += " [" + site.StackID() + " " + site.State().String() + "]"
		}
	}
	c.screen.DrawText(x+1, y, w-1, 1, c.stylesheet.Status, util.TruncateAt(status, w-1))
}

// Run draws and processes screen events until quitting is requested, then
// saves the session and finalizes the screen.
func (c *Controller) Run() {
	c.logger.Info().Msg("workbench TUI started")

	events := make(chan tcell.Event, 32)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(c.screen.GetEventPollable(), events, done)

	c.Draw()
	for ev := range events {
		c.HandleEvent(ev)
		if c.quitting {
			break
		}
		c.Draw()
	}

	if err := c.SaveSession(); err != nil {
		c.logger.Error().Err(err).Msg("could not save session on quit")
	}
	if err := c.page.Close(); err != nil {
		c.logger.Error().Err(err).Msg("could not close page")
	}
	c.screen.Fini()
	if err := c.store.Close(); err != nil {
		c.logger.Error().Err(err).Msg("could not close session store")
	}
}

// pollEvents forwards events from the pollable until it is finalized or done
// is closed, closing events when it stops.
func pollEvents(pollable tui.EventPollable, events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := pollable.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}
