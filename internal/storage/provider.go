package storage

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/memento"
)

// TagSession is the type of a saved session's root memento.
const TagSession = "workbench"

// SessionStore is the abstracted store of workbench sessions, which can be
// implemented over various storage systems.
//
// Load returns nil without error if no session was saved yet. A saved session
// that can not be read is reported as a persistence error.
type SessionStore interface {
	Load() (*memento.Memento, error)
	Save(*memento.Memento) error
	Close() error
}

// Page is what a session is saved from and restored into.
type Page interface {
	SaveState(root *memento.Memento) bool
	RestoreState(root *memento.Memento, activeHint string) bool
	ResetLayout() error
}

// Restore restores the page from the store's session.
//
// If there is no saved session, or the saved session can not be read at all,
// the page is reset to its default layout instead. An incomplete restoration
// keeps what could be restored.
func Restore(store SessionStore, page Page, activeHint string, logger zerolog.Logger) error {
	root, err := store.Load()
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("could not load session, falling back to default layout")
		return page.ResetLayout()
	case root == nil:
		logger.Debug().Msg("no saved session, using default layout")
		return page.ResetLayout()
	case root.GetType() != TagSession:
		logger.Warn().Str("type", root.GetType()).Msg("saved session has unexpected root, falling back to default layout")
		return page.ResetLayout()
	}

	if !page.RestoreState(root, activeHint) {
		logger.Warn().Msg("session restored incompletely")
	}
	return nil
}

// Save saves the page's session to the store.
func Save(store SessionStore, page Page) error {
	root := memento.New(TagSession)
	if !page.SaveState(root) {
		return fault.Persistence("save", TagSession, errors.New("page did not save its state"))
	}
	if err := store.Save(root); err != nil {
		return fmt.Errorf("could not store session (%w)", err)
	}
	return nil
}
