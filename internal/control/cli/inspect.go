package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ja-he/workbench/internal/config"
	"github.com/ja-he/workbench/internal/memento"
	"github.com/ja-he/workbench/internal/storage"
	"github.com/ja-he/workbench/internal/storage/providers"
	"github.com/ja-he/workbench/internal/util"
)

// InspectCommand is the `inspect` command line command, printing a saved
// session.
type InspectCommand struct {
	File    string `short:"f" long:"file" description:"read the session from this file instead of the configured session store" value-name:"<file>"`
	History bool   `long:"history" description:"list the saved sessions kept by a sqlite session store"`
	Entry   int64  `short:"e" long:"entry" description:"print this saved session of a sqlite session store" value-name:"<id>"`
}

// Execute executes the inspect command.
// (This gets called by `go-flags` when `inspect` is provided on the command
// line)
func (command *InspectCommand) Execute(args []string) error {
	logger := log.Logger.Level(zerolog.WarnLevel)

	var store storage.SessionStore
	if command.File != "" {
		store = providers.NewFileStore(command.File, logger)
	} else {
		home := workbenchHome()
		configData := loadConfig(home, config.Dark, logger)
		var err error
		store, err = providers.FromConfig(configData.Session, home, logger)
		if err != nil {
			return fmt.Errorf("could not open session store (%w)", err)
		}
	}
	defer store.Close()

	if command.History || command.Entry != 0 {
		sqliteStore, ok := store.(*providers.SQLiteStore)
		if !ok {
			return fmt.Errorf("session store keeps no history")
		}
		if command.History {
			entries, err := sqliteStore.History()
			if err != nil {
				return err
			}
			for _, entry := range entries {
				fmt.Printf("%d\t%s\n", entry.ID, entry.SavedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		}
		root, err := sqliteStore.LoadEntry(command.Entry)
		if err != nil {
			return err
		}
		return PrintTree(os.Stdout, root)
	}

	root, err := store.Load()
	if err != nil {
		return err
	}
	if root == nil {
		fmt.Println("no saved session")
		return nil
	}
	return PrintTree(os.Stdout, root)
}

// PrintTree writes the memento tree as indented text, one element per line
// with its attributes and a shortened text payload.
func PrintTree(w io.Writer, m *memento.Memento) error {
	return printTree(w, m, 0)
}

func printTree(w io.Writer, m *memento.Memento, depth int) error {
	line := &strings.Builder{}
	line.WriteString(strings.Repeat("  ", depth))
	line.WriteString(m.GetType())
	for _, key := range m.AttributeKeys() {
		value, _ := m.GetString(key)
		line.WriteString(" " + key + "=" + strconv.Quote(value))
	}
	if text, ok := m.GetTextData(); ok && text != "" {
		line.WriteString(" " + strconv.Quote(util.TruncateAt(text, 40)))
	}
	if _, err := fmt.Fprintln(w, line.String()); err != nil {
		return err
	}
	for _, child := range m.GetAllChildren() {
		if err := printTree(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
