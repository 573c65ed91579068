// Package providers contains the session store implementations.
package providers

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ja-he/workbench/internal/config"
	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/storage"
)

var (
	_ storage.SessionStore = &FileStore{}
	_ storage.SessionStore = &SQLiteStore{}
)

// FromConfig opens the session store the configuration names. A relative
// path is resolved against home.
func FromConfig(session config.Session, home string, logger zerolog.Logger) (storage.SessionStore, error) {
	path := session.Path
	if path == "" {
		path = config.DefaultSession
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(home, path)
	}

	switch session.Provider {
	case "", "file":
		return NewFileStore(path, logger), nil
	case "sqlite":
		return NewSQLiteStore(path, session.History, logger)
	default:
		return nil, fault.Configuration("open session store", session.Provider, fmt.Errorf("unknown provider"))
	}
}
