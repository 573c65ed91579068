package providers

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/memento"
)

const sessionSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	saved_at TEXT NOT NULL,
	document TEXT NOT NULL
);
`

// SessionEntry describes one saved session of a SQLiteStore's history.
type SessionEntry struct {
	ID      int64
	SavedAt time.Time
}

// SQLiteStore keeps the sessions in a SQLite database. Every save adds a new
// session, and the store keeps the most recent ones as history.
type SQLiteStore struct {
	db      *sql.DB
	path    string
	history int
	logger  zerolog.Logger

	now func() time.Time
}

// NewSQLiteStore opens (and if necessary creates) the session database at
// path. history is the number of sessions kept; zero or less keeps all.
func NewSQLiteStore(path string, history int, logger zerolog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fault.Persistence("open", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fault.Persistence("open", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sessionSchema); err != nil {
		db.Close()
		return nil, fault.Persistence("open", path, fmt.Errorf("could not create schema (%w)", err))
	}
	return &SQLiteStore{
		db:      db,
		path:    path,
		history: history,
		logger:  logger.With().Str("session-db", path).Logger(),
		now:     time.Now,
	}, nil
}

// Load reads the most recently saved session.
func (s *SQLiteStore) Load() (*memento.Memento, error) {
	var id int64
	var document string
	err := s.db.QueryRow(`SELECT id, document FROM sessions ORDER BY id DESC LIMIT 1`).Scan(&id, &document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fault.Persistence("load", s.path, err)
	}
	return s.parse(id, document)
}

// LoadEntry reads the saved session with the given id.
func (s *SQLiteStore) LoadEntry(id int64) (*memento.Memento, error) {
	var document string
	err := s.db.QueryRow(`SELECT document FROM sessions WHERE id = ?`, id).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.Persistence("load", fmt.Sprint(id), errors.New("no such session"))
	}
	if err != nil {
		return nil, fault.Persistence("load", s.path, err)
	}
	return s.parse(id, document)
}

func (s *SQLiteStore) parse(id int64, document string) (*memento.Memento, error) {
	root, err := memento.Read(strings.NewReader(document))
	if err != nil {
		return nil, fault.Persistence("load", fmt.Sprint(id), err)
	}
	s.logger.Debug().Int64("session", id).Msg("loaded session")
	return root, nil
}

// Save adds the session to the database and drops sessions beyond the
// history length.
func (s *SQLiteStore) Save(root *memento.Memento) error {
	document := &strings.Builder{}
	if err := memento.Write(document, root); err != nil {
		return fault.Persistence("save", s.path, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fault.Persistence("save", s.path, err)
	}
	defer tx.Rollback()

	savedAt := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.Exec(`INSERT INTO sessions (saved_at, document) VALUES (?, ?)`, savedAt, document.String()); err != nil {
		return fault.Persistence("save", s.path, err)
	}
	if s.history > 0 {
		_, err := tx.Exec(
			`DELETE FROM sessions WHERE id NOT IN (SELECT id FROM sessions ORDER BY id DESC LIMIT ?)`,
			s.history,
		)
		if err != nil {
			return fault.Persistence("save", s.path, fmt.Errorf("could not prune history (%w)", err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fault.Persistence("save", s.path, err)
	}
	s.logger.Debug().Msg("saved session")
	return nil
}

// History returns the kept sessions, most recent first.
func (s *SQLiteStore) History() ([]SessionEntry, error) {
	rows, err := s.db.Query(`SELECT id, saved_at FROM sessions ORDER BY id DESC`)
	if err != nil {
		return nil, fault.Persistence("history", s.path, err)
	}
	defer rows.Close()

	result := []SessionEntry{}
	for rows.Next() {
		var entry SessionEntry
		var savedAt string
		if err := rows.Scan(&entry.ID, &savedAt); err != nil {
			return nil, fault.Persistence("history", s.path, err)
		}
		entry.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt)
		if err != nil {
			s.logger.Warn().Err(err).Int64("session", entry.ID).Msg("session has malformed timestamp")
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Persistence("history", s.path, err)
	}
	return result, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
