package providers

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/memento"
)

// FileStore keeps the session as a memento document in a single file.
// Saving replaces the file atomically, so a crash while saving leaves the
// previous session intact.
type FileStore struct {
	mutex    sync.Mutex
	filename string
	logger   zerolog.Logger
}

// NewFileStore returns a store for the session file at the given path.
func NewFileStore(filename string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		filename: filename,
		logger:   logger.With().Str("session-file", filename).Logger(),
	}
}

// Load reads the session file. A missing file means there is no session.
func (s *FileStore) Load() (*memento.Memento, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	f, err := os.Open(s.filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fault.Persistence("load", s.filename, err)
	}
	defer f.Close()

	root, err := memento.Read(bufio.NewReader(f))
	if err != nil {
		return nil, fault.Persistence("load", s.filename, err)
	}
	s.logger.Debug().Msg("loaded session")
	return root, nil
}

// Save writes the session to a temporary file next to the session file and
// moves it into place.
func (s *FileStore) Save(root *memento.Memento) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	dir := filepath.Dir(s.filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fault.Persistence("save", s.filename, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.filename)+".*")
	if err != nil {
		return fault.Persistence("save", s.filename, err)
	}
	defer os.Remove(tmp.Name())

	writer := bufio.NewWriter(tmp)
	if err := memento.Write(writer, root); err != nil {
		tmp.Close()
		return fault.Persistence("save", s.filename, err)
	}
	if err := writer.Flush(); err != nil {
		tmp.Close()
		return fault.Persistence("save", s.filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fault.Persistence("save", s.filename, err)
	}
	if err := os.Rename(tmp.Name(), s.filename); err != nil {
		return fault.Persistence("save", s.filename, fmt.Errorf("could not replace session file (%w)", err))
	}
	s.logger.Debug().Msg("saved session")
	return nil
}

// Close does nothing; the file is only open during Load and Save.
func (s *FileStore) Close() error { return nil }
