package storage_test

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja-he/workbench/internal/fault"
	"github.com/ja-he/workbench/internal/memento"
	"github.com/ja-he/workbench/internal/storage"
)

type store struct {
	root  *memento.Memento
	err   error
	saved *memento.Memento
}

func (s *store) Load() (*memento.Memento, error)  { return s.root, s.err }
func (s *store) Save(root *memento.Memento) error { s.saved = root; return nil }
func (s *store) Close() error                     { return nil }

type page struct {
	resets   int
	restored *memento.Memento
	hint     string
	refuse   bool
}

func (p *page) SaveState(root *memento.Memento) bool {
	root.CreateChild("views")
	return !p.refuse
}
func (p *page) RestoreState(root *memento.Memento, hint string) bool {
	p.restored, p.hint = root, hint
	return true
}
func (p *page) ResetLayout() error { p.resets++; return nil }

func TestRestore(t *testing.T) {
	saved := memento.New(storage.TagSession)
	saved.CreateChild("views")

	testcases := map[string]struct {
		store    *store
		restored bool
	}{
		"saved session":   {&store{root: saved}, true},
		"no session":      {&store{}, false},
		"unreadable":      {&store{err: fault.Persistence("load", "x", errors.New("bad"))}, false},
		"unexpected root": {&store{root: memento.New("layout")}, false},
	}
	for name, tc := range testcases {
		t.Run(name, func(t *testing.T) {
			p := &page{}
			require.NoError(t, storage.Restore(tc.store, p, "hint", zerolog.Nop()))
			if tc.restored {
				assert.Same(t, saved, p.restored)
				assert.Equal(t, "hint", p.hint)
				assert.Zero(t, p.resets)
			} else {
				assert.Nil(t, p.restored)
				assert.Equal(t, 1, p.resets)
			}
		})
	}
}

func TestSave(t *testing.T) {
	s := &store{}
	require.NoError(t, storage.Save(s, &page{}))
	require.NotNil(t, s.saved)
	assert.Equal(t, storage.TagSession, s.saved.GetType())
	assert.NotNil(t, s.saved.GetChild("views"))

	s = &store{}
	err := storage.Save(s, &page{refuse: true})
	assert.True(t, errors.Is(err, fault.ErrPersistence))
	assert.Nil(t, s.saved)
}
