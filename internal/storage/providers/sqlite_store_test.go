package providers_test

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja-he/workbench/internal/storage/providers"
)

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	store, err := providers.NewSQLiteStore(path, 2, zerolog.Nop())
	require.NoError(t, err)

	root, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, root)

	for _, text := range []string{"one", "two", "three"} {
		require.NoError(t, store.Save(session(text)))
	}

	history, err := store.History()
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Greater(t, history[0].ID, history[1].ID)
	assert.False(t, history[0].SavedAt.IsZero())

	older, err := store.LoadEntry(history[1].ID)
	require.NoError(t, err)
	assert.True(t, session("two").Equal(older))

	_, err = store.LoadEntry(history[0].ID + 100)
	assert.Error(t, err)
	require.NoError(t, store.Close())

	t.Run("reopened", func(t *testing.T) {
		store, err := providers.NewSQLiteStore(path, 0, zerolog.Nop())
		require.NoError(t, err)
		defer store.Close()

		root, err := store.Load()
		require.NoError(t, err)
		assert.True(t, session("three").Equal(root))

		require.NoError(t, store.Save(session("four")))
		history, err := store.History()
		require.NoError(t, err)
		assert.Len(t, history, 3)
	})
}
