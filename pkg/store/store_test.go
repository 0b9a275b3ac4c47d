package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func TestStore_SaveGetRemove(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			// missing key is a miss, not an error
			value, err := s.Get(KeyAccessCredential)
			require.NoError(t, err)
			assert.Nil(t, value)

			require.NoError(t, s.Save(KeyAccessCredential, []byte("tok-1")))
			value, err = s.Get(KeyAccessCredential)
			require.NoError(t, err)
			assert.Equal(t, []byte("tok-1"), value)

			// overwrite
			require.NoError(t, s.Save(KeyAccessCredential, []byte("tok-2")))
			value, err = s.Get(KeyAccessCredential)
			require.NoError(t, err)
			assert.Equal(t, []byte("tok-2"), value)

			require.NoError(t, s.Remove(KeyAccessCredential))
			value, err = s.Get(KeyAccessCredential)
			require.NoError(t, err)
			assert.Nil(t, value)

			// removing a missing key is a no-op
			require.NoError(t, s.Remove(KeyAccessCredential))
		})
	}
}

func TestStore_ClearRemovesAllManagedKeys(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(KeyAccessCredential, []byte("a")))
			require.NoError(t, s.Save(KeyRefreshCredential, []byte("r")))
			require.NoError(t, s.Save(KeyUserProfile, []byte(`{"id":"u1"}`)))

			require.NoError(t, s.Clear())

			for _, key := range managedKeys {
				value, err := s.Get(key)
				require.NoError(t, err)
				assert.Nil(t, value, "key %s should be gone", key)
			}

			// clearing an already empty store is a no-op
			require.NoError(t, s.Clear())
		})
	}
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s1, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Save(KeyRefreshCredential, []byte("refresh-tok")))

	s2, err := NewFileStore(path)
	require.NoError(t, err)
	value, err := s2.Get(KeyRefreshCredential)
	require.NoError(t, err)
	assert.Equal(t, []byte("refresh-tok"), value)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s1, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Save(KeyUserProfile, []byte(`{"id":"u1"}`)))
	require.NoError(t, s1.Close())

	s2, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s2.Close()
	value, err := s2.Get(KeyUserProfile)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"u1"}`), value)
}
