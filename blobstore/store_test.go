package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "runs/a/1", []byte("alpha")))
		require.NoError(t, store.Put(ctx, "runs/a/2", []byte("beta")))
		require.NoError(t, store.Put(ctx, "runs/b/1", []byte("gamma")))

		data, err := store.Get(ctx, "runs/a/1")
		require.NoError(t, err)
		assert.Equal(t, []byte("alpha"), data)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "runs/a/1", []byte("alpha2")))

		data, err := store.Get(ctx, "runs/a/1")
		require.NoError(t, err)
		assert.Equal(t, []byte("alpha2"), data)
	})

	t.Run("list", func(t *testing.T) {
		names, err := store.List(ctx, "runs/a/")
		require.NoError(t, err)
		assert.Equal(t, []string{"runs/a/1", "runs/a/2"}, names)

		all, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "runs/a/1"))

		_, err := store.Get(ctx, "runs/a/1")
		assert.ErrorIs(t, err, ErrNotFound)

		// Deleting again is not an error.
		assert.NoError(t, store.Delete(ctx, "runs/a/1"))
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("original")
	require.NoError(t, store.Put(ctx, "blob", data))

	// Mutating the caller's slice must not affect the stored blob.
	data[0] = 'X'

	got, err := store.Get(ctx, "blob")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)
}

func TestLocalStore(t *testing.T) {
	testStore(t, NewLocalStore(t.TempDir()))
}

func TestLocalStoreNestedNames(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	require.NoError(t, store.Put(ctx, "deep/nested/path/blob", []byte("x")))

	data, err := store.Get(ctx, "deep/nested/path/blob")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)

	names, err := store.List(ctx, "deep/")
	require.NoError(t, err)
	assert.Equal(t, []string{"deep/nested/path/blob"}, names)
}
