package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tweakctl/internal/core/kv"
)

func TestKVStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore(filepath.Join(t.TempDir(), "nested"))

	type payload struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	require.NoError(t, store.Set(ctx, "test-key", payload{Name: "hello", Value: 42}))

	var got payload
	require.NoError(t, store.Get(ctx, "test-key", &got))
	assert.Equal(t, "hello", got.Name)
	assert.Equal(t, 42, got.Value)

	_, err := os.Stat(store.Path("test-key") + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")
}

func TestKVStore_GetNotFound(t *testing.T) {
	store := NewKVStore(t.TempDir())

	var v string
	err := store.Get(context.Background(), "nonexistent", &v)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestKVStore_EmptyFileIsNotFound(t *testing.T) {
	store := NewKVStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path("empty"), nil, 0o644))

	var v string
	err := store.Get(context.Background(), "empty", &v)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestKVStore_CorruptFile(t *testing.T) {
	store := NewKVStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path("bad"), []byte("{not json"), 0o644))

	var v map[string]any
	err := store.Get(context.Background(), "bad", &v)
	require.Error(t, err)
	assert.NotErrorIs(t, err, kv.ErrNotFound)
}

func TestKVStore_DeleteAndHas(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore(t.TempDir())

	require.NoError(t, store.Set(ctx, "key", "value"))

	has, err := store.Has(ctx, "key")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, store.Delete(ctx, "key"))
	require.NoError(t, store.Delete(ctx, "key"), "deleting twice is fine")

	has, err = store.Has(ctx, "key")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestKVStore_PathSanitizesKey(t *testing.T) {
	store := NewKVStore("/data")
	assert.Equal(t, filepath.Join("/data", "a_b.json"), store.Path("a/b"))
}
