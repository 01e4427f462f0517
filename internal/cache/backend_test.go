package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func exerciseBackend(t *testing.T, backend Backend) {
	t.Helper()
	ctx := context.Background()

	blob, err := backend.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, blob)

	require.NoError(t, backend.Save(ctx, []byte(`{"a":{"value":1,"timestamp":1}}`)))
	require.NoError(t, backend.Save(ctx, []byte(`{"b":{"value":2,"timestamp":2}}`)))

	blob, err = backend.Load(ctx)
	require.NoError(t, err)
	require.JSONEq(t, `{"b":{"value":2,"timestamp":2}}`, string(blob))

	require.NoError(t, backend.Clear(ctx))
	blob, err = backend.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, blob)

	// clearing twice is fine
	require.NoError(t, backend.Clear(ctx))
}

func TestFileBackend(t *testing.T) {
	backend := NewFileBackend(filepath.Join(t.TempDir(), "nested"), "coveredBondsCache")
	require.Equal(t, "coveredBondsCache.json", filepath.Base(backend.Path()))
	exerciseBackend(t, backend)
}

func TestSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	backend, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "cache.db"), "coveredBondsCache")
	require.NoError(t, err)
	defer backend.Close()

	exerciseBackend(t, backend)
}

func TestStoreOverSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	backend, err := OpenSQLite(ctx, path, "coveredBondsCache")
	require.NoError(t, err)
	store := New(Options{Backend: backend}, zerolog.Nop())
	store.Set(ctx, "ecb:bund10y", map[string]string{"value": "2.42"})
	require.NoError(t, backend.Close())

	reopened, err := OpenSQLite(ctx, path, "coveredBondsCache")
	require.NoError(t, err)
	defer reopened.Close()

	restored := New(Options{Backend: reopened}, zerolog.Nop())
	require.NoError(t, restored.Load(ctx))

	var got map[string]string
	require.True(t, restored.Get(ctx, "ecb:bund10y", time.Hour, &got))
	require.Equal(t, "2.42", got["value"])
}
