package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"bondfeed/internal/clock"
)

type rate struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// memoryBackend records saves and can be told to fail.
type memoryBackend struct {
	mu      sync.Mutex
	blob    []byte
	saves   int
	failErr error
}

func (m *memoryBackend) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blob, nil
}

func (m *memoryBackend) Save(_ context.Context, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.failErr != nil {
		return m.failErr
	}
	m.blob = append([]byte(nil), blob...)
	return nil
}

func (m *memoryBackend) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = nil
	return nil
}

func newTestStore(backend Backend) (*Store, *clock.Fake) {
	fake := clock.NewFake(time.Date(2026, 1, 14, 9, 0, 0, 0, time.UTC))
	return New(Options{Backend: backend, Clock: fake}, zerolog.Nop()), fake
}

func TestSetThenGet(t *testing.T) {
	store, _ := newTestStore(nil)
	ctx := context.Background()

	store.Set(ctx, "ecb:euribor3m", rate{ID: "euribor3m", Value: "3.65"})

	var got rate
	require.True(t, store.Get(ctx, "ecb:euribor3m", time.Hour, &got))
	require.Equal(t, "3.65", got.Value)
}

func TestGetMissing(t *testing.T) {
	store, _ := newTestStore(nil)
	var got rate
	require.False(t, store.Get(context.Background(), "unknown", time.Hour, &got))
}

func TestGetExpiresPerCallSite(t *testing.T) {
	backend := &memoryBackend{}
	store, fake := newTestStore(backend)
	ctx := context.Background()

	store.Set(ctx, "yahoo:^FCHI", rate{ID: "^FCHI", Value: "7650"})
	fake.Advance(10 * time.Minute)

	var got rate
	require.True(t, store.Get(ctx, "yahoo:^FCHI", 15*time.Minute, &got), "fresh for a 15m window")
	require.False(t, store.Get(ctx, "yahoo:^FCHI", 5*time.Minute, &got), "stale for a 5m window")

	// the stale read evicted the entry, from memory and from the blob
	require.Equal(t, 0, store.Len())
	var persisted map[string]Entry
	require.NoError(t, json.Unmarshal(backend.blob, &persisted))
	require.Empty(t, persisted)
}

func TestExpiryBoundaryIsExclusive(t *testing.T) {
	store, fake := newTestStore(nil)
	ctx := context.Background()

	store.Set(ctx, "k", 1)
	fake.Advance(time.Minute)

	var got int
	require.False(t, store.Get(ctx, "k", time.Minute, &got))
}

func TestSetOverwrites(t *testing.T) {
	store, fake := newTestStore(nil)
	ctx := context.Background()

	store.Set(ctx, "k", 1)
	fake.Advance(50 * time.Second)
	store.Set(ctx, "k", 2)
	fake.Advance(50 * time.Second)

	var got int
	require.True(t, store.Get(ctx, "k", time.Minute, &got))
	require.Equal(t, 2, got)
}

func TestPersistFailureIsNonFatal(t *testing.T) {
	backend := &memoryBackend{failErr: errors.New("quota exceeded")}
	store, _ := newTestStore(backend)
	ctx := context.Background()

	store.Set(ctx, "fmp:MC.PA", rate{ID: "MC.PA", Value: "850"})

	var got rate
	require.True(t, store.Get(ctx, "fmp:MC.PA", time.Minute, &got))
	require.Equal(t, 1, backend.saves)
}

func TestLoadRestoresEntries(t *testing.T) {
	backend := &memoryBackend{}
	first, fake := newTestStore(backend)
	ctx := context.Background()
	first.Set(ctx, "alphavantage:CPI", rate{ID: "CPI", Value: "2.4"})

	second := New(Options{Backend: backend, Clock: fake}, zerolog.Nop())
	require.NoError(t, second.Load(ctx))

	var got rate
	require.True(t, second.Get(ctx, "alphavantage:CPI", 24*time.Hour, &got))
	require.Equal(t, "2.4", got.Value)
}

func TestLoadDiscardsCorruptBlob(t *testing.T) {
	backend := &memoryBackend{blob: []byte("{not json")}
	store, _ := newTestStore(backend)

	require.NoError(t, store.Load(context.Background()))
	require.Equal(t, 0, store.Len())
}

func TestDurableBlobShape(t *testing.T) {
	backend := &memoryBackend{}
	store, fake := newTestStore(backend)
	store.Set(context.Background(), "k", map[string]float64{"price": 850})

	var blob map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(backend.blob, &blob))
	require.JSONEq(t, `{"price":850}`, string(blob["k"]["value"]))
	require.Equal(t, jsonInt(fake.Now().UnixMilli()), string(blob["k"]["timestamp"]))
}

func TestClearDropsEverything(t *testing.T) {
	backend := &memoryBackend{}
	store, _ := newTestStore(backend)
	ctx := context.Background()
	store.Set(ctx, "a", 1)
	store.Set(ctx, "b", 2)

	store.Clear(ctx)

	require.Equal(t, 0, store.Len())
	require.Nil(t, backend.blob)
	var got int
	require.False(t, store.Get(ctx, "a", time.Hour, &got))
}

func TestEntriesSorted(t *testing.T) {
	store, fake := newTestStore(nil)
	ctx := context.Background()
	store.Set(ctx, "b", 2)
	store.Set(ctx, "a", 1)

	infos := store.Entries()
	require.Len(t, infos, 2)
	require.Equal(t, "a", infos[0].Key)
	require.True(t, infos[0].StoredAt.Equal(fake.Now().Truncate(time.Millisecond)))
}

func jsonInt(v int64) string {
	raw, _ := json.Marshal(v)
	return string(raw)
}
