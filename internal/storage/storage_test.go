package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"bondfeed/internal/cache"
	"bondfeed/internal/config"
)

type memoryBlobs struct {
	blobs map[string][]byte
}

func (m *memoryBlobs) LoadBlob(_ context.Context, key string) ([]byte, error) {
	return m.blobs[key], nil
}

func (m *memoryBlobs) SaveBlob(_ context.Context, key string, blob []byte) error {
	m.blobs[key] = append([]byte(nil), blob...)
	return nil
}

func (m *memoryBlobs) DeleteBlob(_ context.Context, key string) error {
	delete(m.blobs, key)
	return nil
}

func TestBlobBackendBacksCacheStore(t *testing.T) {
	ctx := context.Background()
	blobs := &memoryBlobs{blobs: make(map[string][]byte)}

	first := cache.New(cache.Options{Backend: NewBlobBackend(blobs, "coveredBondsCache")}, zerolog.Nop())
	first.Set(ctx, "ecb:euribor3m", map[string]string{"value": "3.65"})
	if len(blobs.blobs["coveredBondsCache"]) == 0 {
		t.Fatal("blob not persisted under the storage key")
	}

	second := cache.New(cache.Options{Backend: NewBlobBackend(blobs, "coveredBondsCache")}, zerolog.Nop())
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	var got map[string]string
	if !second.Get(ctx, "ecb:euribor3m", time.Hour, &got) || got["value"] != "3.65" {
		t.Fatalf("hydrated cache lacks entry: %v", got)
	}

	second.Clear(ctx)
	if _, ok := blobs.blobs["coveredBondsCache"]; ok {
		t.Fatal("Clear should delete the blob row")
	}
}

func TestNilStoreIsNotConfigured(t *testing.T) {
	var s *Store
	ctx := context.Background()

	if _, err := s.LoadBlob(ctx, "k"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("LoadBlob error = %v", err)
	}
	if err := s.SaveBlob(ctx, "k", []byte("{}")); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("SaveBlob error = %v", err)
	}
	if _, _, err := s.TryAdvisoryLock(ctx, 1); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("TryAdvisoryLock error = %v", err)
	}
	s.Close()
}

func TestNewPoolRequiresDSN(t *testing.T) {
	if _, err := NewPool(context.Background(), config.DatabaseConfig{}); err == nil {
		t.Fatal("expected error for empty dsn")
	}
	if _, err := NewPool(context.Background(), config.DatabaseConfig{DSN: "postgres://%zz"}); err == nil {
		t.Fatal("expected parse error")
	}
}
