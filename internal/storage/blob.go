package storage

import (
	"context"

	"bondfeed/internal/cache"
)

// BlobBackend stores the cache blob in the cache_blobs table.
type BlobBackend struct {
	store BlobStore
	key   string
}

// NewBlobBackend keeps the cache under key in store.
func NewBlobBackend(store BlobStore, key string) *BlobBackend {
	return &BlobBackend{store: store, key: key}
}

func (b *BlobBackend) Load(ctx context.Context) ([]byte, error) {
	return b.store.LoadBlob(ctx, b.key)
}

func (b *BlobBackend) Save(ctx context.Context, blob []byte) error {
	return b.store.SaveBlob(ctx, b.key, blob)
}

func (b *BlobBackend) Clear(ctx context.Context) error {
	return b.store.DeleteBlob(ctx, b.key)
}

var _ cache.Backend = (*BlobBackend)(nil)
