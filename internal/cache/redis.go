package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisOptions locate the redis server holding the blob.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisBackend keeps the blob under one redis key, which lets several
// processes share warm entries.
type RedisBackend struct {
	client *redis.Client
	key    string
}

// NewRedisBackend connects lazily; the first command dials the server.
func NewRedisBackend(opts RedisOptions, key string) *RedisBackend {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &RedisBackend{client: client, key: key}
}

// Close releases the client connections.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}

func (b *RedisBackend) Load(ctx context.Context) ([]byte, error) {
	blob, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load redis cache: %w", err)
	}
	return blob, nil
}

func (b *RedisBackend) Save(ctx context.Context, blob []byte) error {
	if err := b.client.Set(ctx, b.key, blob, 0).Err(); err != nil {
		return fmt.Errorf("save redis cache: %w", err)
	}
	return nil
}

func (b *RedisBackend) Clear(ctx context.Context) error {
	if err := b.client.Del(ctx, b.key).Err(); err != nil {
		return fmt.Errorf("clear redis cache: %w", err)
	}
	return nil
}

var _ Backend = (*RedisBackend)(nil)
