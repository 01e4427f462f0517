package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	createBlobTableSQL = `CREATE TABLE IF NOT EXISTS cache_blobs (
        storage_key TEXT PRIMARY KEY,
        blob        JSONB NOT NULL,
        updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
    );`

	selectBlobSQL = `SELECT blob FROM cache_blobs WHERE storage_key = $1;`

	upsertBlobSQL = `INSERT INTO cache_blobs (storage_key, blob, updated_at)
    VALUES ($1, $2, now())
    ON CONFLICT (storage_key) DO UPDATE
    SET blob       = EXCLUDED.blob,
        updated_at = EXCLUDED.updated_at;`

	deleteBlobSQL = `DELETE FROM cache_blobs WHERE storage_key = $1;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// BlobStore persists opaque JSON documents under a storage key.
type BlobStore interface {
	LoadBlob(ctx context.Context, key string) ([]byte, error)
	SaveBlob(ctx context.Context, key string, blob []byte) error
	DeleteBlob(ctx context.Context, key string) error
}

// AdvisoryLocker exposes advisory lock helpers.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// Store aggregates access to the cache blob table and advisory locks.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// EnsureSchema creates the cache table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, createBlobTableSQL); err != nil {
		return fmt.Errorf("create cache_blobs: %w", err)
	}
	return nil
}

// LoadBlob returns nil without error when key has never been saved.
func (s *Store) LoadBlob(ctx context.Context, key string) ([]byte, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}
	var blob []byte
	err = pool.QueryRow(ctx, selectBlobSQL, key).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load blob %s: %w", key, err)
	}
	return blob, nil
}

// SaveBlob upserts blob under key.
func (s *Store) SaveBlob(ctx context.Context, key string, blob []byte) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, upsertBlobSQL, key, blob); err != nil {
		return fmt.Errorf("save blob %s: %w", key, err)
	}
	return nil
}

// DeleteBlob removes key; deleting a missing key is not an error.
func (s *Store) DeleteBlob(ctx context.Context, key string) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, deleteBlobSQL, key); err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

// TryAdvisoryLock attempts to acquire a postgres advisory lock and returns a release func.
func (s *Store) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		ctxUnlock, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		// The session lock is dropped with the connection if this fails.
		_, _ = conn.Exec(ctxUnlock, advisoryUnlockSQL, key)
		conn.Release()
	}
	return unlock, true, nil
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

var (
	_ BlobStore      = (*Store)(nil)
	_ AdvisoryLocker = (*Store)(nil)
)
