package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const (
	createBlobTableSQL = `CREATE TABLE IF NOT EXISTS cache_blobs (
        storage_key TEXT PRIMARY KEY,
        blob        TEXT NOT NULL,
        updated_at  INTEGER NOT NULL
    );`

	selectBlobSQL = `SELECT blob FROM cache_blobs WHERE storage_key = ?;`

	upsertBlobSQL = `INSERT INTO cache_blobs (storage_key, blob, updated_at)
    VALUES (?, ?, ?)
    ON CONFLICT(storage_key) DO UPDATE
    SET blob = excluded.blob, updated_at = excluded.updated_at;`

	deleteBlobSQL = `DELETE FROM cache_blobs WHERE storage_key = ?;`
)

// SQLiteBackend keeps the blob in a single row of a local SQLite database.
type SQLiteBackend struct {
	db  *sql.DB
	key string
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(ctx context.Context, path, key string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createBlobTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite cache: %w", err)
	}
	return &SQLiteBackend{db: db, key: key}, nil
}

// Close releases the database handle.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) Load(ctx context.Context) ([]byte, error) {
	var blob string
	err := b.db.QueryRowContext(ctx, selectBlobSQL, b.key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load sqlite cache: %w", err)
	}
	return []byte(blob), nil
}

func (b *SQLiteBackend) Save(ctx context.Context, blob []byte) error {
	if _, err := b.db.ExecContext(ctx, upsertBlobSQL, b.key, string(blob), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("save sqlite cache: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Clear(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, deleteBlobSQL, b.key); err != nil {
		return fmt.Errorf("clear sqlite cache: %w", err)
	}
	return nil
}

var _ Backend = (*SQLiteBackend)(nil)
