package persistence

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteKV stores keys in an embedded SQLite database. It keeps the store
// local and durable without requiring any external server.
type SQLiteKV struct {
	db *sql.DB
}

// NewSQLiteKV opens (or creates) the database at path and ensures the kv
// table exists.
func NewSQLiteKV(ctx context.Context, path string, logger *zap.Logger) (*SQLiteKV, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The kv table is the whole schema; one row per well-known key.
	const schema = `CREATE TABLE IF NOT EXISTS kv (
        key   TEXT PRIMARY KEY,
        value TEXT NOT NULL
    )`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("opened sqlite store", zap.String("path", path))
	return &SQLiteKV{db: db}, nil
}

func (kv *SQLiteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `SELECT value FROM kv WHERE key = ?`
	var value []byte
	err := kv.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (kv *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	const query = `INSERT INTO kv (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	_, err := kv.db.ExecContext(ctx, query, key, value)
	return err
}

func (kv *SQLiteKV) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM kv WHERE key = ?`
	_, err := kv.db.ExecContext(ctx, query, key)
	return err
}

// Close releases the underlying database handle.
func (kv *SQLiteKV) Close() error {
	return kv.db.Close()
}
