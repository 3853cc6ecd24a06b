package store

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// MemoryDSN names a shared in-memory database: the result set lives
// exactly as long as the engine process and never touches disk.
const MemoryDSN = "file:leadscout?mode=memory&cache=shared"

type DB struct {
	Pool *sql.DB
}

func Open(dsn string) (*DB, error) {
	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// A single connection both serializes writers and keeps an
	// in-memory database alive.
	pool.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return &DB{Pool: pool}, nil
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}
