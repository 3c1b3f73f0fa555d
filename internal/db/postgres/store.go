// Package postgres is a db.Store on a PostgreSQL table via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/patternfilter/internal/db"
)

var _ db.Store = (*Store)(nil)

const ddl = `CREATE TABLE IF NOT EXISTS patternfilter_kv (
	key   TEXT PRIMARY KEY,
	value BYTEA NOT NULL
)`

// Store implements db.Store on the patternfilter_kv table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to dsn and creates the table if needed.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if _, err := pool.Exec(ctx, ddl); err != nil {
		pool.Close()
		return nil, &db.Error{Op: db.OpMigrate, Err: err}
	}
	return &Store{pool: pool}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, timeout, s.Ping)
}

// Get returns the value for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM patternfilter_kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return value, nil
}

// Set upserts key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO patternfilter_kv(key, value) VALUES($1, $2)
		 ON CONFLICT(key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// Del removes key.
func (s *Store) Del(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM patternfilter_kv WHERE key = $1`, key); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Exists reports whether key is present.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM patternfilter_kv WHERE key = $1)`, key).Scan(&ok)
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return ok, nil
}

// Scan returns keys matching a glob pattern, translated to LIKE.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key FROM patternfilter_kv WHERE key LIKE $1 ESCAPE '\' ORDER BY key`, globToLike(pattern))
	if err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}
	return keys, nil
}

// globToLike maps * and ? to % and _, escaping LIKE metacharacters.
func globToLike(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteByte('%')
		case '?':
			b.WriteByte('_')
		case '%', '_', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
