package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrCacheIO marks failures of the durable store itself. Callers are
// expected to degrade to uncached fetching.
var ErrCacheIO = errors.New("cache storage failure")

// Cache is a durable key/value store whose entries expire after a
// per-entry TTL. Expired entries behave as misses and are removed on read.
//
// Get and Put share a read lock while InvalidateAll holds the write lock,
// so a clear never interleaves with a read or write of the same store.
type Cache struct {
	db    *sql.DB
	mu    sync.RWMutex
	nowFn func() time.Time
}

type Stats struct {
	Entries int64
	Expired int64
	Bytes   int64
}

func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create cache directory: %w", ErrCacheIO, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %w", ErrCacheIO, err)
	}
	db.SetMaxOpenConns(1)
	return &Cache{db: db, nowFn: time.Now}, nil
}

func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) Init(ctx context.Context) error {
	const schema = `
PRAGMA journal_mode=WAL;
PRAGMA busy_timeout=5000;
CREATE TABLE IF NOT EXISTS cache_entries (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  stored_at INTEGER NOT NULL,
  expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_entries_expires_at ON cache_entries(expires_at);
`
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: create schema: %w", ErrCacheIO, err)
	}
	return nil
}

// Get returns the stored value when the entry exists and has not expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var value []byte
	var expiresAt int64
	err := c.db.QueryRowContext(ctx, `SELECT value, expires_at FROM cache_entries WHERE key = ?`, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: read entry %q: %w", ErrCacheIO, key, err)
	}

	now := c.nowFn().UnixNano()
	if now < expiresAt {
		return value, true, nil
	}
	if _, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ? AND expires_at <= ?`, key, now); err != nil {
		return nil, false, fmt.Errorf("%w: drop expired entry %q: %w", ErrCacheIO, key, err)
	}
	return nil, false, nil
}

// Put stores value under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if value == nil {
		value = []byte{}
	}
	storedAt := c.nowFn()
	_, err := c.db.ExecContext(ctx, `
INSERT INTO cache_entries (key, value, stored_at, expires_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value=excluded.value,
  stored_at=excluded.stored_at,
  expires_at=excluded.expires_at
`, key, value, storedAt.UnixNano(), storedAt.Add(ttl).UnixNano())
	if err != nil {
		return fmt.Errorf("%w: write entry %q: %w", ErrCacheIO, key, err)
	}
	return nil
}

// InvalidateAll removes every entry. It returns once the rows are gone.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("%w: clear entries: %w", ErrCacheIO, err)
	}
	return nil
}

// PurgeExpired deletes entries past their expiry and reports how many went.
func (c *Cache) PurgeExpired(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE expires_at <= ?`, c.nowFn().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("%w: purge expired entries: %w", ErrCacheIO, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: purge expired entries: %w", ErrCacheIO, err)
	}
	return n, nil
}

// Keys lists the keys of live entries in lexical order.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.QueryContext(ctx, `SELECT key FROM cache_entries WHERE expires_at > ? ORDER BY key`, c.nowFn().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("%w: query keys: %w", ErrCacheIO, err)
	}
	defer rows.Close()

	keys := make([]string, 0, 16)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: scan key: %w", ErrCacheIO, err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows iteration: %w", ErrCacheIO, err)
	}
	return keys, nil
}

func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var s Stats
	err := c.db.QueryRowContext(ctx, `
SELECT
  COUNT(*),
  COALESCE(SUM(CASE WHEN expires_at <= ? THEN 1 ELSE 0 END), 0),
  COALESCE(SUM(LENGTH(value)), 0)
FROM cache_entries
`, c.nowFn().UnixNano()).Scan(&s.Entries, &s.Expired, &s.Bytes)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: read stats: %w", ErrCacheIO, err)
	}
	return s, nil
}
