// Package geocache хранит сырые ответы Overpass в SQLite, чтобы повторная загрузка
// той же области не тратила лимит запросов.
package geocache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache - ответы по хэшу текста запроса с ограниченным сроком жизни.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func Open(path string, ttl time.Duration) (*Cache, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS responses (
			key        TEXT PRIMARY KEY,
			body       BLOB NOT NULL,
			fetched_at INTEGER NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init geocache: %w", err)
		}
	}
	return nil
}

func hashKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}

// Get возвращает тело ответа, если оно есть и не устарело.
func (c *Cache) Get(ctx context.Context, query string) ([]byte, bool, error) {
	var body []byte
	var fetchedAt int64
	err := c.db.QueryRowContext(ctx,
		`SELECT body, fetched_at FROM responses WHERE key = ?`, hashKey(query),
	).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if c.ttl > 0 && c.now().Sub(time.UnixMilli(fetchedAt)) > c.ttl {
		return nil, false, nil
	}
	return body, true, nil
}

func (c *Cache) Put(ctx context.Context, query string, body []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO responses(key, body, fetched_at) VALUES(?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		hashKey(query), body, c.now().UnixMilli(),
	)
	return err
}

// Prune удаляет устаревшие записи. Возвращает число удаленных.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	cutoff := c.now().Add(-c.ttl).UnixMilli()
	res, err := c.db.ExecContext(ctx, `DELETE FROM responses WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (c *Cache) Close() error {
	return c.db.Close()
}
