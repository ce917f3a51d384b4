package cache

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"texforge/internal/texture"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteCache keeps one row per key in a single SQLite file.
// Schema: textures(key PRIMARY KEY, document, created_at).
type SQLiteCache struct {
	db  *sql.DB
	log *zap.Logger
}

// NewSQLiteCache opens (creating if needed) the database at path and applies
// any pending migrations.
func NewSQLiteCache(path string, log *zap.Logger) (*SQLiteCache, error) {
	// The migrator closes the connection it is given, so it gets its own.
	if err := migrateUp(path); err != nil {
		return nil, err
	}

	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteCache{db: db, log: log}, nil
}

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	// SQLite handles concurrency best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

func migrateUp(path string) error {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{DatabaseName: "main"})
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Lookup(ctx context.Context, key string) (*texture.Result, bool) {
	var document []byte
	err := c.db.QueryRowContext(ctx, `SELECT document FROM textures WHERE key = ?`, key).Scan(&document)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var result texture.Result
	if err := json.Unmarshal(document, &result); err != nil {
		c.discard(ctx, key, err)
		return nil, false
	}
	if err := result.Check(); err != nil {
		c.discard(ctx, key, err)
		return nil, false
	}
	return &result, true
}

func (c *SQLiteCache) discard(ctx context.Context, key string, cause error) {
	c.log.Warn("Discarding corrupt cache entry", zap.String("key", key), zap.Error(cause))
	if _, err := c.db.ExecContext(ctx, `DELETE FROM textures WHERE key = ?`, key); err != nil {
		c.log.Warn("Failed to remove corrupt cache entry", zap.String("key", key), zap.Error(err))
	}
}

func (c *SQLiteCache) Store(ctx context.Context, key string, result *texture.Result) {
	if err := c.upsert(ctx, key, result); err != nil {
		c.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *SQLiteCache) upsert(ctx context.Context, key string, result *texture.Result) error {
	document, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO textures (key, document, created_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET document = excluded.document, created_at = excluded.created_at`,
		key, document, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return tx.Commit()
}

func (c *SQLiteCache) Has(ctx context.Context, key string) bool {
	var one int
	err := c.db.QueryRowContext(ctx, `SELECT 1 FROM textures WHERE key = ?`, key).Scan(&one)
	return err == nil
}

func (c *SQLiteCache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM textures`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Len(ctx context.Context) int {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM textures`).Scan(&n); err != nil {
		c.log.Warn("Failed to count cache entries", zap.Error(err))
		return 0
	}
	return n
}

// Close releases the database handle.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
