package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"adledger/internal/infrastructure/kv"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
)`

// Storage is a single-file kv backend.
type Storage struct {
	db  *sql.DB
	log *slog.Logger
}

var _ kv.Store = (*Storage)(nil)

func New(path string, log *slog.Logger) (*Storage, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// one writer at a time avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init tables: %w", err)
	}

	return &Storage{
		db:  db,
		log: log.With("component", "sqlite_storage"),
	}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.log.Error("failed to get entry", "key", key, "error", err)
		return nil, fmt.Errorf("get entry %q: %w: %w", key, kv.ErrStore, err)
	}
	return value, nil
}

func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	const query = `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES (?, ?, strftime('%s', 'now'))
		ON CONFLICT (key) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at`

	if value == nil {
		value = []byte{}
	}

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		s.log.Error("failed to set entry", "key", key, "error", err)
		return fmt.Errorf("set entry %q: %w: %w", key, kv.ErrStore, err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w: %w", kv.ErrStore, err)
	}
	return nil
}
