package postgres

import (
	"context"
	"errors"
	"fmt"

	"adledger/internal/infrastructure/kv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/exp/slog"
)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// KVRepository keeps one row per key in kv_entries.
type KVRepository struct {
	db  querier
	log *slog.Logger
}

var _ kv.Store = (*KVRepository)(nil)

func NewKVRepository(storage *Storage, log *slog.Logger) *KVRepository {
	return newKVRepository(storage.pool, log)
}

func newKVRepository(db querier, log *slog.Logger) *KVRepository {
	return &KVRepository{
		db:  db,
		log: log.With("component", "kv_repository"),
	}
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM kv_entries WHERE key = $1`

	var value []byte
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get entry", "key", key, "error", err)
		return nil, fmt.Errorf("get entry %q: %w: %w", key, kv.ErrStore, err)
	}

	return value, nil
}

func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	const query = `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if value == nil {
		value = []byte{}
	}

	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		r.log.Error("failed to set entry", "key", key, "error", err)
		return fmt.Errorf("set entry %q: %w: %w", key, kv.ErrStore, err)
	}

	return nil
}

// Ping checks the connection.
func (r *KVRepository) Ping(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `SELECT 1`); err != nil {
		return fmt.Errorf("ping: %w: %w", kv.ErrStore, err)
	}
	return nil
}
