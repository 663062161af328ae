package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const clientStorageSchema = `
CREATE TABLE IF NOT EXISTS client_storage (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Postgres struct {
	DB *pgxpool.Pool
}

func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConns = 4
	poolCfg.MinConns = 1
	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// NewPostgres ensures the client_storage table exists.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	if _, err := pool.Exec(ctx, clientStorageSchema); err != nil {
		return nil, fmt.Errorf("storage: ensure schema: %w", err)
	}
	return &Postgres{DB: pool}, nil
}

func (s *Postgres) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.DB.QueryRow(ctx, "SELECT value FROM client_storage WHERE key = $1", key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

func (s *Postgres) SetMany(ctx context.Context, entries map[string]string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	for k, v := range entries {
		if _, err := tx.Exec(ctx, `
    INSERT INTO client_storage (key, value, updated_at)
    VALUES ($1, $2, now())
    ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
  `, k, v); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Postgres) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.DB.Exec(ctx, "DELETE FROM client_storage WHERE key = ANY($1)", keys)
	return err
}
