package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresMedium struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresMedium creates the kv table if needed. table is quoted as an
// identifier, so any name is safe.
func NewPostgresMedium(ctx context.Context, pool *pgxpool.Pool, table string) (*PostgresMedium, error) {
	m := &PostgresMedium{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`, m.table)
	if _, err := pool.Exec(ctx, query); err != nil {
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return m, nil
}

func (m *PostgresMedium) Get(ctx context.Context, key string) (string, bool, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, m.table)

	var value string
	if err := m.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (m *PostgresMedium) Set(ctx context.Context, key string, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, m.table)
	_, err := m.pool.Exec(ctx, query, key, value)
	return err
}

func (m *PostgresMedium) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, m.table)
	_, err := m.pool.Exec(ctx, query, key)
	return err
}

func (m *PostgresMedium) Close() error {
	m.pool.Close()
	return nil
}
