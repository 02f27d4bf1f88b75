package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type SQLiteMedium struct {
	db *sql.DB
}

// NewSQLiteMedium creates the kv table if it does not exist yet.
func NewSQLiteMedium(db *sql.DB) (*SQLiteMedium, error) {
	const schema = `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQLiteMedium{db: db}, nil
}

func (m *SQLiteMedium) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := m.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (m *SQLiteMedium) Set(ctx context.Context, key string, value string) error {
	const query = `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	_, err := m.db.ExecContext(ctx, query, key, value)
	return err
}

func (m *SQLiteMedium) Delete(ctx context.Context, key string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

func (m *SQLiteMedium) Close() error {
	return m.db.Close()
}
