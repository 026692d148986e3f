package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Get returns the value stored under key. A missing row is reported with
// ok=false and no error.
func (s *StateDB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.DB == nil {
		return nil, false, fmt.Errorf("database connection is not established")
	}

	var value []byte
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("error reading key %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (s *StateDB) Set(ctx context.Context, key string, value []byte) error {
	if s.DB == nil {
		return fmt.Errorf("database connection is not established")
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("error writing key %s: %w", key, err)
	}
	return nil
}
