package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// LocalStorage is a key/value store for client-side persisted blobs.
type LocalStorage struct {
	conn *Connection
}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage(conn *Connection) *LocalStorage {
	return &LocalStorage{conn: conn}
}

// GetItem retrieves the value stored under key.
// The boolean is false when no value is stored.
func (s *LocalStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM local_storage WHERE key = ?`

	var value string
	err := s.conn.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get item %q: %w", key, err)
	}

	return value, true, nil
}

// SetItem stores value under key, replacing any previous value.
func (s *LocalStorage) SetItem(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.conn.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set item %q: %w", key, err)
	}

	return nil
}

// RemoveItem deletes the value stored under key.
// It reports whether a value was removed.
func (s *LocalStorage) RemoveItem(ctx context.Context, key string) (bool, error) {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("failed to remove item %q: %w", key, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// Keys lists all stored keys in lexical order.
func (s *LocalStorage) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT key FROM local_storage ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}
