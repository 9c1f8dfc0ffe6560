package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/okrdesk/okrdesk/internal/db"
)

// SQLiteStateRepo implements StateRepo over the client_state table.
type SQLiteStateRepo struct {
	db db.DBTX
}

func NewSQLiteStateRepo(conn db.DBTX) *SQLiteStateRepo {
	return &SQLiteStateRepo{db: conn}
}

func (r *SQLiteStateRepo) Get(ctx context.Context, key StateKey) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM client_state WHERE key = ?`, string(key)).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("client state %q: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("reading client state %q: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteStateRepo) Set(ctx context.Context, key StateKey, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(key), value, nowUTC())
	if err != nil {
		return fmt.Errorf("writing client state %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (r *SQLiteStateRepo) Delete(ctx context.Context, key StateKey) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM client_state WHERE key = ?`, string(key)); err != nil {
		return fmt.Errorf("deleting client state %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteStateRepo) Keys(ctx context.Context) ([]StateKey, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key FROM client_state ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing client state: %w", err)
	}
	defer rows.Close()

	var keys []StateKey
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning client state key: %w", err)
		}
		keys = append(keys, StateKey(k))
	}
	return keys, rows.Err()
}
