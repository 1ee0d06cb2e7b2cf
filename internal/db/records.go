package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/studynotes/internal/kv"
)

// Records is a kv.Store backed by the records table.
type Records struct {
	db  *sql.DB
	now func() time.Time
}

var _ kv.Store = (*Records)(nil)

// NewRecords wraps an initialized database.
func NewRecords(db *sql.DB) *Records {
	return &Records{db: db, now: time.Now}
}

// Get returns the value stored under key.
func (r *Records) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Set inserts or replaces the value stored under key.
func (r *Records) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, string(value), r.now().UnixMilli()); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Remove deletes the given keys. Missing keys are ignored.
func (r *Records) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE key IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("remove %s: %w", strings.Join(keys, ","), err)
	}
	return nil
}

// UpdatedAt returns the last write time of key in unix milliseconds, or 0 if absent.
func (r *Records) UpdatedAt(ctx context.Context, key string) (int64, error) {
	var ts int64
	err := r.db.QueryRowContext(ctx, `SELECT updated_at FROM records WHERE key = ?`, key).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("updated_at %s: %w", key, err)
	}
	return ts, nil
}
