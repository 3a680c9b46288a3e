package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type PreferenceSQLite struct {
	db *sql.DB
}

func NewPreferenceSQLite(db *sql.DB) *PreferenceSQLite {
	return &PreferenceSQLite{db: db}
}

const (
	upsertPreferenceSQL = `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`

	selectPreferenceSQL = `SELECT value FROM preferences WHERE key = ?`
)

var errEmptyPreferenceKey = errors.New("preference key is empty")

// Set inserts or replaces a preference value.
func (r *PreferenceSQLite) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errEmptyPreferenceKey
	}
	if _, err := r.db.ExecContext(ctx, upsertPreferenceSQL, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("save preference %q: %w", key, err)
	}
	return nil
}

// Get returns the stored value; ok is false when the key was never set.
func (r *PreferenceSQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, selectPreferenceSQL, strings.TrimSpace(key)).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load preference %q: %w", key, err)
	}
	return value, true, nil
}
