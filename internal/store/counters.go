package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// IncrementCounter bumps the call counter for provider and returns the new value.
func IncrementCounter(ctx context.Context, db *sql.DB, provider string) (int64, error) {
	var n int64
	err := db.QueryRowContext(ctx, `
INSERT INTO usage_counters(provider, calls) VALUES(?, 1)
ON CONFLICT(provider) DO UPDATE SET calls = calls + 1
RETURNING calls;`, provider).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", provider, err)
	}
	return n, nil
}

// ReadCounter returns 0 for a provider that was never called.
func ReadCounter(ctx context.Context, db *sql.DB, provider string) (int64, error) {
	var n int64
	err := db.QueryRowContext(ctx, `SELECT calls FROM usage_counters WHERE provider = ? LIMIT 1;`, provider).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read counter %s: %w", provider, err)
	}
	return n, nil
}
