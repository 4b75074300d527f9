package usage

import (
	"context"

	"skilltrend-engine/internal/store"
)

// SQLiteStore keeps counters in the usage_counters table.
type SQLiteStore struct {
	db       *store.DB
	provider string
	owned    bool
}

func OpenSQLiteStore(path, provider string) (*SQLiteStore, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, provider: provider, owned: true}, nil
}

// NewSQLiteStore shares an already open database; Close leaves it open.
func NewSQLiteStore(db *store.DB, provider string) *SQLiteStore {
	return &SQLiteStore{db: db, provider: provider}
}

func (s *SQLiteStore) Read(ctx context.Context) (int64, error) {
	return store.ReadCounter(ctx, s.db.Pool, s.provider)
}

func (s *SQLiteStore) Increment(ctx context.Context) (int64, error) {
	return store.IncrementCounter(ctx, s.db.Pool, s.provider)
}

func (s *SQLiteStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
