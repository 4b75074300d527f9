// Package usage persists how many billable upstream calls were made.
package usage

import (
	"context"
	"fmt"
	"path/filepath"

	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/store"
)

// CounterStore is a monotonically increasing per-provider call counter.
type CounterStore interface {
	Read(ctx context.Context) (int64, error)
	Increment(ctx context.Context) (int64, error)
	Close() error
}

// Open returns the backend named by usage.backend. Relative paths are
// resolved against the data dir.
func Open(cfg config.Config) (CounterStore, error) {
	path := cfg.Resolve(cfg.Usage.Path)
	provider := cfg.Provider.Name

	switch cfg.Usage.Backend {
	case config.UsageBackendFile, "":
		return NewFileStore(path, provider), nil
	case config.UsageBackendSQLite:
		return OpenSQLiteStore(path, provider)
	case config.UsageBackendBolt:
		return OpenBoltStore(path, provider)
	}
	return nil, &config.ConfigError{Key: "usage.backend", Msg: fmt.Sprintf("unknown backend %q", cfg.Usage.Backend)}
}

// OpenWithDB is Open, except that a sqlite backend pointing at db's file
// reuses db instead of opening a second pool on it.
func OpenWithDB(cfg config.Config, db *store.DB) (CounterStore, error) {
	if cfg.Usage.Backend == config.UsageBackendSQLite && db != nil && sameFile(cfg.Resolve(cfg.Usage.Path), db.Path) {
		return NewSQLiteStore(db, cfg.Provider.Name), nil
	}
	return Open(cfg)
}

func sameFile(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}

func counterKey(provider string) string {
	if provider == "" {
		provider = config.ProviderSerpAPI
	}
	return provider + "_calls"
}
