package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const lockRetry = 10 * time.Millisecond

// FileStore keeps counters in a small JSON object such as
// {"serpapi_calls": 12}. A sibling .lock file serializes writers across
// processes. The flock is per handle, so mu serializes goroutines that
// share one.
type FileStore struct {
	mu   sync.Mutex
	path string
	key  string
	lock *flock.Flock
}

func NewFileStore(path, provider string) *FileStore {
	return &FileStore{
		path: path,
		key:  counterKey(provider),
		lock: flock.New(path + ".lock"),
	}
}

func (f *FileStore) Read(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.acquire(ctx, false); err != nil {
		return 0, err
	}
	defer func() { _ = f.lock.Unlock() }()

	m, err := f.load()
	if err != nil {
		return 0, err
	}
	return m[f.key], nil
}

func (f *FileStore) Increment(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.acquire(ctx, true); err != nil {
		return 0, err
	}
	defer func() { _ = f.lock.Unlock() }()

	m, err := f.load()
	if err != nil {
		return 0, err
	}
	m[f.key]++
	if err := f.save(m); err != nil {
		return 0, err
	}
	return m[f.key], nil
}

func (f *FileStore) Close() error { return nil }

func (f *FileStore) acquire(ctx context.Context, exclusive bool) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create counter dir: %w", err)
	}
	var ok bool
	var err error
	if exclusive {
		ok, err = f.lock.TryLockContext(ctx, lockRetry)
	} else {
		ok, err = f.lock.TryRLockContext(ctx, lockRetry)
	}
	if err != nil {
		return fmt.Errorf("lock %s: %w", f.path, err)
	}
	if !ok {
		return fmt.Errorf("lock %s: not acquired", f.path)
	}
	return nil
}

func (f *FileStore) load() (map[string]int64, error) {
	m := map[string]int64{}
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return m, nil
}

func (f *FileStore) save(m map[string]int64) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
