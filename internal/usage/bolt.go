package usage

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var counterBucket = []byte("usage_counters")

// BoltStore keeps counters as big-endian uint64 values in a bbolt bucket.
type BoltStore struct {
	db  *bolt.DB
	key []byte
}

func OpenBoltStore(path, provider string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create bolt dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(counterBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &BoltStore{db: db, key: []byte(counterKey(provider))}, nil
}

func (b *BoltStore) Read(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	err := b.db.View(func(tx *bolt.Tx) error {
		n = decodeCount(tx.Bucket(counterBucket).Get(b.key))
		return nil
	})
	return n, err
}

func (b *BoltStore) Increment(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(counterBucket)
		n = decodeCount(bkt.Get(b.key)) + 1
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(n))
		return bkt.Put(b.key, buf)
	})
	if err != nil {
		return 0, fmt.Errorf("increment bolt counter: %w", err)
	}
	return n, nil
}

func (b *BoltStore) Close() error { return b.db.Close() }

func decodeCount(v []byte) int64 {
	if len(v) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(v))
}
