package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltStore persists the feed snapshot as a single record in a Bolt bucket.
// It is safe for concurrent use by multiple goroutines.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
	mu     sync.RWMutex
}

type Options struct {
	// Bucket is the name of the Bolt bucket to use.
	Bucket string
}

var snapshotKey = []byte("feed")

// Open initializes or opens a BoltStore at the given path.
func Open(path string, opts Options) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	bucket := []byte("feed_cache")
	if opts.Bucket != "" {
		bucket = []byte(opts.Bucket)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db, bucket: bucket}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Insert writes the snapshot in one transaction, replacing any previous one.
func (s *BoltStore) Insert(ctx context.Context, feed []LocalFeedImage, timestamp time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	buf, err := json.Marshal(CachedFeed{Feed: feed, Timestamp: timestamp})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(snapshotKey, buf)
	})
}

// Retrieve returns the stored snapshot, or nil when there is none.
func (s *BoltStore) Retrieve(ctx context.Context) (*CachedFeed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var raw []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get(snapshotKey)
		if v == nil {
			return nil
		}
		raw = append([]byte(nil), v...)
		return nil
	}); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var out CachedFeed
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &out, nil
}

// DeleteCachedFeed removes the snapshot.
func (s *BoltStore) DeleteCachedFeed(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete(snapshotKey)
	})
}

