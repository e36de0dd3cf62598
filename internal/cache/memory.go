package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the snapshot in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	cache *CachedFeed
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Retrieve(ctx context.Context) (*CachedFeed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cache == nil {
		return nil, nil
	}
	return &CachedFeed{Feed: copyImages(m.cache.Feed), Timestamp: m.cache.Timestamp}, nil
}

func (m *MemoryStore) Insert(ctx context.Context, feed []LocalFeedImage, timestamp time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c := &CachedFeed{Feed: copyImages(feed), Timestamp: timestamp}
	m.mu.Lock()
	m.cache = c
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) DeleteCachedFeed(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.cache = nil
	m.mu.Unlock()
	return nil
}

func copyImages(in []LocalFeedImage) []LocalFeedImage {
	out := make([]LocalFeedImage, len(in))
	copy(out, in)
	return out
}
