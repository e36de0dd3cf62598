package cache

import (
	"context"

	"github.com/leonardcser/feed-mcp/internal/feed"
)

// LocalFeedLoader serves and maintains the feed snapshot held by a FeedStore.
// Store errors are returned unchanged.
type LocalFeedLoader struct {
	store FeedStore
	clock Clock
}

var (
	_ feed.Loader = (*LocalFeedLoader)(nil)
	_ feed.Saver  = (*LocalFeedLoader)(nil)
)

func NewLocalFeedLoader(store FeedStore, clock Clock) *LocalFeedLoader {
	if clock == nil {
		clock = SystemClock
	}
	return &LocalFeedLoader{store: store, clock: clock}
}

// Save replaces the cached feed. The old snapshot is deleted first; when the
// deletion fails nothing is inserted.
func (l *LocalFeedLoader) Save(ctx context.Context, items []feed.Item) error {
	if err := l.store.DeleteCachedFeed(ctx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.store.Insert(ctx, ToLocal(items), l.clock.Now())
}

// Load returns the cached feed when it is fresh. An empty or expired cache
// yields an empty feed, not an error. Expired data is left in place.
func (l *LocalFeedLoader) Load(ctx context.Context) ([]feed.Item, error) {
	cached, err := l.store.Retrieve(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cached == nil || IsExpired(cached.Timestamp, l.clock.Now()) {
		return []feed.Item{}, nil
	}
	return ToModels(cached.Feed), nil
}

// ValidateCache deletes a cache that cannot be read or has expired.
// The outcome of that deletion is not reported.
func (l *LocalFeedLoader) ValidateCache(ctx context.Context) error {
	cached, err := l.store.Retrieve(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	switch {
	case err != nil:
		_ = l.store.DeleteCachedFeed(ctx)
	case cached != nil && IsExpired(cached.Timestamp, l.clock.Now()):
		_ = l.store.DeleteCachedFeed(ctx)
	}
	return nil
}
