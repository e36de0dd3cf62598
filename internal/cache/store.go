package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/leonardcser/feed-mcp/internal/feed"
)

// LocalFeedImage is the persisted shape of a feed item.
type LocalFeedImage struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	URL         string    `json:"url"`
}

// CachedFeed is the single snapshot held by a FeedStore.
type CachedFeed struct {
	Feed      []LocalFeedImage `json:"feed"`
	Timestamp time.Time        `json:"timestamp"`
}

// FeedStore is a single-slot persistent cache for the feed.
// Retrieve returns a nil snapshot and a nil error when the slot is empty.
// Insert replaces the slot content as a whole or fails without applying.
// DeleteCachedFeed succeeds when the slot is already empty.
type FeedStore interface {
	DeleteCachedFeed(ctx context.Context) error
	Insert(ctx context.Context, feed []LocalFeedImage, timestamp time.Time) error
	Retrieve(ctx context.Context) (*CachedFeed, error)
}

// ErrStoreClosed is returned for operations submitted after a store was closed.
var ErrStoreClosed = errors.New("cache: store closed")

// ToLocal converts feed items into their persisted shape.
func ToLocal(items []feed.Item) []LocalFeedImage {
	out := make([]LocalFeedImage, 0, len(items))
	for _, it := range items {
		out = append(out, LocalFeedImage{
			ID:          it.ID,
			Description: it.Description,
			Location:    it.Location,
			URL:         it.ImageURL,
		})
	}
	return out
}

// ToModels converts persisted images back into feed items.
func ToModels(images []LocalFeedImage) []feed.Item {
	out := make([]feed.Item, 0, len(images))
	for _, img := range images {
		out = append(out, feed.Item{
			ID:          img.ID,
			Description: img.Description,
			Location:    img.Location,
			ImageURL:    img.URL,
		})
	}
	return out
}
