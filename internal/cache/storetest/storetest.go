// Package storetest holds the behavioural contract every cache.FeedStore
// implementation must satisfy.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/leonardcser/feed-mcp/internal/cache"
)

// Run executes the contract against fresh stores returned by newStore.
func Run(t *testing.T, newStore func(t *testing.T) cache.FeedStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("retrieve delivers empty on empty cache", func(t *testing.T) {
		store := newStore(t)
		expectEmpty(t, store)
	})

	t.Run("retrieve has no side effects on empty cache", func(t *testing.T) {
		store := newStore(t)
		expectEmpty(t, store)
		expectEmpty(t, store)
	})

	t.Run("retrieve delivers found values on non-empty cache", func(t *testing.T) {
		store := newStore(t)
		feed, ts := UniqueImageFeed(), Timestamp()
		insert(t, store, feed, ts)
		expectFound(t, store, feed, ts)
	})

	t.Run("retrieve has no side effects on non-empty cache", func(t *testing.T) {
		store := newStore(t)
		feed, ts := UniqueImageFeed(), Timestamp()
		insert(t, store, feed, ts)
		expectFound(t, store, feed, ts)
		expectFound(t, store, feed, ts)
	})

	t.Run("insert delivers no error on empty cache", func(t *testing.T) {
		store := newStore(t)
		if err := store.Insert(ctx, UniqueImageFeed(), Timestamp()); err != nil {
			t.Fatalf("expected insert to succeed, got %v", err)
		}
	})

	t.Run("insert delivers no error on non-empty cache", func(t *testing.T) {
		store := newStore(t)
		insert(t, store, UniqueImageFeed(), Timestamp())
		if err := store.Insert(ctx, UniqueImageFeed(), Timestamp()); err != nil {
			t.Fatalf("expected insert to succeed, got %v", err)
		}
	})

	t.Run("insert overrides previously inserted values", func(t *testing.T) {
		store := newStore(t)
		insert(t, store, UniqueImageFeed(), Timestamp())
		latest, latestTS := UniqueImageFeed(), Timestamp().Add(time.Hour)
		insert(t, store, latest, latestTS)
		expectFound(t, store, latest, latestTS)
	})

	t.Run("insert keeps an empty feed", func(t *testing.T) {
		store := newStore(t)
		ts := Timestamp()
		insert(t, store, []cache.LocalFeedImage{}, ts)
		expectFound(t, store, []cache.LocalFeedImage{}, ts)
	})

	t.Run("delete delivers no error on empty cache", func(t *testing.T) {
		store := newStore(t)
		if err := store.DeleteCachedFeed(ctx); err != nil {
			t.Fatalf("expected delete to succeed, got %v", err)
		}
		expectEmpty(t, store)
	})

	t.Run("delete empties previously inserted cache", func(t *testing.T) {
		store := newStore(t)
		insert(t, store, UniqueImageFeed(), Timestamp())
		if err := store.DeleteCachedFeed(ctx); err != nil {
			t.Fatalf("expected delete to succeed, got %v", err)
		}
		expectEmpty(t, store)
	})

	t.Run("side effects run serially", func(t *testing.T) {
		serial := cache.NewSerialStore(newStore(t))
		defer serial.Close()

		var (
			mu    sync.Mutex
			order []string
			wg    sync.WaitGroup
		)
		record := func(name string) func(error) {
			wg.Add(1)
			return func(err error) {
				defer wg.Done()
				if err != nil {
					t.Errorf("%s: unexpected error %v", name, err)
				}
				mu.Lock()
				order = append(order, name)
				mu.Unlock()
			}
		}
		last, lastTS := UniqueImageFeed(), Timestamp()
		serial.InsertAsync(ctx, UniqueImageFeed(), Timestamp(), record("op1"))
		serial.DeleteCachedFeedAsync(ctx, record("op2"))
		serial.InsertAsync(ctx, last, lastTS, record("op3"))
		wg.Wait()

		want := []string{"op1", "op2", "op3"}
		if len(order) != len(want) {
			t.Fatalf("expected %v, got %v", want, order)
		}
		for i := range want {
			if order[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, order)
			}
		}
		expectFound(t, serial, last, lastTS)
	})
}

// UniqueImageFeed returns two images with fresh ids.
func UniqueImageFeed() []cache.LocalFeedImage {
	return []cache.LocalFeedImage{
		{ID: uuid.New(), Description: "a description", Location: "a location", URL: "https://any-url.com/1.jpg"},
		{ID: uuid.New(), URL: "https://any-url.com/2.jpg"},
	}
}

// Timestamp returns a fixed instant used by the contract tests.
func Timestamp() time.Time {
	return time.Date(2026, time.March, 14, 9, 30, 15, 123456789, time.UTC)
}

func insert(t *testing.T, store cache.FeedStore, feed []cache.LocalFeedImage, ts time.Time) {
	t.Helper()
	if err := store.Insert(context.Background(), feed, ts); err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func expectEmpty(t *testing.T, store cache.FeedStore) {
	t.Helper()
	got, err := store.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if got != nil {
		t.Fatalf("expected empty cache, got %+v", got)
	}
}

func expectFound(t *testing.T, store cache.FeedStore, feed []cache.LocalFeedImage, ts time.Time) {
	t.Helper()
	got, err := store.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if got == nil {
		t.Fatal("expected cached feed, got empty cache")
	}
	if !got.Timestamp.Equal(ts) {
		t.Fatalf("expected timestamp %v, got %v", ts, got.Timestamp)
	}
	if len(got.Feed) != len(feed) {
		t.Fatalf("expected %d images, got %d", len(feed), len(got.Feed))
	}
	for i := range feed {
		if got.Feed[i] != feed[i] {
			t.Fatalf("image %d: expected %+v, got %+v", i, feed[i], got.Feed[i])
		}
	}
}
