package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/leonardcser/feed-mcp/internal/cache"
	"github.com/leonardcser/feed-mcp/internal/config"
)

func TestOpenBackendDrivers(t *testing.T) {
	for _, driver := range []string{config.DriverBolt, config.DriverSQLite, config.DriverMemory} {
		t.Run(driver, func(t *testing.T) {
			cfg := config.Config{
				StoreDriver: driver,
				StoreDB:     filepath.Join(t.TempDir(), "nested", "feed.db"),
			}
			store, closer, err := openBackend(cfg)
			if err != nil {
				t.Fatalf("open backend: %v", err)
			}
			defer closer.Close()

			ctx := context.Background()
			feed := []cache.LocalFeedImage{{ID: uuid.New(), URL: "https://a.com/1.jpg"}}
			if err := store.Insert(ctx, feed, time.Now()); err != nil {
				t.Fatalf("insert: %v", err)
			}
			got, err := store.Retrieve(ctx)
			if err != nil {
				t.Fatalf("retrieve: %v", err)
			}
			if got == nil || len(got.Feed) != 1 || got.Feed[0] != feed[0] {
				t.Fatalf("expected inserted feed, got %+v", got)
			}
		})
	}
}
