package refresh

import (
	"context"
	"slices"

	"golang.org/x/sync/singleflight"

	"github.com/leonardcser/feed-mcp/internal/feed"
	"github.com/leonardcser/feed-mcp/internal/logger"
)

// Refresher loads the remote feed and saves it into the local cache.
// Concurrent refreshes share one remote load and one save.
type Refresher struct {
	remote feed.Loader
	cache  feed.Saver
	group  singleflight.Group
}

func New(remote feed.Loader, cache feed.Saver) *Refresher {
	return &Refresher{remote: remote, cache: cache}
}

// Refresh returns the freshly saved items. When the remote load fails the
// cache is left untouched.
func (r *Refresher) Refresh(ctx context.Context) ([]feed.Item, error) {
	ch := r.group.DoChan("refresh", func() (any, error) {
		// The flight outlives any single caller.
		ctx := context.WithoutCancel(ctx)
		items, err := r.remote.Load(ctx)
		if err != nil {
			logger.Warnf("remote feed load failed: %v", err)
			return nil, err
		}
		if err := r.cache.Save(ctx, items); err != nil {
			logger.Errorf("saving feed to cache failed: %v", err)
			return nil, err
		}
		logger.Infof("feed refreshed with %d items", len(items))
		return items, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Each caller gets its own slice.
		return slices.Clone(res.Val.([]feed.Item)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
