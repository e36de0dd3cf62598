package feedapi

import (
	"context"
	"errors"

	"github.com/leonardcser/feed-mcp/internal/feed"
)

var (
	ErrConnectivity = errors.New("feedapi: connectivity")
	ErrInvalidData  = errors.New("feedapi: invalid data")
)

// RemoteFeedLoader fetches the feed from a remote JSON endpoint.
type RemoteFeedLoader struct {
	url    string
	client HTTPClient
}

var _ feed.Loader = (*RemoteFeedLoader)(nil)

func NewRemoteFeedLoader(url string, client HTTPClient) *RemoteFeedLoader {
	return &RemoteFeedLoader{url: url, client: client}
}

// Load issues one GET to the configured URL. Transport failures are reported
// as ErrConnectivity and unusable responses as ErrInvalidData.
func (l *RemoteFeedLoader) Load(ctx context.Context) ([]feed.Item, error) {
	resp, err := l.client.Get(ctx, l.url)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil || resp == nil {
		return nil, ErrConnectivity
	}
	return Map(resp.Body, resp.StatusCode)
}
