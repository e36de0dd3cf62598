package web

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/leonardcser/feed-mcp/internal/feedapi"
)

const (
	RequestTimeout  = 20 * time.Second
	MaxResponseSize = 4 * 1024 * 1024 // 4MB
)

// Client performs feed API requests through a colly collector. Every HTTP
// status is delivered as a response; only transport failures are errors.
type Client struct {
	c *colly.Collector
}

var _ feedapi.HTTPClient = (*Client)(nil)

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = RequestTimeout
	}
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.Async(false),
		colly.MaxBodySize(MaxResponseSize),
		colly.IgnoreRobotsTxt(),
	)
	c.ParseHTTPErrorResponse = true
	c.SetRequestTimeout(timeout)
	return &Client{c: c}
}

func (cl *Client) Get(ctx context.Context, rawURL string) (*feedapi.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, errors.New("url must start with http:// or https://")
	}

	// One clone per request: callbacks must not accumulate across calls.
	c := cl.c.Clone()
	c.Context = ctx
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", UserAgent())
		r.Headers.Set("Accept", "application/json")
	})

	var out *feedapi.Response
	c.OnResponse(func(r *colly.Response) {
		out = &feedapi.Response{
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
		}
	})

	if err := c.Visit(rawURL); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if out == nil {
		return nil, errors.New("no response received")
	}
	return out, nil
}
