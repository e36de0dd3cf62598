package cache

import (
	"context"
	"encoding/json"
	"net"
	"time"
)

// Client implements FeedStore against a store daemon listening on a Unix socket.
type Client struct {
	socketPath  string
	dialTimeout time.Duration
}

var _ FeedStore = (*Client)(nil)

func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath, dialTimeout: 500 * time.Millisecond}
}

func (c *Client) roundTrip(ctx context.Context, req Request) (*Response, error) {
	d := net.Dialer{Timeout: c.dialTimeout}
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err := json.NewEncoder(conn).Encode(&req); err != nil {
		return nil, err
	}
	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		if resp.Error == ErrStoreClosed.Error() {
			return nil, ErrStoreClosed
		}
		return nil, errorsNew(resp.Error)
	}
	return &resp, nil
}

func (c *Client) Retrieve(ctx context.Context) (*CachedFeed, error) {
	resp, err := c.roundTrip(ctx, Request{Op: OpRetrieve})
	if err != nil {
		return nil, err
	}
	return resp.Cache, nil
}

func (c *Client) Insert(ctx context.Context, feed []LocalFeedImage, timestamp time.Time) error {
	_, err := c.roundTrip(ctx, Request{Op: OpInsert, Feed: feed, Timestamp: timestamp})
	return err
}

func (c *Client) DeleteCachedFeed(ctx context.Context) error {
	_, err := c.roundTrip(ctx, Request{Op: OpDelete})
	return err
}

// Ping checks that the daemon accepts connections.
func (c *Client) Ping() error {
	conn, err := net.DialTimeout("unix", c.socketPath, 200*time.Millisecond)
	if err != nil {
		return err
	}
	return conn.Close()
}

// Local helper to carry daemon-side error text back to callers.
func errorsNew(msg string) error { return &remoteError{s: msg} }

type remoteError struct{ s string }

func (e *remoteError) Error() string { return e.s }
