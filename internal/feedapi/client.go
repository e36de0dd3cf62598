package feedapi

import "context"

// Response is what the transport received: a status code and the raw body.
type Response struct {
	StatusCode int
	Body       []byte
}

// HTTPClient performs GET requests. A non-nil error means no response was
// received at all; any HTTP status, including errors, comes back as a Response.
type HTTPClient interface {
	Get(ctx context.Context, url string) (*Response, error)
}
