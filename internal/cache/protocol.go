package cache

import "time"

// Simple JSON protocol for the feed store daemon over a Unix domain socket.
// Each request gets exactly one response, in order, on the same connection.

const (
	OpRetrieve = "retrieve"
	OpInsert   = "insert"
	OpDelete   = "delete"
)

type Request struct {
	Op        string           `json:"op"`
	Feed      []LocalFeedImage `json:"feed,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

type Response struct {
	OK    bool        `json:"ok"`
	Cache *CachedFeed `json:"cache,omitempty"`
	Error string      `json:"error,omitempty"`
}
