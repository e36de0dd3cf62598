package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leonardcser/feed-mcp/internal/feed"
)

const (
	msgRetrieve = "retrieve"
	msgInsert   = "insert"
	msgDelete   = "deleteCachedFeed"
)

var errAny = errors.New("any error")

type insertion struct {
	feed      []LocalFeedImage
	timestamp time.Time
}

// storeSpy records every message it receives and answers with stubbed results.
type storeSpy struct {
	mu         sync.Mutex
	messages   []string
	insertions []insertion

	retrieval   *CachedFeed
	retrieveErr error
	insertErr   error
	deleteErr   error

	// gate, when set, blocks Retrieve until it is closed.
	gate chan struct{}
	// deleteGate, when set, blocks DeleteCachedFeed until it is closed.
	deleteGate chan struct{}
}

func (s *storeSpy) record(msg string) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
}

func (s *storeSpy) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func (s *storeSpy) Retrieve(context.Context) (*CachedFeed, error) {
	s.record(msgRetrieve)
	if s.gate != nil {
		<-s.gate
	}
	return s.retrieval, s.retrieveErr
}

func (s *storeSpy) Insert(_ context.Context, feed []LocalFeedImage, timestamp time.Time) error {
	s.record(msgInsert)
	s.mu.Lock()
	s.insertions = append(s.insertions, insertion{feed: feed, timestamp: timestamp})
	s.mu.Unlock()
	return s.insertErr
}

func (s *storeSpy) DeleteCachedFeed(context.Context) error {
	s.record(msgDelete)
	if s.deleteGate != nil {
		<-s.deleteGate
	}
	return s.deleteErr
}

func fixedClock(now time.Time) Clock {
	return ClockFunc(func() time.Time { return now })
}

func uniqueItems() []feed.Item {
	return []feed.Item{
		{ID: uuid.New(), Description: "a description", Location: "a location", ImageURL: "https://any-url.com/a.jpg"},
		{ID: uuid.New(), ImageURL: "https://any-url.com/b.jpg"},
	}
}

func sameMessages(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
