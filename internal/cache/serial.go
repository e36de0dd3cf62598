package cache

import (
	"context"
	"sync"
	"time"
)

// SerialStore runs every operation of the wrapped store on a single worker
// goroutine, one at a time and in submission order. A submitted operation
// always runs to completion and its completion is invoked exactly once.
// It is safe for concurrent use by multiple goroutines.
type SerialStore struct {
	store FeedStore
	done  chan struct{}

	mu     sync.Mutex
	wake   *sync.Cond
	queue  []func()
	closed bool
}

// NewSerialStore starts the worker serving store.
func NewSerialStore(store FeedStore) *SerialStore {
	s := &SerialStore{
		store: store,
		done:  make(chan struct{}),
	}
	s.wake = sync.NewCond(&s.mu)
	go s.run()
	return s
}

func (s *SerialStore) run() {
	defer close(s.done)
	for {
		job, ok := s.next()
		if !ok {
			return
		}
		job()
	}
}

// next blocks until a job is queued or the store is closed and drained.
func (s *SerialStore) next() (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.queue) == 0 && !s.closed {
		s.wake.Wait()
	}
	if len(s.queue) == 0 {
		return nil, false
	}
	job := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return job, true
}

// submit never blocks, so completions running on the worker may queue
// follow-up operations.
func (s *SerialStore) submit(job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.queue = append(s.queue, job)
	s.wake.Signal()
	return nil
}

// Close waits for queued operations to finish and stops the worker.
// It does not close the wrapped store.
func (s *SerialStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.wake.Signal()
	s.mu.Unlock()
	<-s.done
	return nil
}

// RetrieveAsync queues a retrieval. The operation ignores cancellation of ctx
// once queued.
func (s *SerialStore) RetrieveAsync(ctx context.Context, completion func(*CachedFeed, error)) {
	ctx = context.WithoutCancel(ctx)
	if err := s.submit(func() { completion(s.store.Retrieve(ctx)) }); err != nil {
		completion(nil, err)
	}
}

// InsertAsync queues an insertion.
func (s *SerialStore) InsertAsync(ctx context.Context, feed []LocalFeedImage, timestamp time.Time, completion func(error)) {
	ctx = context.WithoutCancel(ctx)
	if err := s.submit(func() { completion(s.store.Insert(ctx, feed, timestamp)) }); err != nil {
		completion(err)
	}
}

// DeleteCachedFeedAsync queues a deletion.
func (s *SerialStore) DeleteCachedFeedAsync(ctx context.Context, completion func(error)) {
	ctx = context.WithoutCancel(ctx)
	if err := s.submit(func() { completion(s.store.DeleteCachedFeed(ctx)) }); err != nil {
		completion(err)
	}
}

type retrieval struct {
	cache *CachedFeed
	err   error
}

// Retrieve queues a retrieval and waits for it. When ctx is done first the
// retrieval still runs but its result is dropped.
func (s *SerialStore) Retrieve(ctx context.Context) (*CachedFeed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ch := make(chan retrieval, 1)
	s.RetrieveAsync(ctx, func(c *CachedFeed, err error) { ch <- retrieval{cache: c, err: err} })
	select {
	case r := <-ch:
		return r.cache, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Insert queues an insertion and waits for it.
func (s *SerialStore) Insert(ctx context.Context, feed []LocalFeedImage, timestamp time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ch := make(chan error, 1)
	s.InsertAsync(ctx, feed, timestamp, func(err error) { ch <- err })
	return wait(ctx, ch)
}

// DeleteCachedFeed queues a deletion and waits for it.
func (s *SerialStore) DeleteCachedFeed(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ch := make(chan error, 1)
	s.DeleteCachedFeedAsync(ctx, func(err error) { ch <- err })
	return wait(ctx, ch)
}

func wait(ctx context.Context, ch <-chan error) error {
	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
