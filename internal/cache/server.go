package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/leonardcser/feed-mcp/internal/logger"
)

const maxAcceptDelay = time.Second

// Serve accepts connections on l and answers store requests against store
// until l is closed. Pass a SerialStore so requests from all connections run
// one at a time.
func Serve(l net.Listener, store FeedStore) error {
	var delay time.Duration
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay = min(2*delay, maxAcceptDelay)
			}
			logger.Warnf("store accept failed, retrying in %v: %v", delay, err)
			time.Sleep(delay)
			continue
		}
		delay = 0
		go handleConn(conn, store)
	}
}

func handleConn(conn net.Conn, store FeedStore) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	ctx := context.Background()
	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			return
		}
		_ = enc.Encode(handleRequest(ctx, store, req))
	}
}

func handleRequest(ctx context.Context, store FeedStore, req Request) Response {
	switch req.Op {
	case OpRetrieve:
		c, err := store.Retrieve(ctx)
		if err != nil {
			return Response{OK: false, Error: err.Error()}
		}
		return Response{OK: true, Cache: c}
	case OpInsert:
		if err := store.Insert(ctx, req.Feed, req.Timestamp); err != nil {
			return Response{OK: false, Error: err.Error()}
		}
		return Response{OK: true}
	case OpDelete:
		if err := store.DeleteCachedFeed(ctx); err != nil {
			return Response{OK: false, Error: err.Error()}
		}
		return Response{OK: true}
	default:
		return Response{OK: false, Error: "unknown op"}
	}
}
