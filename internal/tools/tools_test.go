package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/feed-mcp/internal/feed"
)

type loaderStub struct {
	items []feed.Item
	err   error
}

func (l loaderStub) Load(context.Context) ([]feed.Item, error) { return l.items, l.err }

type refresherStub struct {
	items []feed.Item
	err   error
}

func (r refresherStub) Refresh(context.Context) ([]feed.Item, error) { return r.items, r.err }

type validatorStub struct{ err error }

func (v validatorStub) ValidateCache(context.Context) error { return v.err }

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected one content block, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestFeedLoadFormats(t *testing.T) {
	id := uuid.New()
	handler := FeedLoadHandler(loaderStub{items: []feed.Item{{ID: id, ImageURL: "https://a.com/1.jpg"}}})

	md, isErr := call(t, handler, nil)
	if isErr || !strings.HasPrefix(md, "1. ![") {
		t.Fatalf("unexpected markdown result %q (error=%v)", md, isErr)
	}
	text, isErr := call(t, handler, map[string]any{"format": "text"})
	if isErr || text != id.String()+" | https://a.com/1.jpg" {
		t.Fatalf("unexpected text result %q (error=%v)", text, isErr)
	}
	_, isErr = call(t, handler, map[string]any{"format": "xml"})
	if !isErr {
		t.Fatal("expected error for unknown format")
	}
}

func TestFeedLoadReportsLoaderError(t *testing.T) {
	msg, isErr := call(t, FeedLoadHandler(loaderStub{err: errors.New("cache: unreadable")}), nil)
	if !isErr || msg != "cache: unreadable" {
		t.Fatalf("expected tool error, got %q (error=%v)", msg, isErr)
	}
}

func TestFeedLoadEmptyCache(t *testing.T) {
	msg, isErr := call(t, FeedLoadHandler(loaderStub{items: []feed.Item{}}), nil)
	if isErr || msg != "No feed items." {
		t.Fatalf("unexpected result %q (error=%v)", msg, isErr)
	}
}

func TestFeedRefresh(t *testing.T) {
	items := []feed.Item{{ID: uuid.New(), ImageURL: "https://a.com/1.jpg"}, {ID: uuid.New(), ImageURL: "https://a.com/2.jpg"}}
	msg, isErr := call(t, FeedRefreshHandler(refresherStub{items: items}), nil)
	if isErr || !strings.HasPrefix(msg, "Cached 2 items.\n\n1. ") {
		t.Fatalf("unexpected result %q (error=%v)", msg, isErr)
	}

	msg, isErr = call(t, FeedRefreshHandler(refresherStub{items: []feed.Item{}}), nil)
	if isErr || msg != "Cached 0 items." {
		t.Fatalf("unexpected result %q (error=%v)", msg, isErr)
	}

	msg, isErr = call(t, FeedRefreshHandler(refresherStub{err: errors.New("feedapi: connectivity")}), nil)
	if !isErr || msg != "feedapi: connectivity" {
		t.Fatalf("expected tool error, got %q (error=%v)", msg, isErr)
	}
}

func TestFeedValidate(t *testing.T) {
	msg, isErr := call(t, FeedValidateHandler(validatorStub{}), nil)
	if isErr || msg != "Feed cache validated." {
		t.Fatalf("unexpected result %q (error=%v)", msg, isErr)
	}
	_, isErr = call(t, FeedValidateHandler(validatorStub{err: context.Canceled}), nil)
	if !isErr {
		t.Fatal("expected tool error")
	}
}
