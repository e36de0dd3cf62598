package feedapi

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/leonardcser/feed-mcp/internal/feed"
)

type clientSpy struct {
	mu            sync.Mutex
	requestedURLs []string

	resp *Response
	err  error
	gate chan struct{}
}

func (c *clientSpy) Get(_ context.Context, url string) (*Response, error) {
	c.mu.Lock()
	c.requestedURLs = append(c.requestedURLs, url)
	c.mu.Unlock()
	if c.gate != nil {
		<-c.gate
	}
	return c.resp, c.err
}

func (c *clientSpy) requested() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requestedURLs...)
}

const anyURL = "https://a-url.com/feed"

func TestNewRemoteFeedLoaderDoesNotRequestData(t *testing.T) {
	client := &clientSpy{}
	_ = NewRemoteFeedLoader(anyURL, client)

	if got := client.requested(); len(got) != 0 {
		t.Fatalf("expected no requests, got %v", got)
	}
}

func TestLoadRequestsDataFromURLEachTime(t *testing.T) {
	client := &clientSpy{resp: &Response{StatusCode: 200, Body: itemsJSON(t)}}
	loader := NewRemoteFeedLoader(anyURL, client)

	_, _ = loader.Load(context.Background())
	_, _ = loader.Load(context.Background())

	got := client.requested()
	if len(got) != 2 || got[0] != anyURL || got[1] != anyURL {
		t.Fatalf("expected two requests to %s, got %v", anyURL, got)
	}
}

func TestLoadDeliversConnectivityErrorOnClientError(t *testing.T) {
	client := &clientSpy{err: errors.New("offline")}
	loader := NewRemoteFeedLoader(anyURL, client)

	items, err := loader.Load(context.Background())
	if !errors.Is(err, ErrConnectivity) {
		t.Fatalf("expected ErrConnectivity, got %v", err)
	}
	if items != nil {
		t.Fatalf("expected no items, got %v", items)
	}
}

func TestLoadDeliversConnectivityErrorOnMissingResponse(t *testing.T) {
	loader := NewRemoteFeedLoader(anyURL, &clientSpy{})

	items, err := loader.Load(context.Background())
	if !errors.Is(err, ErrConnectivity) {
		t.Fatalf("expected ErrConnectivity, got %v", err)
	}
	if items != nil {
		t.Fatalf("expected no items, got %v", items)
	}
}

func TestLoadDeliversInvalidDataOnNon200Response(t *testing.T) {
	for _, code := range []int{199, 201, 300, 400, 404, 500} {
		client := &clientSpy{resp: &Response{StatusCode: code, Body: itemsJSON(t)}}
		loader := NewRemoteFeedLoader(anyURL, client)

		if _, err := loader.Load(context.Background()); !errors.Is(err, ErrInvalidData) {
			t.Fatalf("status %d: expected ErrInvalidData, got %v", code, err)
		}
	}
}

func TestLoadDeliversInvalidDataOn200WithInvalidJSON(t *testing.T) {
	client := &clientSpy{resp: &Response{StatusCode: 200, Body: []byte("invalid json")}}
	loader := NewRemoteFeedLoader(anyURL, client)

	if _, err := loader.Load(context.Background()); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}

func TestLoadDeliversNoItemsOn200WithEmptyList(t *testing.T) {
	client := &clientSpy{resp: &Response{StatusCode: 200, Body: []byte(`{"items":[]}`)}}
	loader := NewRemoteFeedLoader(anyURL, client)

	items, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty feed, got %v", items)
	}
}

func TestLoadDeliversItemsOn200WithItems(t *testing.T) {
	item1 := feed.Item{ID: uuid.New(), ImageURL: "http://a-url.com"}
	item2 := feed.Item{ID: uuid.New(), Description: "a description", Location: "a location", ImageURL: "http://another-url.com"}
	client := &clientSpy{resp: &Response{StatusCode: 200, Body: itemsJSON(t, item1, item2)}}
	loader := NewRemoteFeedLoader(anyURL, client)

	items, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []feed.Item{item1, item2}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i := range want {
		if items[i] != want[i] {
			t.Fatalf("item %d: expected %+v, got %+v", i, want[i], items[i])
		}
	}
}

func TestLoadDoesNotDeliverResultAfterCallerIsGone(t *testing.T) {
	client := &clientSpy{
		resp: &Response{StatusCode: 200, Body: []byte(`{"items":[]}`)},
		gate: make(chan struct{}),
	}
	loader := NewRemoteFeedLoader(anyURL, client)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		items, err := loader.Load(ctx)
		if items != nil {
			err = errors.New("items delivered")
		}
		done <- err
	}()
	for len(client.requested()) == 0 {
		time.Sleep(time.Millisecond)
	}
	cancel()
	close(client.gate)

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMap(t *testing.T) {
	id := uuid.New().String()
	tests := []struct {
		name    string
		body    string
		wantErr bool
		want    []feed.Item
	}{
		{name: "missing items", body: `{}`, wantErr: true},
		{name: "null items", body: `{"items":null}`, wantErr: true},
		{name: "items not an array", body: `{"items":{}}`, wantErr: true},
		{name: "missing id", body: `{"items":[{"image":"https://a.com/x.jpg"}]}`, wantErr: true},
		{name: "invalid id", body: `{"items":[{"id":"not-a-uuid","image":"https://a.com/x.jpg"}]}`, wantErr: true},
		{name: "missing image", body: `{"items":[{"id":"` + id + `"}]}`, wantErr: true},
		{name: "relative image", body: `{"items":[{"id":"` + id + `","image":"/x.jpg"}]}`, wantErr: true},
		{name: "description wrong type", body: `{"items":[{"id":"` + id + `","image":"https://a.com/x.jpg","description":3}]}`, wantErr: true},
		{
			name: "one bad item rejects payload",
			body: `{"items":[{"id":"` + id + `","image":"https://a.com/x.jpg"},{"id":"` + id + `"}]}`,
			wantErr: true,
		},
		{
			name: "unknown fields ignored",
			body: `{"extra":true,"items":[{"id":"` + id + `","image":"https://a.com/x.jpg","likes":4}]}`,
			want: []feed.Item{{ID: uuid.MustParse(id), ImageURL: "https://a.com/x.jpg"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Map([]byte(tt.body), 200)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidData) {
					t.Fatalf("expected ErrInvalidData, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("map: %v", err)
			}
			if len(got) != len(tt.want) || got[0] != tt.want[0] {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

// itemsJSON encodes items the way the feed API does: image instead of
// image_url and absent optional fields left out.
func itemsJSON(t *testing.T, items ...feed.Item) []byte {
	t.Helper()
	out := make([]map[string]string, 0, len(items))
	for _, it := range items {
		m := map[string]string{"id": it.ID.String(), "image": it.ImageURL}
		if it.Description != "" {
			m["description"] = it.Description
		}
		if it.Location != "" {
			m["location"] = it.Location
		}
		out = append(out, m)
	}
	b, err := json.Marshal(map[string]any{"items": out})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}
