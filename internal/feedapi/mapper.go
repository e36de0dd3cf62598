package feedapi

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/leonardcser/feed-mcp/internal/feed"
)

type remotePayload struct {
	Items *[]remoteItem `json:"items"`
}

type remoteItem struct {
	ID          *string `json:"id"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Image       *string `json:"image"`
}

// Map converts a feed API response into items. Anything other than a 200
// with a well formed payload fails with ErrInvalidData, and a single bad
// item rejects the whole payload.
func Map(body []byte, statusCode int) ([]feed.Item, error) {
	if statusCode != http.StatusOK {
		return nil, ErrInvalidData
	}
	var payload remotePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, ErrInvalidData
	}
	if payload.Items == nil {
		return nil, ErrInvalidData
	}
	items := make([]feed.Item, 0, len(*payload.Items))
	for _, ri := range *payload.Items {
		it, ok := ri.toItem()
		if !ok {
			return nil, ErrInvalidData
		}
		items = append(items, it)
	}
	return items, nil
}

func (ri remoteItem) toItem() (feed.Item, bool) {
	if ri.ID == nil || ri.Image == nil {
		return feed.Item{}, false
	}
	id, err := uuid.Parse(*ri.ID)
	if err != nil {
		return feed.Item{}, false
	}
	u, err := url.Parse(*ri.Image)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return feed.Item{}, false
	}
	it := feed.Item{ID: id, ImageURL: *ri.Image}
	if ri.Description != nil {
		it.Description = *ri.Description
	}
	if ri.Location != nil {
		it.Location = *ri.Location
	}
	return it, true
}
