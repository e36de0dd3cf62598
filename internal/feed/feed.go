package feed

import (
	"context"

	"github.com/google/uuid"
)

// Item is a single entry of the image feed. Empty Description or Location
// means the source did not provide one.
type Item struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	ImageURL    string    `json:"image_url"`
}

// Loader delivers the current feed.
type Loader interface {
	Load(ctx context.Context) ([]Item, error)
}

// Saver replaces the locally cached feed.
type Saver interface {
	Save(ctx context.Context, items []Item) error
}
