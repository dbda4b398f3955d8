package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyImageURL     = errors.New("image URL cannot be empty")
	ErrEmptyImagePlaceID = errors.New("image place ID cannot be empty")
)

// Image belongs to exactly one Place and is removed with it.
// At most one image per place carries IsMain; the store clears all
// siblings in the same transaction when a new main is set.
type Image struct {
	ID        uuid.UUID `json:"id"`
	PlaceID   uuid.UUID `json:"place_id"`
	URL       string    `json:"url"`
	AltText   string    `json:"alt_text,omitempty"`
	Caption   string    `json:"caption,omitempty"`
	IsMain    bool      `json:"is_main"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// NewImage creates a new Image for the given place.
func NewImage(placeID uuid.UUID, url string) (*Image, error) {
	image := &Image{
		ID:        uuid.New(),
		PlaceID:   placeID,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}

	if err := image.Validate(); err != nil {
		return nil, err
	}

	return image, nil
}

// Validate checks if the Image has valid data.
func (i *Image) Validate() error {
	if i.ID == uuid.Nil {
		return ErrInvalidID
	}
	if i.PlaceID == uuid.Nil {
		return ErrEmptyImagePlaceID
	}
	if i.URL == "" {
		return ErrEmptyImageURL
	}
	return nil
}
