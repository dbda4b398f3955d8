package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyReviewPlaceID = errors.New("review place ID cannot be empty")
	ErrEmptyReviewUserID  = errors.New("review user ID cannot be empty")
)

// Review is a rating left by a user for a place. A user may leave at most
// one review per place; the store rejects a second with a conflict.
type Review struct {
	ID        uuid.UUID `json:"id"`
	PlaceID   uuid.UUID `json:"place_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    float64   `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewReview creates a new Review by the given user for the given place.
func NewReview(placeID, userID uuid.UUID, rating float64, title, comment string) (*Review, error) {
	now := time.Now().UTC()
	review := &Review{
		ID:        uuid.New(),
		PlaceID:   placeID,
		UserID:    userID,
		Rating:    rating,
		Title:     title,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := review.Validate(); err != nil {
		return nil, err
	}

	return review, nil
}

// Validate checks if the Review has valid data.
func (r *Review) Validate() error {
	if r.ID == uuid.Nil {
		return ErrInvalidID
	}
	if r.PlaceID == uuid.Nil {
		return ErrEmptyReviewPlaceID
	}
	if r.UserID == uuid.Nil {
		return ErrEmptyReviewUserID
	}
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
