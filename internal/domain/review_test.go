package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewReview(t *testing.T) {
	placeID := uuid.New()
	userID := uuid.New()

	review, err := NewReview(placeID, userID, 4.5, "Great hike", "Worth the early start.")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if review.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if review.PlaceID != placeID || review.UserID != userID {
		t.Error("Expected review to keep the given place and user IDs")
	}

	if review.Rating != 4.5 {
		t.Errorf("Expected rating 4.5, got %v", review.Rating)
	}

	if review.CreatedAt.IsZero() || review.UpdatedAt.IsZero() {
		t.Error("Expected CreatedAt and UpdatedAt to be set")
	}
}

func TestNewReviewValidation(t *testing.T) {
	placeID := uuid.New()
	userID := uuid.New()

	tests := []struct {
		name    string
		placeID uuid.UUID
		userID  uuid.UUID
		rating  float64
		wantErr error
	}{
		{"empty place ID", uuid.Nil, userID, 4, ErrEmptyReviewPlaceID},
		{"empty user ID", placeID, uuid.Nil, 4, ErrEmptyReviewUserID},
		{"rating below range", placeID, userID, 0.9, ErrInvalidRating},
		{"rating above range", placeID, userID, 5.1, ErrInvalidRating},
		{"rating at lower bound", placeID, userID, 1, nil},
		{"rating at upper bound", placeID, userID, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReview(tt.placeID, tt.userID, tt.rating, "Title", "Comment")
			if err != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
