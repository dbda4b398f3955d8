package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewImage(t *testing.T) {
	placeID := uuid.New()

	image, err := NewImage(placeID, "https://cdn.example.com/laguna.jpg")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if image.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if image.PlaceID != placeID {
		t.Error("Expected image to keep the given place ID")
	}

	if image.IsMain {
		t.Error("Expected new image to not be main")
	}

	if image.SortOrder != 0 {
		t.Errorf("Expected sort order 0, got %d", image.SortOrder)
	}
}

func TestNewImageValidation(t *testing.T) {
	tests := []struct {
		name    string
		placeID uuid.UUID
		url     string
		wantErr error
	}{
		{"empty place ID", uuid.Nil, "https://cdn.example.com/a.jpg", ErrEmptyImagePlaceID},
		{"empty URL", uuid.New(), "", ErrEmptyImageURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewImage(tt.placeID, tt.url)
			if err != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
