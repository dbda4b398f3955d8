package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PlaceType classifies a point of interest.
type PlaceType string

// Valid place types.
const (
	PlaceTypeAttraction    PlaceType = "attraction"
	PlaceTypeRestaurant    PlaceType = "restaurant"
	PlaceTypeAccommodation PlaceType = "accommodation"
	PlaceTypeActivity      PlaceType = "activity"
	PlaceTypeTrail         PlaceType = "trail"
	PlaceTypeViewpoint     PlaceType = "viewpoint"
	PlaceTypeOther         PlaceType = "other"
)

// Valid reports whether the place type is one of the allowed values.
func (t PlaceType) Valid() bool {
	switch t {
	case PlaceTypeAttraction, PlaceTypeRestaurant, PlaceTypeAccommodation,
		PlaceTypeActivity, PlaceTypeTrail, PlaceTypeViewpoint, PlaceTypeOther:
		return true
	}
	return false
}

// DifficultyLevel grades a trail or activity.
type DifficultyLevel string

// Valid difficulty levels.
const (
	DifficultyEasy          DifficultyLevel = "easy"
	DifficultyModerate      DifficultyLevel = "moderate"
	DifficultyDifficult     DifficultyLevel = "difficult"
	DifficultyVeryDifficult DifficultyLevel = "very_difficult"
	DifficultyExtreme       DifficultyLevel = "extreme"
)

// Valid reports whether the difficulty level is one of the allowed values.
func (d DifficultyLevel) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyDifficult,
		DifficultyVeryDifficult, DifficultyExtreme:
		return true
	}
	return false
}

// Common validation errors
var (
	ErrEmptyPlaceName        = errors.New("place name cannot be empty")
	ErrEmptyPlaceDescription = errors.New("place description cannot be empty")
)

// Place is a point of interest. It is the aggregate root for the images
// and reviews attached to it: deleting a place removes both.
type Place struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"short_description,omitempty"`
	PlaceType        PlaceType `json:"place_type"`

	// Location
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Address   string   `json:"address,omitempty"`

	// Flags
	IsActive   bool `json:"is_active"`
	IsFeatured bool `json:"is_featured"`

	// Trail and activity details
	DifficultyLevel *DifficultyLevel `json:"difficulty_level,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
	DistanceKm      *float64         `json:"distance_km,omitempty"`
	ElevationGainM  *int             `json:"elevation_gain_m,omitempty"`

	// Business details
	BusinessHours string `json:"business_hours,omitempty"`
	ContactPhone  string `json:"contact_phone,omitempty"`
	ContactEmail  string `json:"contact_email,omitempty"`
	Website       string `json:"website,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associated category IDs (many-to-many).
	CategoryIDs []uuid.UUID `json:"category_ids,omitempty"`

	// Derived at read time from the place's reviews, never stored.
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
}

// NewPlace creates a new Place with a generated ID and timestamps.
// The slug is assigned by the store on create, derived from the name.
func NewPlace(name, description string, placeType PlaceType) (*Place, error) {
	now := time.Now().UTC()
	place := &Place{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		PlaceType:   placeType,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := place.Validate(); err != nil {
		return nil, err
	}

	return place, nil
}

// Validate checks if the Place has valid data.
func (p *Place) Validate() error {
	if p.ID == uuid.Nil {
		return ErrInvalidID
	}
	if p.Name == "" {
		return ErrEmptyPlaceName
	}
	if p.Description == "" {
		return ErrEmptyPlaceDescription
	}
	if !p.PlaceType.Valid() {
		return ErrInvalidPlaceType
	}
	if p.DifficultyLevel != nil && !p.DifficultyLevel.Valid() {
		return ErrInvalidDifficulty
	}
	return nil
}
