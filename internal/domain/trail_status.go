package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyStatusPlaceID is returned when a status report lacks its place.
var ErrEmptyStatusPlaceID = errors.New("trail status place ID cannot be empty")

// TrailStatusType enumerates the condition of a trail.
type TrailStatusType string

// Valid trail status values.
const (
	TrailStatusOpen          TrailStatusType = "open"
	TrailStatusPartiallyOpen TrailStatusType = "partially_open"
	TrailStatusClosed        TrailStatusType = "closed"
	TrailStatusMaintenance   TrailStatusType = "maintenance"
	TrailStatusDangerous     TrailStatusType = "dangerous"
	TrailStatusUnknown       TrailStatusType = "unknown"
)

// Valid reports whether the status is one of the allowed values.
func (s TrailStatusType) Valid() bool {
	switch s {
	case TrailStatusOpen, TrailStatusPartiallyOpen, TrailStatusClosed,
		TrailStatusMaintenance, TrailStatusDangerous, TrailStatusUnknown:
		return true
	}
	return false
}

// TrailStatus is one report about a trail's condition. The history for a
// place is append-style: the "current" status is the row with the most
// recent LastUpdated, never a separate mutable pointer.
type TrailStatus struct {
	ID          uuid.UUID       `json:"id"`
	PlaceID     uuid.UUID       `json:"place_id"`
	Status      TrailStatusType `json:"status"`
	Details     string          `json:"details,omitempty"`
	LastUpdated time.Time       `json:"last_updated"`
	ValidUntil  *time.Time      `json:"valid_until,omitempty"`
	ReportedBy  *uuid.UUID      `json:"reported_by,omitempty"`
}

// NewTrailStatus creates a new status report for the given place.
func NewTrailStatus(placeID uuid.UUID, status TrailStatusType) (*TrailStatus, error) {
	if status == "" {
		status = TrailStatusUnknown
	}

	ts := &TrailStatus{
		ID:          uuid.New(),
		PlaceID:     placeID,
		Status:      status,
		LastUpdated: time.Now().UTC(),
	}

	if err := ts.Validate(); err != nil {
		return nil, err
	}

	return ts, nil
}

// Validate checks if the TrailStatus has valid data.
func (s *TrailStatus) Validate() error {
	if s.ID == uuid.Nil {
		return ErrInvalidID
	}
	if s.PlaceID == uuid.Nil {
		return ErrEmptyStatusPlaceID
	}
	if !s.Status.Valid() {
		return ErrInvalidTrailStatus
	}
	return nil
}
