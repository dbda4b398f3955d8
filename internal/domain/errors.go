// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidUserType is returned when a user type is not in the allowed set.
	ErrInvalidUserType = errors.New("invalid user type")

	// ErrInvalidPreference is returned when a profile preference is not in the allowed set.
	ErrInvalidPreference = errors.New("invalid preference")

	// ErrInvalidPlaceType is returned when a place type is not in the allowed set.
	ErrInvalidPlaceType = errors.New("invalid place type")

	// ErrInvalidDifficulty is returned when a difficulty level is not in the allowed set.
	ErrInvalidDifficulty = errors.New("invalid difficulty level")

	// ErrInvalidRating is returned when a review rating is outside [1,5].
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidTrailStatus is returned when a trail status value is not in the allowed set.
	ErrInvalidTrailStatus = errors.New("invalid trail status")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
