package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elchalten/connect-api/internal/domain"
	"github.com/elchalten/connect-api/internal/service/auth"
	"github.com/elchalten/connect-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"invalid_token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired_token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"unauthenticated", auth.ErrUnauthenticated, http.StatusUnauthorized},
		{"inactive_user", auth.ErrUserInactive, http.StatusForbidden},
		{"forbidden", store.ErrForbidden, http.StatusForbidden},
		{"user_not_found", store.ErrUserNotFound, http.StatusNotFound},
		{"place_not_found", store.ErrPlaceNotFound, http.StatusNotFound},
		{"trail_status_not_found", store.ErrTrailStatusNotFound, http.StatusNotFound},
		{"email_exists", store.ErrEmailExists, http.StatusConflict},
		{"slug_exists", store.ErrSlugExists, http.StatusConflict},
		{"review_exists", store.ErrReviewExists, http.StatusConflict},
		{"invalid_entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"invalid_rating", domain.ErrInvalidRating, http.StatusBadRequest},
		{"empty_place_name", domain.ErrEmptyPlaceName, http.StatusBadRequest},
		{"unknown_error", errors.New("boom"), http.StatusInternalServerError},
		{
			"wrapped_not_found",
			fmt.Errorf("loading place: %w", store.ErrPlaceNotFound),
			http.StatusNotFound,
		},
		{
			"wrapped_duplicate",
			fmt.Errorf("creating review: %w", store.ErrReviewExists),
			http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{"nil_error", nil, "An unexpected error occurred"},
		{"expired_token", auth.ErrExpiredToken, "Token expired"},
		{"invalid_token", auth.ErrInvalidToken, "Not authenticated"},
		{"user_not_found", store.ErrUserNotFound, "User not found"},
		{"place_not_found", store.ErrPlaceNotFound, "Place not found"},
		{"email_exists", store.ErrEmailExists, "Email already registered"},
		{"slug_exists", store.ErrSlugExists, "Slug already exists"},
		{"review_exists", store.ErrReviewExists, "You have already reviewed this place"},
		{"forbidden", store.ErrForbidden, "Not enough permissions"},
		{"domain_validation", domain.ErrInvalidRating, domain.ErrInvalidRating.Error()},
		{"unknown_error", errors.New("pq: connection refused"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestGetSafeErrorMessageNeverLeaksInternals(t *testing.T) {
	internal := fmt.Errorf("dial tcp 10.0.0.5:5432: connect: connection refused")
	msg := GetSafeErrorMessage(internal)

	assert.NotContains(t, msg, "10.0.0.5")
	assert.NotContains(t, msg, "5432")
}

func TestSanitizeValidationError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{
			name: "required_field",
			err: errors.New(
				"Key: 'RegisterRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag",
			),
			expectedMsg: "Invalid Email: required field",
		},
		{
			name: "email_format",
			err: errors.New(
				"Key: 'RegisterRequest.Email' Error:Field validation for 'Email' failed on the 'email' tag",
			),
			expectedMsg: "Invalid Email: invalid email format",
		},
		{
			name: "min_length",
			err: errors.New(
				"Key: 'RegisterRequest.Password' Error:Field validation for 'Password' failed on the 'min' tag",
			),
			expectedMsg: "Invalid Password: too short",
		},
		{
			name:        "non_validator_error",
			err:         errors.New("something else entirely"),
			expectedMsg: "Validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, SanitizeValidationError(tt.err))
		})
	}
}
