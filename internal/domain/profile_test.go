package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewProfile(t *testing.T) {
	userID := uuid.New()

	profile := NewProfile(userID)

	if profile.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if profile.UserID != userID {
		t.Error("Expected profile to keep the given user ID")
	}

	if profile.Language != "es" {
		t.Errorf("Expected default language \"es\", got %q", profile.Language)
	}

	if len(profile.Preferences) != 0 {
		t.Errorf("Expected no preferences, got %v", profile.Preferences)
	}

	if err := profile.Validate(); err != nil {
		t.Errorf("Expected new profile to be valid, got %v", err)
	}
}

func TestProfileValidatePreferences(t *testing.T) {
	profile := NewProfile(uuid.New())

	profile.Preferences = []Preference{PreferenceNature, PreferencePhotography}
	if err := profile.Validate(); err != nil {
		t.Errorf("Expected valid preferences to pass, got %v", err)
	}

	profile.Preferences = append(profile.Preferences, Preference("shopping"))
	if err := profile.Validate(); !errors.Is(err, ErrInvalidPreference) {
		t.Errorf("Expected error %v, got %v", ErrInvalidPreference, err)
	}
}

func TestProfileValidateUserID(t *testing.T) {
	profile := NewProfile(uuid.New())
	profile.UserID = uuid.Nil

	if err := profile.Validate(); err != ErrEmptyUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyUserID, err)
	}
}
