package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Preference is a tourist interest drawn from a fixed enumeration.
type Preference string

// Valid preferences.
const (
	PreferenceAdventure   Preference = "adventure"
	PreferenceGastronomy  Preference = "gastronomy"
	PreferenceRelaxation  Preference = "relaxation"
	PreferenceNature      Preference = "nature"
	PreferencePhotography Preference = "photography"
	PreferenceCulture     Preference = "culture"
)

// Valid reports whether the preference is one of the allowed values.
func (p Preference) Valid() bool {
	switch p {
	case PreferenceAdventure, PreferenceGastronomy, PreferenceRelaxation,
		PreferenceNature, PreferencePhotography, PreferenceCulture:
		return true
	}
	return false
}

// Profile holds the free-form and business details attached to a User.
// Every user owns exactly one profile, created empty on registration.
type Profile struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Bio         string       `json:"bio,omitempty"`
	AvatarURL   string       `json:"avatar_url,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	Preferences []Preference `json:"preferences,omitempty"`
	Language    string       `json:"language"`

	// Business fields, only meaningful for business accounts.
	BusinessName        string `json:"business_name,omitempty"`
	BusinessType        string `json:"business_type,omitempty"`
	BusinessDescription string `json:"business_description,omitempty"`
	BusinessAddress     string `json:"business_address,omitempty"`
	BusinessWebsite     string `json:"business_website,omitempty"`
	BusinessPhone       string `json:"business_phone,omitempty"`
	BusinessEmail       string `json:"business_email,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProfile creates an empty profile for the given user.
func NewProfile(userID uuid.UUID) *Profile {
	now := time.Now().UTC()
	return &Profile{
		ID:        uuid.New(),
		UserID:    userID,
		Language:  "es",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks if the Profile has valid data.
func (p *Profile) Validate() error {
	if p.ID == uuid.Nil {
		return ErrInvalidID
	}
	if p.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	for _, pref := range p.Preferences {
		if !pref.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidPreference, pref)
		}
	}
	return nil
}
