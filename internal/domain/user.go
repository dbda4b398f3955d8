package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserType identifies the role of a registered user.
type UserType string

// Valid user types.
const (
	UserTypeTourist  UserType = "tourist"
	UserTypeBusiness UserType = "business"
	UserTypeAdmin    UserType = "admin"
)

// Valid reports whether the user type is one of the allowed values.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeTourist, UserTypeBusiness, UserTypeAdmin:
		return true
	}
	return false
}

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the platform.
// It contains essential account information and authentication details.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration/updates
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	UserType       UserType  `json:"user_type"`
	IsActive       bool      `json:"is_active"`
	IsVerified     bool      `json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email, password, and names.
// It generates a new UUID for the user ID and sets the creation/update
// timestamps. New users default to the tourist type, active and unverified.
// Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing the password before
// storing the user.
func NewUser(email, password, firstName, lastName string, userType UserType) (*User, error) {
	if userType == "" {
		userType = UserTypeTourist
	}

	now := time.Now().UTC()
	user := &User{
		ID:         uuid.New(),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Password:   password, // Plaintext password - must be hashed before storage
		FirstName:  firstName,
		LastName:   lastName,
		UserType:   userType,
		IsActive:   true,
		IsVerified: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if !u.UserType.Valid() {
		return ErrInvalidUserType
	}

	// During user creation/update we need to validate the provided password
	if u.Password != "" {
		// When plaintext password is provided, validate its length
		if !validatePasswordLength(u.Password) {
			if len(u.Password) < 8 {
				return ErrPasswordTooShort
			}
			return ErrPasswordTooLong
		}
	} else {
		// When no plaintext password is provided, the user must have a hashed
		// password (this is the case for existing users loaded from the database)
		if u.HashedPassword == "" {
			return ErrEmptyPassword
		}
	}

	return nil
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	if len(domainPart) < 3 { // minimum would be "a.b"
		return false
	}

	dotIndex := strings.IndexByte(domainPart, '.')
	if dotIndex <= 0 || dotIndex == len(domainPart)-1 {
		return false
	}

	return true
}

// validatePasswordLength checks length bounds only: a minimum of 8
// characters and a maximum of 72 (bcrypt's practical limit).
func validatePasswordLength(password string) bool {
	passLen := len(password)
	return passLen >= 8 && passLen <= 72
}
