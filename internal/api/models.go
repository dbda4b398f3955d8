package api

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name"  validate:"required,min=1,max=100"`
	UserType  string `json:"user_type"  validate:"omitempty,oneof=tourist business"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for the login endpoint.
type AuthResponse struct {
	// AccessToken is the JWT used as the bearer credential on API calls.
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer".
	TokenType string `json:"token_type"`
}

// UpdateUserRequest defines the payload for updating a user account.
// Nil fields are left unchanged. UserType, IsActive, and IsVerified may
// only be set by admins.
type UpdateUserRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName   *string `json:"last_name"  validate:"omitempty,min=1,max=100"`
	Password   *string `json:"password"   validate:"omitempty,min=8,max=72"`
	UserType   *string `json:"user_type"  validate:"omitempty,oneof=tourist business admin"`
	IsActive   *bool   `json:"is_active"`
	IsVerified *bool   `json:"is_verified"`
}

// UpdateProfileRequest defines the payload for updating a user profile.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Bio         *string   `json:"bio"`
	AvatarURL   *string   `json:"avatar_url" validate:"omitempty,url"`
	Phone       *string   `json:"phone"      validate:"omitempty,max=50"`
	Preferences *[]string `json:"preferences"`
	Language    *string   `json:"language"   validate:"omitempty,len=2"`

	BusinessName        *string `json:"business_name"`
	BusinessType        *string `json:"business_type"`
	BusinessDescription *string `json:"business_description"`
	BusinessAddress     *string `json:"business_address"`
	BusinessWebsite     *string `json:"business_website" validate:"omitempty,url"`
	BusinessPhone       *string `json:"business_phone"   validate:"omitempty,max=50"`
	BusinessEmail       *string `json:"business_email"   validate:"omitempty,email"`
}
