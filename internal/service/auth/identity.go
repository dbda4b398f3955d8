package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/elchalten/connect-api/internal/domain"
)

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	UserID   uuid.UUID
	UserType domain.UserType
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.UserType == domain.UserTypeAdmin
}

// CanAccess reports whether the identity may mutate a resource owned by
// ownerID: owners and admins may, everyone else may not.
func (i Identity) CanAccess(ownerID uuid.UUID) bool {
	return i.UserID == ownerID || i.IsAdmin()
}

// IdentityResolver resolves a bearer credential to a caller identity.
// The users service verifies tokens locally (it holds the signing
// secret); other services delegate verification to the users service
// over the network. Both paths yield the same Identity, so handlers and
// middleware never care which one is wired in.
type IdentityResolver interface {
	// Resolve verifies the credential and returns the caller's identity.
	// Any failure (bad signature, expiry, unknown or inactive user,
	// unreachable verifier) is reported as ErrUnauthenticated or one of
	// the more specific token errors.
	Resolve(ctx context.Context, token string) (*Identity, error)
}
