package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/elchalten/connect-api/internal/domain"
)

// ProfileStore defines the interface for profile data persistence.
// Each user owns exactly one profile, created with the user.
type ProfileStore interface {
	// Create saves a new profile to the store.
	// Returns ErrInvalidEntity if the owning user does not exist.
	// Returns ErrDuplicate if the user already has a profile.
	Create(ctx context.Context, profile *domain.Profile) error

	// GetByUserID retrieves the profile owned by the given user.
	// Returns ErrProfileNotFound if no profile exists.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// Update modifies an existing profile.
	// Returns ErrProfileNotFound if the profile does not exist.
	Update(ctx context.Context, profile *domain.Profile) error

	// WithTx returns a new ProfileStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ProfileStore
}
