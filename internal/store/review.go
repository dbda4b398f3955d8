package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/elchalten/connect-api/internal/domain"
)

// ReviewStore defines the interface for review data persistence.
type ReviewStore interface {
	// Create saves a new review. The target place must exist
	// (ErrPlaceNotFound otherwise). A second review by the same user for
	// the same place returns ErrReviewExists before any write.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by its unique ID.
	// Returns ErrReviewNotFound if the review does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)

	// ListByPlace returns a place's reviews, newest first, paginated.
	// Returns ErrPlaceNotFound if the place does not exist.
	ListByPlace(ctx context.Context, placeID uuid.UUID, page Page) ([]*domain.Review, error)

	// ListByUser returns a user's reviews, newest first, paginated.
	ListByUser(ctx context.Context, userID uuid.UUID, page Page) ([]*domain.Review, error)

	// Update modifies an existing review.
	// Returns ErrReviewNotFound if the review does not exist.
	Update(ctx context.Context, review *domain.Review) error

	// Delete removes a review.
	// Returns ErrReviewNotFound if the review does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ReviewStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ReviewStore
}
