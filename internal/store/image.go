package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/elchalten/connect-api/internal/domain"
)

// ImageStore defines the interface for image data persistence.
type ImageStore interface {
	// Create saves a new image. The owning place must exist
	// (ErrInvalidEntity otherwise). When IsMain is set, every other image
	// of the same place has its main flag cleared in the same transaction.
	Create(ctx context.Context, image *domain.Image) error

	// GetByID retrieves an image by its unique ID.
	// Returns ErrImageNotFound if the image does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Image, error)

	// List returns images, optionally filtered by place, ordered by
	// sort order and paginated.
	List(ctx context.Context, placeID *uuid.UUID, page Page) ([]*domain.Image, error)

	// Update modifies an existing image. Moving the image to another
	// place revalidates the target place; promoting it to main clears
	// the siblings' flags transactionally.
	// Returns ErrImageNotFound if the image does not exist.
	Update(ctx context.Context, image *domain.Image) error

	// Delete removes an image.
	// Returns ErrImageNotFound if the image does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Reorder atomically assigns sort_order = index for each image ID per
	// its position in ids. Every ID must belong to the given place; a
	// mismatch returns ErrInvalidEntity with no partial update applied.
	// Returns the place's images in their new order.
	Reorder(ctx context.Context, placeID uuid.UUID, ids []uuid.UUID) ([]*domain.Image, error)

	// WithTx returns a new ImageStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ImageStore
}
