package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/elchalten/connect-api/internal/domain"
)

// PlaceFilters narrows a place listing. Zero-valued fields are ignored.
type PlaceFilters struct {
	PlaceType  *domain.PlaceType
	CategoryID *uuid.UUID
	IsActive   *bool
	IsFeatured *bool
	// Search is a case-insensitive substring matched against name,
	// description, and short description (OR-combined).
	Search string
}

// PlaceStore defines the interface for place data persistence.
type PlaceStore interface {
	// Create saves a new place. The slug is derived from the place name;
	// on collision with an existing slug, a timestamp suffix is appended
	// and the insert retried once.
	// Returns ErrInvalidEntity if any referenced category is absent.
	Create(ctx context.Context, place *domain.Place) error

	// GetByID retrieves a place by its unique ID, annotated with its
	// category IDs, average rating, and review count.
	// Returns ErrPlaceNotFound if the place does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Place, error)

	// GetBySlug retrieves a place by its slug, annotated like GetByID.
	// Returns ErrPlaceNotFound if the place does not exist.
	GetBySlug(ctx context.Context, slug string) (*domain.Place, error)

	// List returns places matching the filters, ordered by name and
	// paginated. Each place carries its read-time rating annotations.
	List(ctx context.Context, filters PlaceFilters, page Page) ([]*domain.Place, error)

	// Update modifies an existing place. When the name changed and the
	// stored slug no longer derives from it, the slug is regenerated with
	// the same collision handling as Create. When CategoryIDs is non-nil
	// the full association set is replaced.
	// Returns ErrPlaceNotFound if the place does not exist.
	Update(ctx context.Context, place *domain.Place, replaceCategories bool) error

	// Delete removes a place and, by cascade, its images and reviews.
	// Returns ErrPlaceNotFound if the place does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Exists reports whether a place with the given ID exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// WithTx returns a new PlaceStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) PlaceStore
}
