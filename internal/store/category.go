package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/elchalten/connect-api/internal/domain"
)

// CategoryStore defines the interface for category data persistence.
type CategoryStore interface {
	// Create saves a new category. The slug is derived from the name with
	// the same collision handling as places.
	// Returns ErrCategoryNameExists if the name is already taken.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// GetBySlug retrieves a category by its slug.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)

	// List returns categories filtered by active flag, ordered by name
	// and paginated.
	List(ctx context.Context, isActive *bool, page Page) ([]*domain.Category, error)

	// Update modifies an existing category, regenerating the slug when
	// the name changed.
	// Returns ErrCategoryNotFound if the category does not exist.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes a category. Its place associations are removed with
	// it; the places themselves are untouched.
	// Returns ErrCategoryNotFound if the category does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new CategoryStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) CategoryStore
}
