package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/elchalten/connect-api/internal/domain"
)

// TrailStatusStore defines the interface for trail status persistence.
// "Current" status is always derived by timestamp comparison over the
// place's history, never tracked as separate mutable state.
type TrailStatusStore interface {
	// Create saves a new status report. The place must exist
	// (ErrPlaceNotFound otherwise).
	Create(ctx context.Context, status *domain.TrailStatus) error

	// GetByID retrieves a status report by its unique ID.
	// Returns ErrTrailStatusNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TrailStatus, error)

	// GetCurrent returns the report with the most recent LastUpdated for
	// the place. Returns ErrTrailStatusNotFound when the place has no
	// reports, and ErrPlaceNotFound when the place itself is absent.
	GetCurrent(ctx context.Context, placeID uuid.UUID) (*domain.TrailStatus, error)

	// History returns the place's reports, most recent first, paginated.
	// Returns ErrPlaceNotFound if the place does not exist.
	History(ctx context.Context, placeID uuid.UUID, page Page) ([]*domain.TrailStatus, error)

	// Update modifies an existing report and refreshes its LastUpdated,
	// which is what keeps the derived "current" view correct.
	// Returns ErrTrailStatusNotFound if the report does not exist.
	Update(ctx context.Context, status *domain.TrailStatus) error

	// WithTx returns a new TrailStatusStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) TrailStatusStore
}
