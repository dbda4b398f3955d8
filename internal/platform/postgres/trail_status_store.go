package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/elchalten/connect-api/internal/domain"
	"github.com/elchalten/connect-api/internal/platform/logger"
	"github.com/elchalten/connect-api/internal/store"
)

// TrailStatusStore implements the store.TrailStatusStore interface using a
// PostgreSQL database as the storage backend.
type TrailStatusStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTrailStatusStore creates a new PostgreSQL implementation of the
// TrailStatusStore interface.
// If logger is nil, a default logger will be used.
func NewTrailStatusStore(db store.DBTX, logger *slog.Logger) *TrailStatusStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TrailStatusStore{
		db:     db,
		logger: logger.With(slog.String("component", "trail_status_store")),
	}
}

// Ensure TrailStatusStore implements store.TrailStatusStore interface
var _ store.TrailStatusStore = (*TrailStatusStore)(nil)

// WithTx implements store.TrailStatusStore.WithTx
func (s *TrailStatusStore) WithTx(tx *sql.Tx) store.TrailStatusStore {
	return &TrailStatusStore{db: tx, logger: s.logger}
}

const trailStatusColumns = `id, place_id, status, details, last_updated, valid_until, reported_by`

// Create implements store.TrailStatusStore.Create
func (s *TrailStatusStore) Create(ctx context.Context, status *domain.TrailStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := status.Validate(); err != nil {
		return err
	}

	if err := s.checkPlaceExists(ctx, status.PlaceID); err != nil {
		return err
	}

	query := `
		INSERT INTO trail_status (id, place_id, status, details, last_updated,
			valid_until, reported_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		status.ID,
		status.PlaceID,
		status.Status,
		status.Details,
		status.LastUpdated,
		status.ValidUntil,
		status.ReportedBy,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: place with ID %s not found",
				store.ErrPlaceNotFound, status.PlaceID)
		}
		log.Error("failed to create trail status",
			slog.String("error", err.Error()),
			slog.String("trail_status_id", status.ID.String()))
		return MapError(err)
	}

	log.Info("trail status created",
		slog.String("trail_status_id", status.ID.String()),
		slog.String("place_id", status.PlaceID.String()),
		slog.String("status", string(status.Status)))
	return nil
}

// GetByID implements store.TrailStatusStore.GetByID
func (s *TrailStatusStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TrailStatus, error) {
	query := `SELECT ` + trailStatusColumns + ` FROM trail_status WHERE id = $1`
	status, err := scanTrailStatusRow(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrTrailStatusNotFound
		}
		return nil, err
	}
	return status, nil
}

// GetCurrent implements store.TrailStatusStore.GetCurrent
// The current report is the one with the most recent last_updated, so a
// corrected older report never shadows a newer one.
func (s *TrailStatusStore) GetCurrent(ctx context.Context, placeID uuid.UUID) (*domain.TrailStatus, error) {
	if err := s.checkPlaceExists(ctx, placeID); err != nil {
		return nil, err
	}

	query := `SELECT ` + trailStatusColumns + ` FROM trail_status
		WHERE place_id = $1
		ORDER BY last_updated DESC
		LIMIT 1`
	status, err := scanTrailStatusRow(s.db.QueryRowContext(ctx, query, placeID))
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrTrailStatusNotFound
		}
		return nil, err
	}
	return status, nil
}

// History implements store.TrailStatusStore.History
func (s *TrailStatusStore) History(ctx context.Context, placeID uuid.UUID, page store.Page) ([]*domain.TrailStatus, error) {
	if err := s.checkPlaceExists(ctx, placeID); err != nil {
		return nil, err
	}

	page = page.Normalize(10)

	query := `SELECT ` + trailStatusColumns + ` FROM trail_status
		WHERE place_id = $1
		ORDER BY last_updated DESC
		OFFSET $2 LIMIT $3`
	rows, err := s.db.QueryContext(ctx, query, placeID, page.Skip, page.Limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close() //nolint:errcheck

	var history []*domain.TrailStatus
	for rows.Next() {
		status, err := scanTrailStatusRow(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, status)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return history, nil
}

// Update implements store.TrailStatusStore.Update
// Updating a report bumps last_updated, which may make it the current
// report again.
func (s *TrailStatusStore) Update(ctx context.Context, status *domain.TrailStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := status.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE trail_status
		SET status = $2, details = $3, valid_until = $4, last_updated = now()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		status.ID,
		status.Status,
		status.Details,
		status.ValidUntil,
	)
	if err != nil {
		log.Error("failed to update trail status",
			slog.String("error", err.Error()),
			slog.String("trail_status_id", status.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "trail status"); err != nil {
		return store.ErrTrailStatusNotFound
	}

	log.Debug("trail status updated", slog.String("trail_status_id", status.ID.String()))
	return nil
}

func (s *TrailStatusStore) checkPlaceExists(ctx context.Context, placeID uuid.UUID) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM places WHERE id = $1)`, placeID).Scan(&exists)
	if err != nil {
		return MapError(err)
	}
	if !exists {
		return fmt.Errorf("%w: place with ID %s not found",
			store.ErrPlaceNotFound, placeID)
	}
	return nil
}

func scanTrailStatusRow(row rowScanner) (*domain.TrailStatus, error) {
	var status domain.TrailStatus
	err := row.Scan(
		&status.ID,
		&status.PlaceID,
		&status.Status,
		&status.Details,
		&status.LastUpdated,
		&status.ValidUntil,
		&status.ReportedBy,
	)
	if err != nil {
		return nil, MapError(err)
	}
	return &status, nil
}
