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

// ReviewStore implements the store.ReviewStore interface using a PostgreSQL
// database as the storage backend.
type ReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewStore creates a new PostgreSQL implementation of the ReviewStore
// interface.
// If logger is nil, a default logger will be used.
func NewReviewStore(db store.DBTX, logger *slog.Logger) *ReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

// Ensure ReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*ReviewStore)(nil)

// WithTx implements store.ReviewStore.WithTx
func (s *ReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &ReviewStore{db: tx, logger: s.logger}
}

const reviewColumns = `id, place_id, user_id, rating, title, comment, created_at, updated_at`

// Create implements store.ReviewStore.Create
// A user holds at most one review per place; a second attempt returns
// store.ErrReviewExists.
func (s *ReviewStore) Create(ctx context.Context, review *domain.Review) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := review.Validate(); err != nil {
		return err
	}

	var placeExists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM places WHERE id = $1)`,
		review.PlaceID).Scan(&placeExists)
	if err != nil {
		return MapError(err)
	}
	if !placeExists {
		return fmt.Errorf("%w: place with ID %s not found",
			store.ErrPlaceNotFound, review.PlaceID)
	}

	query := `
		INSERT INTO reviews (id, place_id, user_id, rating, title, comment,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		review.ID,
		review.PlaceID,
		review.UserID,
		review.Rating,
		review.Title,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: user %s already reviewed place %s",
				store.ErrReviewExists, review.UserID, review.PlaceID)
		}
		log.Error("failed to create review",
			slog.String("error", err.Error()),
			slog.String("review_id", review.ID.String()))
		return MapError(err)
	}

	log.Info("review created",
		slog.String("review_id", review.ID.String()),
		slog.String("place_id", review.PlaceID.String()),
		slog.Float64("rating", review.Rating))
	return nil
}

// GetByID implements store.ReviewStore.GetByID
func (s *ReviewStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	review, err := scanReviewRow(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// ListByPlace implements store.ReviewStore.ListByPlace
// Newest reviews come first.
func (s *ReviewStore) ListByPlace(ctx context.Context, placeID uuid.UUID, page store.Page) ([]*domain.Review, error) {
	page = page.Normalize(store.DefaultPage.Limit)
	query := `SELECT ` + reviewColumns + ` FROM reviews
		WHERE place_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`
	return s.queryReviews(ctx, query, placeID, page.Skip, page.Limit)
}

// ListByUser implements store.ReviewStore.ListByUser
func (s *ReviewStore) ListByUser(ctx context.Context, userID uuid.UUID, page store.Page) ([]*domain.Review, error) {
	page = page.Normalize(store.DefaultPage.Limit)
	query := `SELECT ` + reviewColumns + ` FROM reviews
		WHERE user_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`
	return s.queryReviews(ctx, query, userID, page.Skip, page.Limit)
}

// Update implements store.ReviewStore.Update
func (s *ReviewStore) Update(ctx context.Context, review *domain.Review) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := review.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE reviews
		SET rating = $2, title = $3, comment = $4, updated_at = now()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		review.ID,
		review.Rating,
		review.Title,
		review.Comment,
	)
	if err != nil {
		log.Error("failed to update review",
			slog.String("error", err.Error()),
			slog.String("review_id", review.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "review"); err != nil {
		return store.ErrReviewNotFound
	}

	log.Debug("review updated", slog.String("review_id", review.ID.String()))
	return nil
}

// Delete implements store.ReviewStore.Delete
func (s *ReviewStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete review",
			slog.String("error", err.Error()),
			slog.String("review_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "review"); err != nil {
		return store.ErrReviewNotFound
	}

	log.Info("review deleted", slog.String("review_id", id.String()))
	return nil
}

func (s *ReviewStore) queryReviews(ctx context.Context, query string, args ...any) ([]*domain.Review, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close() //nolint:errcheck

	var reviews []*domain.Review
	for rows.Next() {
		review, err := scanReviewRow(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return reviews, nil
}

func scanReviewRow(row rowScanner) (*domain.Review, error) {
	var review domain.Review
	err := row.Scan(
		&review.ID,
		&review.PlaceID,
		&review.UserID,
		&review.Rating,
		&review.Title,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, MapError(err)
	}
	return &review, nil
}
