package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/elchalten/connect-api/internal/domain"
	"github.com/elchalten/connect-api/internal/platform/logger"
	"github.com/elchalten/connect-api/internal/slug"
	"github.com/elchalten/connect-api/internal/store"
)

// PlaceStore implements the store.PlaceStore interface using a PostgreSQL
// database as the storage backend.
type PlaceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPlaceStore creates a new PostgreSQL implementation of the PlaceStore
// interface. It accepts a database connection or transaction that should
// be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPlaceStore(db store.DBTX, logger *slog.Logger) *PlaceStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PlaceStore{
		db:     db,
		logger: logger.With(slog.String("component", "place_store")),
	}
}

// Ensure PlaceStore implements store.PlaceStore interface
var _ store.PlaceStore = (*PlaceStore)(nil)

// WithTx implements store.PlaceStore.WithTx
func (s *PlaceStore) WithTx(tx *sql.Tx) store.PlaceStore {
	return &PlaceStore{db: tx, logger: s.logger}
}

// Create implements store.PlaceStore.Create
// The slug is derived from the name unless the caller pre-assigned one
// (the retry path after a slug conflict). Slug uniqueness is ultimately
// enforced by the database constraint; a violation surfaces as
// store.ErrSlugExists so the caller can regenerate and retry.
func (s *PlaceStore) Create(ctx context.Context, place *domain.Place) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := place.Validate(); err != nil {
		log.Warn("place validation failed during create",
			slog.String("error", err.Error()),
			slog.String("place_id", place.ID.String()))
		return err
	}

	if place.Slug == "" {
		assigned, err := s.assignSlug(ctx, place.Name)
		if err != nil {
			return err
		}
		place.Slug = assigned
	}

	query := `
		INSERT INTO places (id, name, slug, description, short_description,
			place_type, latitude, longitude, address, is_active, is_featured,
			difficulty_level, duration_minutes, distance_km, elevation_gain_m,
			business_hours, contact_phone, contact_email, website,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		place.ID,
		place.Name,
		place.Slug,
		place.Description,
		place.ShortDescription,
		place.PlaceType,
		place.Latitude,
		place.Longitude,
		place.Address,
		place.IsActive,
		place.IsFeatured,
		difficultyValue(place.DifficultyLevel),
		place.DurationMinutes,
		place.DistanceKm,
		place.ElevationGainM,
		place.BusinessHours,
		place.ContactPhone,
		place.ContactEmail,
		place.Website,
		place.CreatedAt,
		place.UpdatedAt,
	)
	if err != nil {
		if isSlugViolation(err) {
			return fmt.Errorf("%w: %q", store.ErrSlugExists, place.Slug)
		}
		log.Error("failed to create place",
			slog.String("error", err.Error()),
			slog.String("place_id", place.ID.String()))
		return MapError(err)
	}

	if err := s.replaceCategories(ctx, place.ID, place.CategoryIDs); err != nil {
		return err
	}

	log.Info("place created",
		slog.String("place_id", place.ID.String()),
		slog.String("slug", place.Slug))
	return nil
}

// GetByID implements store.PlaceStore.GetByID
func (s *PlaceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Place, error) {
	return s.getOne(ctx, "p.id = $1", id)
}

// GetBySlug implements store.PlaceStore.GetBySlug
func (s *PlaceStore) GetBySlug(ctx context.Context, slugValue string) (*domain.Place, error) {
	return s.getOne(ctx, "p.slug = $1", slugValue)
}

// placeSelect is the shared projection: every place column plus the
// read-time rating annotations derived from the reviews table.
const placeSelect = `
	SELECT p.id, p.name, p.slug, p.description, p.short_description,
		p.place_type, p.latitude, p.longitude, p.address, p.is_active,
		p.is_featured, p.difficulty_level, p.duration_minutes, p.distance_km,
		p.elevation_gain_m, p.business_hours, p.contact_phone, p.contact_email,
		p.website, p.created_at, p.updated_at,
		AVG(r.rating) AS average_rating,
		COUNT(r.id) AS review_count
	FROM places p
	LEFT JOIN reviews r ON r.place_id = p.id
`

func (s *PlaceStore) getOne(ctx context.Context, where string, arg any) (*domain.Place, error) {
	query := placeSelect + ` WHERE ` + where + ` GROUP BY p.id`
	place, err := scanPlaceRow(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrPlaceNotFound
		}
		return nil, err
	}

	if err := s.loadCategoryIDs(ctx, place); err != nil {
		return nil, err
	}
	return place, nil
}

// List implements store.PlaceStore.List
func (s *PlaceStore) List(ctx context.Context, filters store.PlaceFilters, page store.Page) ([]*domain.Place, error) {
	page = page.Normalize(store.DefaultPage.Limit)

	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.IsActive != nil {
		conds = append(conds, "p.is_active = "+arg(*filters.IsActive))
	}
	if filters.PlaceType != nil {
		conds = append(conds, "p.place_type = "+arg(*filters.PlaceType))
	}
	if filters.IsFeatured != nil {
		conds = append(conds, "p.is_featured = "+arg(*filters.IsFeatured))
	}
	if filters.CategoryID != nil {
		conds = append(conds, "EXISTS (SELECT 1 FROM place_categories pc"+
			" WHERE pc.place_id = p.id AND pc.category_id = "+arg(*filters.CategoryID)+")")
	}
	if filters.Search != "" {
		pattern := arg("%" + filters.Search + "%")
		conds = append(conds, "(p.name ILIKE "+pattern+
			" OR p.description ILIKE "+pattern+
			" OR p.short_description ILIKE "+pattern+")")
	}

	query := placeSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += ` GROUP BY p.id ORDER BY p.name OFFSET ` + arg(page.Skip) + ` LIMIT ` + arg(page.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close() //nolint:errcheck

	var places []*domain.Place
	for rows.Next() {
		place, err := scanPlaceRow(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, place)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	for _, place := range places {
		if err := s.loadCategoryIDs(ctx, place); err != nil {
			return nil, err
		}
	}
	return places, nil
}

// Update implements store.PlaceStore.Update
func (s *PlaceStore) Update(ctx context.Context, place *domain.Place, replaceCategories bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := place.Validate(); err != nil {
		return err
	}

	// A rename regenerates the slug only when the stored one no longer
	// derives from the new name.
	base := slug.Make(place.Name)
	if place.Slug == "" || !strings.HasPrefix(place.Slug, base) {
		assigned, err := s.assignSlug(ctx, place.Name)
		if err != nil {
			return err
		}
		place.Slug = assigned
	}

	query := `
		UPDATE places
		SET name = $2, slug = $3, description = $4, short_description = $5,
			place_type = $6, latitude = $7, longitude = $8, address = $9,
			is_active = $10, is_featured = $11, difficulty_level = $12,
			duration_minutes = $13, distance_km = $14, elevation_gain_m = $15,
			business_hours = $16, contact_phone = $17, contact_email = $18,
			website = $19, updated_at = now()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		place.ID,
		place.Name,
		place.Slug,
		place.Description,
		place.ShortDescription,
		place.PlaceType,
		place.Latitude,
		place.Longitude,
		place.Address,
		place.IsActive,
		place.IsFeatured,
		difficultyValue(place.DifficultyLevel),
		place.DurationMinutes,
		place.DistanceKm,
		place.ElevationGainM,
		place.BusinessHours,
		place.ContactPhone,
		place.ContactEmail,
		place.Website,
	)
	if err != nil {
		if isSlugViolation(err) {
			return fmt.Errorf("%w: %q", store.ErrSlugExists, place.Slug)
		}
		log.Error("failed to update place",
			slog.String("error", err.Error()),
			slog.String("place_id", place.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "place"); err != nil {
		return store.ErrPlaceNotFound
	}

	if replaceCategories {
		if err := s.replaceCategories(ctx, place.ID, place.CategoryIDs); err != nil {
			return err
		}
	}

	log.Debug("place updated", slog.String("place_id", place.ID.String()))
	return nil
}

// Delete implements store.PlaceStore.Delete
// Images, reviews, trail statuses, and category associations are removed
// by the database cascades.
func (s *PlaceStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete place",
			slog.String("error", err.Error()),
			slog.String("place_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "place"); err != nil {
		return store.ErrPlaceNotFound
	}

	log.Info("place deleted", slog.String("place_id", id.String()))
	return nil
}

// Exists implements store.PlaceStore.Exists
func (s *PlaceStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM places WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// assignSlug derives a slug from the name and checks it against existing
// rows, appending a timestamp suffix on collision. The database unique
// constraint remains the authority: a concurrent insert can still win the
// race, in which case the insert reports ErrSlugExists and the caller
// retries with a fresh suffix.
func (s *PlaceStore) assignSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM places WHERE slug = $1)`, base).Scan(&exists)
	if err != nil {
		return "", MapError(err)
	}
	if exists {
		return slug.NextSuffix(base), nil
	}
	return base, nil
}

// replaceCategories swaps the full category association set for the place.
// Every referenced category must exist; a missing one is a validation
// error, reported before any association is written.
func (s *PlaceStore) replaceCategories(ctx context.Context, placeID uuid.UUID, categoryIDs []uuid.UUID) error {
	for _, categoryID := range categoryIDs {
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, categoryID).Scan(&exists)
		if err != nil {
			return MapError(err)
		}
		if !exists {
			return fmt.Errorf("%w: category with ID %s not found",
				store.ErrInvalidEntity, categoryID)
		}
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM place_categories WHERE place_id = $1`, placeID); err != nil {
		return MapError(err)
	}

	for _, categoryID := range categoryIDs {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO place_categories (place_id, category_id) VALUES ($1, $2)`,
			placeID, categoryID)
		if err != nil {
			return MapError(err)
		}
	}
	return nil
}

func (s *PlaceStore) loadCategoryIDs(ctx context.Context, place *domain.Place) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category_id FROM place_categories WHERE place_id = $1 ORDER BY category_id`,
		place.ID)
	if err != nil {
		return MapError(err)
	}
	defer rows.Close() //nolint:errcheck

	place.CategoryIDs = nil
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return MapError(err)
		}
		place.CategoryIDs = append(place.CategoryIDs, id)
	}
	return MapError(rows.Err())
}

func scanPlaceRow(row rowScanner) (*domain.Place, error) {
	var (
		place      domain.Place
		difficulty sql.NullString
		avgRating  sql.NullFloat64
	)
	err := row.Scan(
		&place.ID,
		&place.Name,
		&place.Slug,
		&place.Description,
		&place.ShortDescription,
		&place.PlaceType,
		&place.Latitude,
		&place.Longitude,
		&place.Address,
		&place.IsActive,
		&place.IsFeatured,
		&difficulty,
		&place.DurationMinutes,
		&place.DistanceKm,
		&place.ElevationGainM,
		&place.BusinessHours,
		&place.ContactPhone,
		&place.ContactEmail,
		&place.Website,
		&place.CreatedAt,
		&place.UpdatedAt,
		&avgRating,
		&place.ReviewCount,
	)
	if err != nil {
		return nil, MapError(err)
	}

	if difficulty.Valid && difficulty.String != "" {
		level := domain.DifficultyLevel(difficulty.String)
		place.DifficultyLevel = &level
	}
	if avgRating.Valid {
		place.AverageRating = &avgRating.Float64
	}
	return &place, nil
}

// difficultyValue maps the optional difficulty to its column value.
func difficultyValue(level *domain.DifficultyLevel) any {
	if level == nil {
		return nil
	}
	return string(*level)
}

// isSlugViolation reports whether the error is the unique violation on a
// slug column, as opposed to some other unique constraint.
func isSlugViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolationCode &&
		strings.Contains(pgErr.ConstraintName, "slug")
}
