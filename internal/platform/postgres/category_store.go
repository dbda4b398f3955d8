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

// CategoryStore implements the store.CategoryStore interface using a
// PostgreSQL database as the storage backend.
type CategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCategoryStore creates a new PostgreSQL implementation of the
// CategoryStore interface.
// If logger is nil, a default logger will be used.
func NewCategoryStore(db store.DBTX, logger *slog.Logger) *CategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

// Ensure CategoryStore implements store.CategoryStore interface
var _ store.CategoryStore = (*CategoryStore)(nil)

// WithTx implements store.CategoryStore.WithTx
func (s *CategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return &CategoryStore{db: tx, logger: s.logger}
}

const categoryColumns = `id, name, slug, description, icon, is_active, created_at, updated_at`

// Create implements store.CategoryStore.Create
func (s *CategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		return err
	}

	if category.Slug == "" {
		assigned, err := s.assignSlug(ctx, category.Name)
		if err != nil {
			return err
		}
		category.Slug = assigned
	}

	query := `
		INSERT INTO categories (id, name, slug, description, icon, is_active,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.Name,
		category.Slug,
		category.Description,
		category.Icon,
		category.IsActive,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		if isSlugViolation(err) {
			return fmt.Errorf("%w: %q", store.ErrSlugExists, category.Slug)
		}
		if isCategoryNameViolation(err) {
			return MapUniqueViolation(err, store.ErrCategoryNameExists)
		}
		log.Error("failed to create category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return MapError(err)
	}

	log.Info("category created",
		slog.String("category_id", category.ID.String()),
		slog.String("slug", category.Slug))
	return nil
}

// GetByID implements store.CategoryStore.GetByID
func (s *CategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return s.scanCategory(s.db.QueryRowContext(ctx, query, id))
}

// GetBySlug implements store.CategoryStore.GetBySlug
func (s *CategoryStore) GetBySlug(ctx context.Context, slugValue string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1`
	return s.scanCategory(s.db.QueryRowContext(ctx, query, slugValue))
}

// List implements store.CategoryStore.List
func (s *CategoryStore) List(ctx context.Context, isActive *bool, page store.Page) ([]*domain.Category, error) {
	page = page.Normalize(store.DefaultPage.Limit)

	query := `SELECT ` + categoryColumns + ` FROM categories`
	args := []any{}
	if isActive != nil {
		query += ` WHERE is_active = $1`
		args = append(args, *isActive)
	}
	query += fmt.Sprintf(` ORDER BY name OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, page.Skip, page.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close() //nolint:errcheck

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategoryRow(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return categories, nil
}

// Update implements store.CategoryStore.Update
func (s *CategoryStore) Update(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		return err
	}

	base := slug.Make(category.Name)
	if category.Slug == "" || !strings.HasPrefix(category.Slug, base) {
		assigned, err := s.assignSlug(ctx, category.Name)
		if err != nil {
			return err
		}
		category.Slug = assigned
	}

	query := `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, icon = $5, is_active = $6,
			updated_at = now()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.Name,
		category.Slug,
		category.Description,
		category.Icon,
		category.IsActive,
	)
	if err != nil {
		if isSlugViolation(err) {
			return fmt.Errorf("%w: %q", store.ErrSlugExists, category.Slug)
		}
		if isCategoryNameViolation(err) {
			return MapUniqueViolation(err, store.ErrCategoryNameExists)
		}
		log.Error("failed to update category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "category"); err != nil {
		return store.ErrCategoryNotFound
	}

	log.Debug("category updated", slog.String("category_id", category.ID.String()))
	return nil
}

// Delete implements store.CategoryStore.Delete
// Place associations are removed by the database cascade; places stay.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete category",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "category"); err != nil {
		return store.ErrCategoryNotFound
	}

	log.Info("category deleted", slog.String("category_id", id.String()))
	return nil
}

func (s *CategoryStore) assignSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1)`, base).Scan(&exists)
	if err != nil {
		return "", MapError(err)
	}
	if exists {
		return slug.NextSuffix(base), nil
	}
	return base, nil
}

func (s *CategoryStore) scanCategory(row rowScanner) (*domain.Category, error) {
	category, err := scanCategoryRow(row)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func scanCategoryRow(row rowScanner) (*domain.Category, error) {
	var category domain.Category
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.Icon,
		&category.IsActive,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, MapError(err)
	}
	return &category, nil
}

// isCategoryNameViolation reports whether the error is the unique
// violation on the category name.
func isCategoryNameViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolationCode &&
		strings.Contains(pgErr.ConstraintName, "name")
}
