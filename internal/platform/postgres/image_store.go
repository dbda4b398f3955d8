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

// ImageStore implements the store.ImageStore interface using a PostgreSQL
// database as the storage backend.
type ImageStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewImageStore creates a new PostgreSQL implementation of the ImageStore
// interface.
// If logger is nil, a default logger will be used.
func NewImageStore(db store.DBTX, logger *slog.Logger) *ImageStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ImageStore{
		db:     db,
		logger: logger.With(slog.String("component", "image_store")),
	}
}

// Ensure ImageStore implements store.ImageStore interface
var _ store.ImageStore = (*ImageStore)(nil)

// WithTx implements store.ImageStore.WithTx
func (s *ImageStore) WithTx(tx *sql.Tx) store.ImageStore {
	return &ImageStore{db: tx, logger: s.logger}
}

const imageColumns = `id, place_id, url, alt_text, caption, is_main, sort_order, created_at`

// Create implements store.ImageStore.Create
// Callers wrap this in a transaction: when the image is the new main, the
// siblings' flags are cleared first, and a concurrent reader must never
// observe zero or two main images.
func (s *ImageStore) Create(ctx context.Context, image *domain.Image) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := image.Validate(); err != nil {
		return err
	}

	exists, err := s.placeExists(ctx, image.PlaceID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: place with ID %s not found",
			store.ErrPlaceNotFound, image.PlaceID)
	}

	if image.IsMain {
		if err := s.clearMainFlags(ctx, image.PlaceID, uuid.Nil); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO images (id, place_id, url, alt_text, caption, is_main,
			sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		image.ID,
		image.PlaceID,
		image.URL,
		image.AltText,
		image.Caption,
		image.IsMain,
		image.SortOrder,
		image.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: place with ID %s not found",
				store.ErrPlaceNotFound, image.PlaceID)
		}
		log.Error("failed to create image",
			slog.String("error", err.Error()),
			slog.String("image_id", image.ID.String()))
		return MapError(err)
	}

	log.Info("image created",
		slog.String("image_id", image.ID.String()),
		slog.String("place_id", image.PlaceID.String()),
		slog.Bool("is_main", image.IsMain))
	return nil
}

// GetByID implements store.ImageStore.GetByID
func (s *ImageStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE id = $1`
	image, err := scanImageRow(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrImageNotFound
		}
		return nil, err
	}
	return image, nil
}

// List implements store.ImageStore.List
func (s *ImageStore) List(ctx context.Context, placeID *uuid.UUID, page store.Page) ([]*domain.Image, error) {
	page = page.Normalize(store.DefaultPage.Limit)

	query := `SELECT ` + imageColumns + ` FROM images`
	args := []any{}
	if placeID != nil {
		query += ` WHERE place_id = $1`
		args = append(args, *placeID)
	}
	query += fmt.Sprintf(` ORDER BY sort_order OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, page.Skip, page.Limit)

	return s.queryImages(ctx, query, args...)
}

// Update implements store.ImageStore.Update
// Promotion to main clears the siblings' flags first; callers wrap the
// operation in a transaction.
func (s *ImageStore) Update(ctx context.Context, image *domain.Image) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := image.Validate(); err != nil {
		return err
	}

	current, err := s.GetByID(ctx, image.ID)
	if err != nil {
		return err
	}

	if image.PlaceID != current.PlaceID {
		exists, err := s.placeExists(ctx, image.PlaceID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: place with ID %s not found",
				store.ErrPlaceNotFound, image.PlaceID)
		}
	}

	if image.IsMain && !current.IsMain {
		if err := s.clearMainFlags(ctx, image.PlaceID, image.ID); err != nil {
			return err
		}
	}

	query := `
		UPDATE images
		SET place_id = $2, url = $3, alt_text = $4, caption = $5,
			is_main = $6, sort_order = $7
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		image.ID,
		image.PlaceID,
		image.URL,
		image.AltText,
		image.Caption,
		image.IsMain,
		image.SortOrder,
	)
	if err != nil {
		log.Error("failed to update image",
			slog.String("error", err.Error()),
			slog.String("image_id", image.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "image"); err != nil {
		return store.ErrImageNotFound
	}

	log.Debug("image updated", slog.String("image_id", image.ID.String()))
	return nil
}

// Delete implements store.ImageStore.Delete
func (s *ImageStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete image",
			slog.String("error", err.Error()),
			slog.String("image_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "image"); err != nil {
		return store.ErrImageNotFound
	}

	log.Info("image deleted", slog.String("image_id", id.String()))
	return nil
}

// Reorder implements store.ImageStore.Reorder
// The count-match check rejects duplicated IDs and any ID that does not
// belong to the place before a single row is touched; callers wrap the
// operation in a transaction so the reassignment is atomic.
func (s *ImageStore) Reorder(ctx context.Context, placeID uuid.UUID, ids []uuid.UUID) ([]*domain.Image, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if hasDuplicateIDs(ids) {
		return nil, fmt.Errorf("%w: duplicate image IDs in reorder list",
			store.ErrInvalidEntity)
	}

	exists, err := s.placeExists(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: place with ID %s not found",
			store.ErrPlaceNotFound, placeID)
	}

	var matched int
	for _, id := range ids {
		var belongs bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM images WHERE id = $1 AND place_id = $2)`,
			id, placeID).Scan(&belongs)
		if err != nil {
			return nil, MapError(err)
		}
		if belongs {
			matched++
		}
	}
	if matched != len(ids) {
		return nil, fmt.Errorf(
			"%w: some image IDs are invalid or do not belong to this place",
			store.ErrInvalidEntity)
	}

	for index, id := range ids {
		_, err := s.db.ExecContext(ctx,
			`UPDATE images SET sort_order = $2 WHERE id = $1`, id, index)
		if err != nil {
			return nil, MapError(err)
		}
	}

	log.Info("images reordered",
		slog.String("place_id", placeID.String()),
		slog.Int("count", len(ids)))

	query := `SELECT ` + imageColumns + ` FROM images WHERE place_id = $1 ORDER BY sort_order`
	return s.queryImages(ctx, query, placeID)
}

func hasDuplicateIDs(ids []uuid.UUID) bool {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func (s *ImageStore) queryImages(ctx context.Context, query string, args ...any) ([]*domain.Image, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close() //nolint:errcheck

	var images []*domain.Image
	for rows.Next() {
		image, err := scanImageRow(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return images, nil
}

// clearMainFlags unsets is_main on every image of the place except the
// one being promoted (uuid.Nil to clear all).
func (s *ImageStore) clearMainFlags(ctx context.Context, placeID, exceptID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE images SET is_main = FALSE WHERE place_id = $1 AND id <> $2 AND is_main`,
		placeID, exceptID)
	return MapError(err)
}

func (s *ImageStore) placeExists(ctx context.Context, placeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM places WHERE id = $1)`, placeID).Scan(&exists)
	if err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

func scanImageRow(row rowScanner) (*domain.Image, error) {
	var image domain.Image
	err := row.Scan(
		&image.ID,
		&image.PlaceID,
		&image.URL,
		&image.AltText,
		&image.Caption,
		&image.IsMain,
		&image.SortOrder,
		&image.CreatedAt,
	)
	if err != nil {
		return nil, MapError(err)
	}
	return &image, nil
}
