package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/elchalten/connect-api/internal/domain"
	"github.com/elchalten/connect-api/internal/platform/logger"
	"github.com/elchalten/connect-api/internal/store"
)

// ProfileStore implements the store.ProfileStore interface using a
// PostgreSQL database as the storage backend.
type ProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProfileStore creates a new PostgreSQL implementation of the
// ProfileStore interface.
// If logger is nil, a default logger will be used.
func NewProfileStore(db store.DBTX, logger *slog.Logger) *ProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

// Ensure ProfileStore implements store.ProfileStore interface
var _ store.ProfileStore = (*ProfileStore)(nil)

// WithTx implements store.ProfileStore.WithTx
func (s *ProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &ProfileStore{db: tx, logger: s.logger}
}

// Create implements store.ProfileStore.Create
func (s *ProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		return err
	}

	prefs, err := encodePreferences(profile.Preferences)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO profiles (id, user_id, bio, avatar_url, phone, preferences,
			language, business_name, business_type, business_description,
			business_address, business_website, business_phone, business_email,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		profile.ID,
		profile.UserID,
		profile.Bio,
		profile.AvatarURL,
		profile.Phone,
		prefs,
		profile.Language,
		profile.BusinessName,
		profile.BusinessType,
		profile.BusinessDescription,
		profile.BusinessAddress,
		profile.BusinessWebsite,
		profile.BusinessPhone,
		profile.BusinessEmail,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, profile.UserID)
		}
		log.Error("failed to create profile",
			slog.String("error", err.Error()),
			slog.String("user_id", profile.UserID.String()))
		return MapError(err)
	}

	log.Debug("profile created", slog.String("user_id", profile.UserID.String()))
	return nil
}

// GetByUserID implements store.ProfileStore.GetByUserID
func (s *ProfileStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT id, user_id, bio, avatar_url, phone, preferences, language,
			business_name, business_type, business_description, business_address,
			business_website, business_phone, business_email, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	var (
		profile domain.Profile
		prefs   sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Bio,
		&profile.AvatarURL,
		&profile.Phone,
		&prefs,
		&profile.Language,
		&profile.BusinessName,
		&profile.BusinessType,
		&profile.BusinessDescription,
		&profile.BusinessAddress,
		&profile.BusinessWebsite,
		&profile.BusinessPhone,
		&profile.BusinessEmail,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if err := MapError(err); store.IsNotFoundError(err) {
			return nil, store.ErrProfileNotFound
		}
		return nil, MapError(err)
	}

	profile.Preferences, err = decodePreferences(prefs)
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// Update implements store.ProfileStore.Update
func (s *ProfileStore) Update(ctx context.Context, profile *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		return err
	}

	prefs, err := encodePreferences(profile.Preferences)
	if err != nil {
		return err
	}

	query := `
		UPDATE profiles
		SET bio = $2, avatar_url = $3, phone = $4, preferences = $5,
			language = $6, business_name = $7, business_type = $8,
			business_description = $9, business_address = $10,
			business_website = $11, business_phone = $12, business_email = $13,
			updated_at = now()
		WHERE user_id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		profile.UserID,
		profile.Bio,
		profile.AvatarURL,
		profile.Phone,
		prefs,
		profile.Language,
		profile.BusinessName,
		profile.BusinessType,
		profile.BusinessDescription,
		profile.BusinessAddress,
		profile.BusinessWebsite,
		profile.BusinessPhone,
		profile.BusinessEmail,
	)
	if err != nil {
		log.Error("failed to update profile",
			slog.String("error", err.Error()),
			slog.String("user_id", profile.UserID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "profile"); err != nil {
		return store.ErrProfileNotFound
	}

	log.Debug("profile updated", slog.String("user_id", profile.UserID.String()))
	return nil
}

// encodePreferences serializes the preference set as a JSON string, the
// column's storage format.
func encodePreferences(prefs []domain.Preference) (string, error) {
	if len(prefs) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return "", fmt.Errorf("failed to encode preferences: %w", err)
	}
	return string(data), nil
}

func decodePreferences(raw sql.NullString) ([]domain.Preference, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var prefs []domain.Preference
	if err := json.Unmarshal([]byte(raw.String), &prefs); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	if len(prefs) == 0 {
		return nil, nil
	}
	return prefs, nil
}
