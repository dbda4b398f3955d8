package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elchalten/connect-api/internal/api"
	"github.com/elchalten/connect-api/internal/config"
	"github.com/elchalten/connect-api/internal/domain"
	"github.com/elchalten/connect-api/internal/service/auth"
	"github.com/elchalten/connect-api/internal/store"
)

type staticResolver struct {
	token    string
	identity *auth.Identity
}

func (r *staticResolver) Resolve(ctx context.Context, token string) (*auth.Identity, error) {
	if token != r.token {
		return nil, auth.ErrInvalidToken
	}
	return r.identity, nil
}

type stubCategoryStore struct{}

func (s *stubCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	return nil
}

func (s *stubCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return nil, store.ErrCategoryNotFound
}

func (s *stubCategoryStore) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return nil, store.ErrCategoryNotFound
}

func (s *stubCategoryStore) List(
	ctx context.Context,
	isActive *bool,
	page store.Page,
) ([]*domain.Category, error) {
	return nil, nil
}

func (s *stubCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	return store.ErrCategoryNotFound
}

func (s *stubCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	return store.ErrCategoryNotFound
}

func (s *stubCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore { return s }

type stubTrailStatusStore struct{}

func (s *stubTrailStatusStore) Create(ctx context.Context, status *domain.TrailStatus) error {
	return nil
}

func (s *stubTrailStatusStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.TrailStatus, error) {
	return nil, store.ErrTrailStatusNotFound
}

func (s *stubTrailStatusStore) GetCurrent(
	ctx context.Context,
	placeID uuid.UUID,
) (*domain.TrailStatus, error) {
	return nil, store.ErrTrailStatusNotFound
}

func (s *stubTrailStatusStore) History(
	ctx context.Context,
	placeID uuid.UUID,
	page store.Page,
) ([]*domain.TrailStatus, error) {
	return nil, nil
}

func (s *stubTrailStatusStore) Update(ctx context.Context, status *domain.TrailStatus) error {
	return store.ErrTrailStatusNotFound
}

func (s *stubTrailStatusStore) WithTx(tx *sql.Tx) store.TrailStatusStore { return s }

func newTestRouter() http.Handler {
	cfg := &config.Config{}
	handlers := contentHandlers{
		category:    api.NewCategoryHandler(&stubCategoryStore{}),
		trailStatus: api.NewTrailStatusHandler(&stubTrailStatusStore{}),
	}
	resolver := &staticResolver{
		token:    "tourist-token",
		identity: &auth.Identity{UserID: uuid.New(), UserType: domain.UserTypeTourist},
	}
	return newRouter(cfg, handlers, resolver)
}

// Catalog mutations are open to any authenticated user, not just admins.
func TestRouterAllowsAuthenticatedContentMutations(t *testing.T) {
	router := newTestRouter()

	body, err := json.Marshal(map[string]string{"name": "Miradores"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer tourist-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	body, err = json.Marshal(map[string]any{
		"place_id": uuid.New(),
		"status":   "open",
	})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/trail-status", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer tourist-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouterRejectsAnonymousContentMutations(t *testing.T) {
	router := newTestRouter()

	body, err := json.Marshal(map[string]string{"name": "Miradores"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
