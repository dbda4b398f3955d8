package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elchalten/connect-api/internal/domain"
	"github.com/elchalten/connect-api/internal/slug"
	"github.com/elchalten/connect-api/internal/store"
)

// fakeCategoryStore keeps categories in memory, assigning slugs on create
// like the real store.
type fakeCategoryStore struct {
	categories map[uuid.UUID]*domain.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: make(map[uuid.UUID]*domain.Category)}
}

func (f *fakeCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	for _, existing := range f.categories {
		if existing.Name == category.Name {
			return store.ErrCategoryNameExists
		}
	}
	category.Slug = slug.Make(category.Name)
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, store.ErrCategoryNotFound
	}
	copied := *category
	return &copied, nil
}

func (f *fakeCategoryStore) GetBySlug(ctx context.Context, s string) (*domain.Category, error) {
	for _, category := range f.categories {
		if category.Slug == s {
			copied := *category
			return &copied, nil
		}
	}
	return nil, store.ErrCategoryNotFound
}

func (f *fakeCategoryStore) List(
	ctx context.Context,
	isActive *bool,
	page store.Page,
) ([]*domain.Category, error) {
	out := []*domain.Category{}
	for _, category := range f.categories {
		if isActive != nil && category.IsActive != *isActive {
			continue
		}
		out = append(out, category)
	}
	return out, nil
}

func (f *fakeCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if _, ok := f.categories[category.ID]; !ok {
		return store.ErrCategoryNotFound
	}
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.categories[id]; !ok {
		return store.ErrCategoryNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore { return f }

func TestCategoryHandlerCreate(t *testing.T) {
	categories := newFakeCategoryStore()
	handler := NewCategoryHandler(categories)

	body, err := json.Marshal(CreateCategoryRequest{
		Name:        "Senderos de Montaña",
		Description: "Trails around town",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Category
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "Senderos de Montaña", created.Name)
	assert.Equal(t, "senderos-de-montana", created.Slug)
	assert.True(t, created.IsActive)
}

func TestCategoryHandlerCreateDuplicateName(t *testing.T) {
	categories := newFakeCategoryStore()
	handler := NewCategoryHandler(categories)

	body, err := json.Marshal(CreateCategoryRequest{Name: "Senderos"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	handler.Create(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestCategoryHandlerCreateMissingName(t *testing.T) {
	handler := NewCategoryHandler(newFakeCategoryStore())

	req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid Name")
}

func TestCategoryHandlerGetBySlug(t *testing.T) {
	categories := newFakeCategoryStore()
	handler := NewCategoryHandler(categories)

	category, err := domain.NewCategory("Senderos", "", "")
	require.NoError(t, err)
	require.NoError(t, categories.Create(context.Background(), category))

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("slug", "senderos")
	req := httptest.NewRequest(http.MethodGet, "/categories/slug/senderos", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rec := httptest.NewRecorder()

	handler.GetBySlug(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var found domain.Category
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&found))
	assert.Equal(t, category.ID, found.ID)
}

func TestCategoryHandlerGetNotFound(t *testing.T) {
	handler := NewCategoryHandler(newFakeCategoryStore())

	req := httptest.NewRequest(http.MethodGet, "/categories/x", nil)
	req = withPathID(req, uuid.New().String())
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Category not found")
}

func TestCategoryHandlerGetInvalidID(t *testing.T) {
	handler := NewCategoryHandler(newFakeCategoryStore())

	req := httptest.NewRequest(http.MethodGet, "/categories/not-a-uuid", nil)
	req = withPathID(req, "not-a-uuid")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoryHandlerUpdate(t *testing.T) {
	categories := newFakeCategoryStore()
	handler := NewCategoryHandler(categories)

	category, err := domain.NewCategory("Senderos", "", "")
	require.NoError(t, err)
	require.NoError(t, categories.Create(context.Background(), category))

	body := []byte(`{"description": "Updated", "is_active": false}`)
	req := httptest.NewRequest(http.MethodPut, "/categories/x", bytes.NewReader(body))
	req = withPathID(req, category.ID.String())
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := categories.GetByID(context.Background(), category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Description)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Senderos", updated.Name)
}

func TestCategoryHandlerDelete(t *testing.T) {
	categories := newFakeCategoryStore()
	handler := NewCategoryHandler(categories)

	category, err := domain.NewCategory("Senderos", "", "")
	require.NoError(t, err)
	require.NoError(t, categories.Create(context.Background(), category))

	req := httptest.NewRequest(http.MethodDelete, "/categories/x", nil)
	req = withPathID(req, category.ID.String())
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err = categories.GetByID(context.Background(), category.ID)
	assert.ErrorIs(t, err, store.ErrCategoryNotFound)
}
