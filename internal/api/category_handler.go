package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/elchalten/connect-api/internal/api/shared"
	"github.com/elchalten/connect-api/internal/domain"
	"github.com/elchalten/connect-api/internal/slug"
	"github.com/elchalten/connect-api/internal/store"
)

// CreateCategoryRequest defines the payload for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description"`
	Icon        string `json:"icon" validate:"omitempty,max=100"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateCategoryRequest defines the payload for updating a category.
// Nil fields are left unchanged.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Icon        *string `json:"icon" validate:"omitempty,max=100"`
	IsActive    *bool   `json:"is_active"`
}

// CategoryHandler handles category API requests.
type CategoryHandler struct {
	categoryStore store.CategoryStore
	validator     *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler with the given store.
func NewCategoryHandler(categoryStore store.CategoryStore) *CategoryHandler {
	return &CategoryHandler{
		categoryStore: categoryStore,
		validator:     validator.New(),
	}
}

// Create handles POST /categories. Requires authentication.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	category, err := domain.NewCategory(req.Name, req.Description, req.Icon)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	err = h.categoryStore.Create(r.Context(), category)
	if errors.Is(err, store.ErrSlugExists) {
		// A concurrent insert claimed the derived slug between the
		// availability check and the insert. Retry once with a suffix.
		category.Slug = slug.NextSuffix(slug.Make(category.Name))
		err = h.categoryStore.Create(r.Context(), category)
	}
	if err != nil {
		if errors.Is(err, store.ErrCategoryNameExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Category name already exists")
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, category)
}

// List handles GET /categories. Public.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePage(r, store.DefaultPage.Limit)
	isActive := shared.ParseBoolParam(r, "is_active")

	categories, err := h.categoryStore.List(r.Context(), isActive, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list categories")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, categories)
}

// Get handles GET /categories/{id}. Public.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.categoryStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, category)
}

// GetBySlug handles GET /categories/slug/{slug}. Public.
func (h *CategoryHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")
	if slugParam == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid slug")
		return
	}

	category, err := h.categoryStore.GetBySlug(r.Context(), slugParam)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, category)
}

// Update handles PUT /categories/{id}. Requires authentication.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	category, err := h.categoryStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := category.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.categoryStore.Update(r.Context(), category); err != nil {
		if errors.Is(err, store.ErrCategoryNameExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Category name already exists")
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, category)
}

// Delete handles DELETE /categories/{id}. Requires authentication.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.categoryStore.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
