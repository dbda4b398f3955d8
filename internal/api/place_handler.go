package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/elchalten/connect-api/internal/api/shared"
	"github.com/elchalten/connect-api/internal/domain"
	"github.com/elchalten/connect-api/internal/slug"
	"github.com/elchalten/connect-api/internal/store"
)

// CreatePlaceRequest defines the payload for creating a place.
type CreatePlaceRequest struct {
	Name             string   `json:"name"              validate:"required,min=1,max=200"`
	Description      string   `json:"description"       validate:"required,min=1"`
	ShortDescription string   `json:"short_description" validate:"omitempty,max=500"`
	PlaceType        string   `json:"place_type"        validate:"required,oneof=attraction restaurant accommodation activity trail viewpoint other"`
	Latitude         *float64 `json:"latitude"          validate:"omitempty,gte=-90,lte=90"`
	Longitude        *float64 `json:"longitude"         validate:"omitempty,gte=-180,lte=180"`
	Address          string   `json:"address"           validate:"omitempty,max=300"`
	IsActive         *bool    `json:"is_active"`
	IsFeatured       *bool    `json:"is_featured"`
	DifficultyLevel  *string  `json:"difficulty_level"  validate:"omitempty,oneof=easy moderate difficult very_difficult extreme"`
	DurationMinutes  *int     `json:"duration_minutes"  validate:"omitempty,gt=0"`
	DistanceKm       *float64 `json:"distance_km"       validate:"omitempty,gt=0"`
	ElevationGainM   *int     `json:"elevation_gain_m"  validate:"omitempty,gte=0"`
	BusinessHours    string   `json:"business_hours"    validate:"omitempty,max=200"`
	ContactPhone     string   `json:"contact_phone"     validate:"omitempty,max=50"`
	ContactEmail     string   `json:"contact_email"     validate:"omitempty,email"`
	Website          string   `json:"website"           validate:"omitempty,url"`

	CategoryIDs []uuid.UUID `json:"category_ids"`
}

// UpdatePlaceRequest defines the payload for updating a place.
// Nil fields are left unchanged; a non-nil CategoryIDs replaces the full
// association set.
type UpdatePlaceRequest struct {
	Name             *string  `json:"name"              validate:"omitempty,min=1,max=200"`
	Description      *string  `json:"description"       validate:"omitempty,min=1"`
	ShortDescription *string  `json:"short_description" validate:"omitempty,max=500"`
	PlaceType        *string  `json:"place_type"        validate:"omitempty,oneof=attraction restaurant accommodation activity trail viewpoint other"`
	Latitude         *float64 `json:"latitude"          validate:"omitempty,gte=-90,lte=90"`
	Longitude        *float64 `json:"longitude"         validate:"omitempty,gte=-180,lte=180"`
	Address          *string  `json:"address"           validate:"omitempty,max=300"`
	IsActive         *bool    `json:"is_active"`
	IsFeatured       *bool    `json:"is_featured"`
	DifficultyLevel  *string  `json:"difficulty_level"  validate:"omitempty,oneof=easy moderate difficult very_difficult extreme"`
	DurationMinutes  *int     `json:"duration_minutes"  validate:"omitempty,gt=0"`
	DistanceKm       *float64 `json:"distance_km"       validate:"omitempty,gt=0"`
	ElevationGainM   *int     `json:"elevation_gain_m"  validate:"omitempty,gte=0"`
	BusinessHours    *string  `json:"business_hours"    validate:"omitempty,max=200"`
	ContactPhone     *string  `json:"contact_phone"     validate:"omitempty,max=50"`
	ContactEmail     *string  `json:"contact_email"     validate:"omitempty,email"`
	Website          *string  `json:"website"           validate:"omitempty,url"`

	CategoryIDs *[]uuid.UUID `json:"category_ids"`
}

// PlaceHandler handles place API requests.
type PlaceHandler struct {
	db         *sql.DB
	placeStore store.PlaceStore
	validator  *validator.Validate
}

// NewPlaceHandler creates a new PlaceHandler with the given dependencies.
func NewPlaceHandler(db *sql.DB, placeStore store.PlaceStore) *PlaceHandler {
	return &PlaceHandler{
		db:         db,
		placeStore: placeStore,
		validator:  validator.New(),
	}
}

// Create handles POST /places. Requires authentication.
// A slug collision caused by a concurrent insert is retried exactly once
// with a timestamp-suffixed slug; a second collision surfaces as a
// conflict.
func (h *PlaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePlaceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	place, err := domain.NewPlace(req.Name, req.Description, domain.PlaceType(req.PlaceType))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	applyPlaceCreateRequest(place, &req)

	err = h.createWithSlugRetry(r.Context(), place)
	if err != nil {
		if errors.Is(err, store.ErrSlugExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Slug already exists")
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	created, err := h.placeStore.GetByID(r.Context(), place.ID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// List handles GET /places. Public.
func (h *PlaceHandler) List(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePage(r, store.DefaultPage.Limit)

	filters := store.PlaceFilters{
		IsActive:   shared.ParseBoolParam(r, "is_active"),
		IsFeatured: shared.ParseBoolParam(r, "is_featured"),
		Search:     r.URL.Query().Get("search"),
	}
	if filters.IsActive == nil {
		// Inactive places stay hidden unless callers ask for them.
		active := true
		filters.IsActive = &active
	}
	if raw := r.URL.Query().Get("place_type"); raw != "" {
		placeType := domain.PlaceType(raw)
		if !placeType.Valid() {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid place_type")
			return
		}
		filters.PlaceType = &placeType
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid category_id")
			return
		}
		filters.CategoryID = &categoryID
	}

	places, err := h.placeStore.List(r.Context(), filters, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list places")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, places)
}

// Get handles GET /places/{id}. Public.
func (h *PlaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	place, err := h.placeStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, place)
}

// GetBySlug handles GET /places/slug/{slug}. Public.
func (h *PlaceHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")
	if slugParam == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid slug")
		return
	}

	place, err := h.placeStore.GetBySlug(r.Context(), slugParam)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, place)
}

// Update handles PUT /places/{id}. Requires authentication.
func (h *PlaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdatePlaceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	place, err := h.placeStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	applyPlaceUpdateRequest(place, &req)

	if err := place.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	replaceCategories := req.CategoryIDs != nil
	err = store.RunInTransaction(r.Context(), h.db, func(ctx context.Context, tx *sql.Tx) error {
		return h.placeStore.WithTx(tx).Update(ctx, place, replaceCategories)
	})
	if err != nil {
		if errors.Is(err, store.ErrSlugExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Slug already exists")
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	updated, err := h.placeStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}

// Delete handles DELETE /places/{id}. Requires authentication.
// Images and reviews cascade with the place.
func (h *PlaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.placeStore.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// createWithSlugRetry inserts the place, retrying once with a suffixed
// slug when a concurrent insert claimed the derived slug between the
// availability check and the insert.
func (h *PlaceHandler) createWithSlugRetry(ctx context.Context, place *domain.Place) error {
	err := store.RunInTransaction(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		return h.placeStore.WithTx(tx).Create(ctx, place)
	})
	if !errors.Is(err, store.ErrSlugExists) {
		return err
	}

	place.Slug = slug.NextSuffix(slug.Make(place.Name))
	return store.RunInTransaction(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		return h.placeStore.WithTx(tx).Create(ctx, place)
	})
}

func applyPlaceCreateRequest(place *domain.Place, req *CreatePlaceRequest) {
	place.ShortDescription = req.ShortDescription
	place.Latitude = req.Latitude
	place.Longitude = req.Longitude
	place.Address = req.Address
	if req.IsActive != nil {
		place.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		place.IsFeatured = *req.IsFeatured
	}
	if req.DifficultyLevel != nil {
		difficulty := domain.DifficultyLevel(*req.DifficultyLevel)
		place.DifficultyLevel = &difficulty
	}
	place.DurationMinutes = req.DurationMinutes
	place.DistanceKm = req.DistanceKm
	place.ElevationGainM = req.ElevationGainM
	place.BusinessHours = req.BusinessHours
	place.ContactPhone = req.ContactPhone
	place.ContactEmail = req.ContactEmail
	place.Website = req.Website
	place.CategoryIDs = req.CategoryIDs
}

func applyPlaceUpdateRequest(place *domain.Place, req *UpdatePlaceRequest) {
	if req.Name != nil {
		place.Name = *req.Name
	}
	if req.Description != nil {
		place.Description = *req.Description
	}
	if req.ShortDescription != nil {
		place.ShortDescription = *req.ShortDescription
	}
	if req.PlaceType != nil {
		place.PlaceType = domain.PlaceType(*req.PlaceType)
	}
	if req.Latitude != nil {
		place.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		place.Longitude = req.Longitude
	}
	if req.Address != nil {
		place.Address = *req.Address
	}
	if req.IsActive != nil {
		place.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		place.IsFeatured = *req.IsFeatured
	}
	if req.DifficultyLevel != nil {
		difficulty := domain.DifficultyLevel(*req.DifficultyLevel)
		place.DifficultyLevel = &difficulty
	}
	if req.DurationMinutes != nil {
		place.DurationMinutes = req.DurationMinutes
	}
	if req.DistanceKm != nil {
		place.DistanceKm = req.DistanceKm
	}
	if req.ElevationGainM != nil {
		place.ElevationGainM = req.ElevationGainM
	}
	if req.BusinessHours != nil {
		place.BusinessHours = *req.BusinessHours
	}
	if req.ContactPhone != nil {
		place.ContactPhone = *req.ContactPhone
	}
	if req.ContactEmail != nil {
		place.ContactEmail = *req.ContactEmail
	}
	if req.Website != nil {
		place.Website = *req.Website
	}
	if req.CategoryIDs != nil {
		place.CategoryIDs = *req.CategoryIDs
	}
}
