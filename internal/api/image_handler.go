package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/elchalten/connect-api/internal/api/shared"
	"github.com/elchalten/connect-api/internal/domain"
	"github.com/elchalten/connect-api/internal/store"
)

// CreateImageRequest defines the payload for attaching an image to a place.
type CreateImageRequest struct {
	PlaceID   uuid.UUID `json:"place_id"   validate:"required"`
	URL       string    `json:"url"        validate:"required,url"`
	AltText   string    `json:"alt_text"   validate:"omitempty,max=300"`
	Caption   string    `json:"caption"    validate:"omitempty,max=500"`
	IsMain    bool      `json:"is_main"`
	SortOrder int       `json:"sort_order" validate:"gte=0"`
}

// UpdateImageRequest defines the payload for updating an image.
// Nil fields are left unchanged.
type UpdateImageRequest struct {
	URL       *string `json:"url"        validate:"omitempty,url"`
	AltText   *string `json:"alt_text"   validate:"omitempty,max=300"`
	Caption   *string `json:"caption"    validate:"omitempty,max=500"`
	IsMain    *bool   `json:"is_main"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,gte=0"`
}

// ReorderImagesRequest defines the payload for reordering a place's
// gallery. The list must cover only images of that place; positions are
// assigned from list order.
type ReorderImagesRequest struct {
	PlaceID  uuid.UUID   `json:"place_id"  validate:"required"`
	ImageIDs []uuid.UUID `json:"image_ids" validate:"required,min=1"`
}

// ImageHandler handles image API requests.
type ImageHandler struct {
	db         *sql.DB
	imageStore store.ImageStore
	validator  *validator.Validate
}

// NewImageHandler creates a new ImageHandler with the given dependencies.
func NewImageHandler(db *sql.DB, imageStore store.ImageStore) *ImageHandler {
	return &ImageHandler{
		db:         db,
		imageStore: imageStore,
		validator:  validator.New(),
	}
}

// Create handles POST /images. Requires authentication.
// Marking the new image as main demotes the current main image in the
// same transaction.
func (h *ImageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateImageRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	image, err := domain.NewImage(req.PlaceID, req.URL)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	image.AltText = req.AltText
	image.Caption = req.Caption
	image.IsMain = req.IsMain
	image.SortOrder = req.SortOrder

	err = store.RunInTransaction(r.Context(), h.db, func(ctx context.Context, tx *sql.Tx) error {
		return h.imageStore.WithTx(tx).Create(ctx, image)
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, image)
}

// List handles GET /images. Public. An optional place_id query parameter
// narrows the listing to one place's gallery.
func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePage(r, store.DefaultPage.Limit)

	var placeID *uuid.UUID
	if raw := r.URL.Query().Get("place_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid place_id")
			return
		}
		placeID = &id
	}

	images, err := h.imageStore.List(r.Context(), placeID, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list images")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, images)
}

// Get handles GET /images/{id}. Public.
func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	image, err := h.imageStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, image)
}

// Update handles PUT /images/{id}. Requires authentication.
func (h *ImageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateImageRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	image, err := h.imageStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if req.URL != nil {
		image.URL = *req.URL
	}
	if req.AltText != nil {
		image.AltText = *req.AltText
	}
	if req.Caption != nil {
		image.Caption = *req.Caption
	}
	if req.IsMain != nil {
		image.IsMain = *req.IsMain
	}
	if req.SortOrder != nil {
		image.SortOrder = *req.SortOrder
	}

	if err := image.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	err = store.RunInTransaction(r.Context(), h.db, func(ctx context.Context, tx *sql.Tx) error {
		return h.imageStore.WithTx(tx).Update(ctx, image)
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, image)
}

// Delete handles DELETE /images/{id}. Requires authentication.
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.imageStore.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// Reorder handles PUT /images/reorder. Requires authentication.
// Either every position is applied or none is.
func (h *ImageHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderImagesRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	var reordered []*domain.Image
	err := store.RunInTransaction(r.Context(), h.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		reordered, err = h.imageStore.WithTx(tx).Reorder(ctx, req.PlaceID, req.ImageIDs)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			shared.RespondWithError(
				w,
				r,
				http.StatusBadRequest,
				"Some image IDs are invalid or do not belong to this place",
			)
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reordered)
}
