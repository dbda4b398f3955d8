package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/elchalten/connect-api/internal/api/shared"
	"github.com/elchalten/connect-api/internal/domain"
	"github.com/elchalten/connect-api/internal/store"
)

// CreateReviewRequest defines the payload for reviewing a place. The
// author is always the authenticated caller.
type CreateReviewRequest struct {
	PlaceID uuid.UUID `json:"place_id" validate:"required"`
	Rating  float64   `json:"rating"   validate:"required,gte=1,lte=5"`
	Title   string    `json:"title"    validate:"omitempty,max=200"`
	Comment string    `json:"comment"  validate:"omitempty,max=2000"`
}

// UpdateReviewRequest defines the payload for updating a review.
// Nil fields are left unchanged.
type UpdateReviewRequest struct {
	Rating  *float64 `json:"rating"  validate:"omitempty,gte=1,lte=5"`
	Title   *string  `json:"title"   validate:"omitempty,max=200"`
	Comment *string  `json:"comment" validate:"omitempty,max=2000"`
}

// ReviewHandler handles review API requests.
type ReviewHandler struct {
	reviewStore store.ReviewStore
	validator   *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler with the given store.
func NewReviewHandler(reviewStore store.ReviewStore) *ReviewHandler {
	return &ReviewHandler{
		reviewStore: reviewStore,
		validator:   validator.New(),
	}
}

// Create handles POST /reviews. Any authenticated active user may review
// a place, once per place.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	review, err := domain.NewReview(req.PlaceID, identity.UserID, req.Rating, req.Title, req.Comment)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.reviewStore.Create(r.Context(), review); err != nil {
		if errors.Is(err, store.ErrReviewExists) {
			shared.RespondWithError(
				w,
				r,
				http.StatusConflict,
				"You have already reviewed this place",
			)
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, review)
}

// Get handles GET /reviews/{id}. Public.
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	review, err := h.reviewStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, review)
}

// ListByPlace handles GET /reviews/place/{id}. Public, newest first.
func (h *ReviewHandler) ListByPlace(w http.ResponseWriter, r *http.Request) {
	placeID, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}
	page := shared.ParsePage(r, store.DefaultPage.Limit)

	reviews, err := h.reviewStore.ListByPlace(r.Context(), placeID, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list reviews")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviews)
}

// ListMine handles GET /reviews/user/me.
func (h *ReviewHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	page := shared.ParsePage(r, store.DefaultPage.Limit)

	reviews, err := h.reviewStore.ListByUser(r.Context(), identity.UserID, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list reviews")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviews)
}

// Update handles PUT /reviews/{id}. Only the author may edit a review.
// A missing review reads as 404 before any ownership check, so callers
// cannot probe other users' review IDs.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	review, err := h.reviewStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if review.UserID != identity.UserID {
		shared.RespondWithError(w, r, http.StatusForbidden, "Not enough permissions")
		return
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Title != nil {
		review.Title = *req.Title
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := review.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.reviewStore.Update(r.Context(), review); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, review)
}

// Delete handles DELETE /reviews/{id}. Only the authoring user may
// delete a review. As with Update, a missing review reads as 404 first.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	review, err := h.reviewStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if review.UserID != identity.UserID {
		shared.RespondWithError(w, r, http.StatusForbidden, "Not enough permissions")
		return
	}

	if err := h.reviewStore.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
