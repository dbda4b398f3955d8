package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/elchalten/connect-api/internal/api/shared"
	"github.com/elchalten/connect-api/internal/domain"
	"github.com/elchalten/connect-api/internal/store"
)

// CreateTrailStatusRequest defines the payload for reporting a trail's
// condition. The reporter defaults to the authenticated caller when
// reported_by is omitted.
type CreateTrailStatusRequest struct {
	PlaceID    uuid.UUID  `json:"place_id"    validate:"required"`
	Status     string     `json:"status"      validate:"required,oneof=open partially_open closed maintenance dangerous unknown"`
	Details    string     `json:"details"     validate:"omitempty,max=2000"`
	ValidUntil *time.Time `json:"valid_until"`
	ReportedBy *uuid.UUID `json:"reported_by"`
}

// UpdateTrailStatusRequest defines the payload for correcting a report.
// Nil fields are left unchanged.
type UpdateTrailStatusRequest struct {
	Status     *string    `json:"status"      validate:"omitempty,oneof=open partially_open closed maintenance dangerous unknown"`
	Details    *string    `json:"details"     validate:"omitempty,max=2000"`
	ValidUntil *time.Time `json:"valid_until"`
}

// TrailStatusHandler handles trail status API requests.
type TrailStatusHandler struct {
	trailStatusStore store.TrailStatusStore
	validator        *validator.Validate
}

// NewTrailStatusHandler creates a new TrailStatusHandler with the given
// store.
func NewTrailStatusHandler(trailStatusStore store.TrailStatusStore) *TrailStatusHandler {
	return &TrailStatusHandler{
		trailStatusStore: trailStatusStore,
		validator:        validator.New(),
	}
}

// Create handles POST /trail-status. Requires authentication.
func (h *TrailStatusHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req CreateTrailStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	status, err := domain.NewTrailStatus(req.PlaceID, domain.TrailStatusType(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	status.Details = req.Details
	status.ValidUntil = req.ValidUntil
	if req.ReportedBy != nil {
		status.ReportedBy = req.ReportedBy
	} else {
		reporter := identity.UserID
		status.ReportedBy = &reporter
	}

	if err := h.trailStatusStore.Create(r.Context(), status); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, status)
}

// GetCurrent handles GET /trail-status/place/{id}/current. Public.
// The current report is the most recently updated one for the place.
func (h *TrailStatusHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	placeID, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	status, err := h.trailStatusStore.GetCurrent(r.Context(), placeID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, status)
}

// History handles GET /trail-status/place/{id}/history. Public, most
// recent first.
func (h *TrailStatusHandler) History(w http.ResponseWriter, r *http.Request) {
	placeID, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}
	page := shared.ParsePage(r, 10)

	history, err := h.trailStatusStore.History(r.Context(), placeID, page)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, history)
}

// Get handles GET /trail-status/{id}. Public.
func (h *TrailStatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	status, err := h.trailStatusStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, status)
}

// Update handles PUT /trail-status/{id}. Requires authentication.
// The correction bumps LastUpdated, which may make this report
// the current one again.
func (h *TrailStatusHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTrailStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	status, err := h.trailStatusStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if req.Status != nil {
		status.Status = domain.TrailStatusType(*req.Status)
	}
	if req.Details != nil {
		status.Details = *req.Details
	}
	if req.ValidUntil != nil {
		status.ValidUntil = req.ValidUntil
	}

	if err := status.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.trailStatusStore.Update(r.Context(), status); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	updated, err := h.trailStatusStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}
