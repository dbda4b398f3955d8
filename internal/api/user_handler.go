package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/elchalten/connect-api/internal/api/shared"
	"github.com/elchalten/connect-api/internal/domain"
	"github.com/elchalten/connect-api/internal/service/auth"
	"github.com/elchalten/connect-api/internal/store"
)

// UserHandler handles account and profile API requests for the users
// service.
type UserHandler struct {
	db               *sql.DB
	userStore        store.UserStore
	profileStore     store.ProfileStore
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	validator        *validator.Validate
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(
	db *sql.DB,
	userStore store.UserStore,
	profileStore store.ProfileStore,
	jwtService auth.JWTService,
	passwordHasher auth.PasswordHasher,
	passwordVerifier auth.PasswordVerifier,
) *UserHandler {
	return &UserHandler{
		db:               db,
		userStore:        userStore,
		profileStore:     profileStore,
		jwtService:       jwtService,
		passwordHasher:   passwordHasher,
		passwordVerifier: passwordVerifier,
		validator:        validator.New(),
	}
}

// Register handles POST /users. It creates the account and its empty
// profile in one transaction so no account ever exists without a profile.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Email, req.Password, req.FirstName, req.LastName,
		domain.UserType(req.UserType))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	hashed, err := h.passwordHasher.Hash(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = store.RunInTransaction(r.Context(), h.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := h.userStore.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		profile := domain.NewProfile(user.ID)
		return h.profileStore.WithTx(tx).Create(ctx, profile)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already registered")
			return
		}
		slog.Error("failed to create user", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, user)
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		slog.Error("failed to get user by email", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	if !user.IsActive {
		shared.RespondWithError(w, r, http.StatusForbidden, "Inactive user")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "user_id", user.ID)
		shared.RespondWithError(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to generate authentication token",
		)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	user, err := h.userStore.GetByID(r.Context(), identity.UserID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// List handles GET /users. Admin only, enforced by the router.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePage(r, store.DefaultPage.Limit)

	users, err := h.userStore.List(r.Context(), page)
	if err != nil {
		slog.Error("failed to list users", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to list users")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, users)
}

// Get handles GET /users/{id}. Owners and admins only.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	if !identity.CanAccess(id) {
		shared.RespondWithError(w, r, http.StatusForbidden, "Not enough permissions")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// Update handles PUT /users/{id}. Owners may change their own names and
// password; role and activation flags require admin.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	if !identity.CanAccess(id) {
		shared.RespondWithError(w, r, http.StatusForbidden, "Not enough permissions")
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if (req.UserType != nil || req.IsActive != nil || req.IsVerified != nil) && !identity.IsAdmin() {
		shared.RespondWithError(w, r, http.StatusForbidden, "Not enough permissions")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.UserType != nil {
		user.UserType = domain.UserType(*req.UserType)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsVerified != nil {
		user.IsVerified = *req.IsVerified
	}
	if req.Password != nil {
		hashed, err := h.passwordHasher.Hash(*req.Password)
		if err != nil {
			slog.Error("failed to hash password", "error", err, "user_id", user.ID)
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to update user")
			return
		}
		user.HashedPassword = hashed
	}

	if err := h.userStore.Update(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// Delete handles DELETE /users/{id}. Owners and admins only. The profile
// and the user's reviews go with the account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	if !identity.CanAccess(id) {
		shared.RespondWithError(w, r, http.StatusForbidden, "Not enough permissions")
		return
	}

	if err := h.userStore.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// GetProfile handles GET /users/{id}/profile. Owners and admins only.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	if !identity.CanAccess(id) {
		shared.RespondWithError(w, r, http.StatusForbidden, "Not enough permissions")
		return
	}

	profile, err := h.profileStore.GetByUserID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}

// UpdateProfile handles PUT /users/{id}/profile. Owners and admins only.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	if !identity.CanAccess(id) {
		shared.RespondWithError(w, r, http.StatusForbidden, "Not enough permissions")
		return
	}

	var req UpdateProfileRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	profile, err := h.profileStore.GetByUserID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	applyProfileUpdate(profile, &req)

	if err := profile.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.profileStore.Update(r.Context(), profile); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}

func applyProfileUpdate(profile *domain.Profile, req *UpdateProfileRequest) {
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.Preferences != nil {
		prefs := make([]domain.Preference, 0, len(*req.Preferences))
		for _, p := range *req.Preferences {
			prefs = append(prefs, domain.Preference(p))
		}
		profile.Preferences = prefs
	}
	if req.Language != nil {
		profile.Language = *req.Language
	}
	if req.BusinessName != nil {
		profile.BusinessName = *req.BusinessName
	}
	if req.BusinessType != nil {
		profile.BusinessType = *req.BusinessType
	}
	if req.BusinessDescription != nil {
		profile.BusinessDescription = *req.BusinessDescription
	}
	if req.BusinessAddress != nil {
		profile.BusinessAddress = *req.BusinessAddress
	}
	if req.BusinessWebsite != nil {
		profile.BusinessWebsite = *req.BusinessWebsite
	}
	if req.BusinessPhone != nil {
		profile.BusinessPhone = *req.BusinessPhone
	}
	if req.BusinessEmail != nil {
		profile.BusinessEmail = *req.BusinessEmail
	}
}
