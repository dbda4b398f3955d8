package auth

import (
	"context"
	"errors"

	"github.com/elchalten/connect-api/internal/platform/logger"
	"github.com/elchalten/connect-api/internal/store"
)

// LocalResolver verifies tokens with the signing secret and loads the
// user row to confirm the account still exists and is active. Used by
// the users service, which owns the secret.
type LocalResolver struct {
	jwtService JWTService
	userStore  store.UserStore
}

// NewLocalResolver creates an IdentityResolver backed by local token
// verification and the user store.
func NewLocalResolver(jwtService JWTService, userStore store.UserStore) *LocalResolver {
	return &LocalResolver{
		jwtService: jwtService,
		userStore:  userStore,
	}
}

var _ IdentityResolver = (*LocalResolver)(nil)

// Resolve implements IdentityResolver.
func (r *LocalResolver) Resolve(ctx context.Context, token string) (*Identity, error) {
	claims, err := r.jwtService.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := r.userStore.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		logger.FromContext(ctx).Error("failed to load user during identity resolution",
			"error", err,
			"user_id", claims.UserID)
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return &Identity{
		UserID:   user.ID,
		UserType: user.UserType,
	}, nil
}
