package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elchalten/connect-api/internal/domain"
	"github.com/elchalten/connect-api/internal/store"
)

// fakeUserStore serves a fixed set of users by ID. Only the methods the
// resolver touches are meaningful.
type fakeUserStore struct {
	users map[uuid.UUID]*domain.User
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error { return nil }

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) List(ctx context.Context, page store.Page) ([]*domain.User, error) {
	return nil, nil
}

func (f *fakeUserStore) Update(ctx context.Context, user *domain.User) error { return nil }
func (f *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore                   { return f }

func TestLocalResolverResolve(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	jwtService := newTestJWTService(func() time.Time { return now })

	userID := uuid.New()
	users := &fakeUserStore{users: map[uuid.UUID]*domain.User{
		userID: {
			ID:       userID,
			UserType: domain.UserTypeBusiness,
			IsActive: true,
		},
	}}

	token, err := jwtService.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	resolver := NewLocalResolver(jwtService, users)

	identity, err := resolver.Resolve(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, domain.UserTypeBusiness, identity.UserType)
	assert.False(t, identity.IsAdmin())
}

func TestLocalResolverUnknownUser(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	jwtService := newTestJWTService(func() time.Time { return now })

	token, err := jwtService.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	resolver := NewLocalResolver(jwtService, &fakeUserStore{users: map[uuid.UUID]*domain.User{}})

	_, err = resolver.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLocalResolverInactiveUser(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	jwtService := newTestJWTService(func() time.Time { return now })

	userID := uuid.New()
	users := &fakeUserStore{users: map[uuid.UUID]*domain.User{
		userID: {
			ID:       userID,
			UserType: domain.UserTypeTourist,
			IsActive: false,
		},
	}}

	token, err := jwtService.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	resolver := NewLocalResolver(jwtService, users)

	_, err = resolver.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestLocalResolverInvalidToken(t *testing.T) {
	jwtService := newTestJWTService(time.Now)
	resolver := NewLocalResolver(jwtService, &fakeUserStore{})

	_, err := resolver.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIdentityCanAccess(t *testing.T) {
	ownerID := uuid.New()

	owner := Identity{UserID: ownerID, UserType: domain.UserTypeTourist}
	admin := Identity{UserID: uuid.New(), UserType: domain.UserTypeAdmin}
	stranger := Identity{UserID: uuid.New(), UserType: domain.UserTypeTourist}

	assert.True(t, owner.CanAccess(ownerID))
	assert.True(t, admin.CanAccess(ownerID))
	assert.False(t, stranger.CanAccess(ownerID))
}
