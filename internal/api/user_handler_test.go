package api

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

	"github.com/elchalten/connect-api/internal/domain"
	"github.com/elchalten/connect-api/internal/service/auth"
	"github.com/elchalten/connect-api/internal/store"
)

// fakeUserStore keeps users in memory.
type fakeUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
	for _, user := range users {
		f.users[user.ID] = user
	}
	return f
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) List(ctx context.Context, page store.Page) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, user := range f.users {
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return f }

// fakeProfileStore keeps one profile per user.
type fakeProfileStore struct {
	profiles map[uuid.UUID]*domain.Profile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (f *fakeProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	if _, ok := f.profiles[profile.UserID]; ok {
		return store.ErrDuplicate
	}
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfileStore) GetByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.Profile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeProfileStore) Update(ctx context.Context, profile *domain.Profile) error {
	if _, ok := f.profiles[profile.UserID]; !ok {
		return store.ErrProfileNotFound
	}
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfileStore) WithTx(tx *sql.Tx) store.ProfileStore { return f }

// stubJWTService hands out a fixed token.
type stubJWTService struct{}

func (s stubJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "stub-token-" + userID.String(), nil
}

func (s stubJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

// plainHasher "hashes" by prefixing, so tests can seed known credentials
// without paying for bcrypt.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return auth.ErrUnauthenticated
	}
	return nil
}

func newTestUserHandler(users *fakeUserStore, profiles *fakeProfileStore) *UserHandler {
	return NewUserHandler(nil, users, profiles, stubJWTService{}, plainHasher{}, plainHasher{})
}

func seedUser(t *testing.T, password string) *domain.User {
	t.Helper()
	user, err := domain.NewUser("ana@example.com", password, "Ana", "García", domain.UserTypeTourist)
	require.NoError(t, err)
	user.HashedPassword = "hashed:" + password
	user.Password = ""
	return user
}

func TestUserHandlerLogin(t *testing.T) {
	user := seedUser(t, "password123")
	handler := newTestUserHandler(newFakeUserStore(user), newFakeProfileStore())

	body, err := json.Marshal(LoginRequest{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "stub-token-"+user.ID.String(), resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
}

func TestUserHandlerLoginFailures(t *testing.T) {
	tests := []struct {
		name           string
		email          string
		password       string
		inactive       bool
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "wrong_password",
			email:          "ana@example.com",
			password:       "wrong",
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Incorrect email or password",
		},
		{
			name:           "unknown_email",
			email:          "nobody@example.com",
			password:       "password123",
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Incorrect email or password",
		},
		{
			name:           "inactive_user",
			email:          "ana@example.com",
			password:       "password123",
			inactive:       true,
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "Inactive user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := seedUser(t, "password123")
			if tt.inactive {
				user.IsActive = false
			}
			handler := newTestUserHandler(newFakeUserStore(user), newFakeProfileStore())

			body, err := json.Marshal(LoginRequest{Email: tt.email, Password: tt.password})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/users/login", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedMsg)
		})
	}
}

func TestUserHandlerMeHidesCredentials(t *testing.T) {
	user := seedUser(t, "password123")
	handler := newTestUserHandler(newFakeUserStore(user), newFakeProfileStore())

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req = withIdentity(req, &auth.Identity{UserID: user.ID, UserType: user.UserType})
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ana@example.com")
	assert.NotContains(t, rec.Body.String(), "hashed:")
	assert.NotContains(t, rec.Body.String(), "password123")
}

func TestUserHandlerGetAuthorization(t *testing.T) {
	user := seedUser(t, "password123")

	tests := []struct {
		name           string
		identity       *auth.Identity
		expectedStatus int
	}{
		{
			name:           "owner",
			identity:       &auth.Identity{UserID: user.ID, UserType: domain.UserTypeTourist},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "admin",
			identity:       &auth.Identity{UserID: uuid.New(), UserType: domain.UserTypeAdmin},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "stranger",
			identity:       &auth.Identity{UserID: uuid.New(), UserType: domain.UserTypeTourist},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestUserHandler(newFakeUserStore(user), newFakeProfileStore())

			req := httptest.NewRequest(http.MethodGet, "/users/x", nil)
			req = withIdentity(req, tt.identity)
			req = withPathID(req, user.ID.String())
			rec := httptest.NewRecorder()

			handler.Get(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestUserHandlerUpdateRoleRequiresAdmin(t *testing.T) {
	user := seedUser(t, "password123")
	users := newFakeUserStore(user)
	handler := newTestUserHandler(users, newFakeProfileStore())

	body := []byte(`{"user_type": "admin"}`)
	req := httptest.NewRequest(http.MethodPut, "/users/x", bytes.NewReader(body))
	req = withIdentity(req, &auth.Identity{UserID: user.ID, UserType: domain.UserTypeTourist})
	req = withPathID(req, user.ID.String())
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	// An admin may promote the account.
	req = httptest.NewRequest(http.MethodPut, "/users/x", bytes.NewReader(body))
	req = withIdentity(req, &auth.Identity{UserID: uuid.New(), UserType: domain.UserTypeAdmin})
	req = withPathID(req, user.ID.String())
	rec = httptest.NewRecorder()

	handler.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserTypeAdmin, updated.UserType)
}

func TestUserHandlerUpdateOwnName(t *testing.T) {
	user := seedUser(t, "password123")
	users := newFakeUserStore(user)
	handler := newTestUserHandler(users, newFakeProfileStore())

	body := []byte(`{"first_name": "Anita", "password": "new-password"}`)
	req := httptest.NewRequest(http.MethodPut, "/users/x", bytes.NewReader(body))
	req = withIdentity(req, &auth.Identity{UserID: user.ID, UserType: domain.UserTypeTourist})
	req = withPathID(req, user.ID.String())
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anita", updated.FirstName)
	assert.Equal(t, "hashed:new-password", updated.HashedPassword)
}

func TestUserHandlerProfileRoundtrip(t *testing.T) {
	user := seedUser(t, "password123")
	profiles := newFakeProfileStore()
	require.NoError(t, profiles.Create(context.Background(), domain.NewProfile(user.ID)))

	handler := newTestUserHandler(newFakeUserStore(user), profiles)
	owner := &auth.Identity{UserID: user.ID, UserType: domain.UserTypeTourist}

	body := []byte(`{"bio": "Mountain guide", "preferences": ["nature", "photography"]}`)
	req := httptest.NewRequest(http.MethodPut, "/users/x/profile", bytes.NewReader(body))
	req = withIdentity(req, owner)
	req = withPathID(req, user.ID.String())
	rec := httptest.NewRecorder()

	handler.UpdateProfile(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/users/x/profile", nil)
	req = withIdentity(req, owner)
	req = withPathID(req, user.ID.String())
	rec = httptest.NewRecorder()

	handler.GetProfile(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile domain.Profile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&profile))
	assert.Equal(t, "Mountain guide", profile.Bio)
	assert.Equal(
		t,
		[]domain.Preference{domain.PreferenceNature, domain.PreferencePhotography},
		profile.Preferences,
	)
}

func TestUserHandlerUpdateProfileInvalidPreference(t *testing.T) {
	user := seedUser(t, "password123")
	profiles := newFakeProfileStore()
	require.NoError(t, profiles.Create(context.Background(), domain.NewProfile(user.ID)))

	handler := newTestUserHandler(newFakeUserStore(user), profiles)

	body := []byte(`{"preferences": ["shopping"]}`)
	req := httptest.NewRequest(http.MethodPut, "/users/x/profile", bytes.NewReader(body))
	req = withIdentity(req, &auth.Identity{UserID: user.ID, UserType: domain.UserTypeTourist})
	req = withPathID(req, user.ID.String())
	rec := httptest.NewRecorder()

	handler.UpdateProfile(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
