package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoBackend records what it received and answers with a marker body.
type echoBackend struct {
	name     string
	lastPath string
	lastAuth string
}

func (b *echoBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.lastPath = r.URL.Path
		b.lastAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(b.name))
	})
}

func newTestRelay(t *testing.T) (*chi.Mux, *echoBackend, *echoBackend) {
	t.Helper()

	users := &echoBackend{name: "users"}
	content := &echoBackend{name: "content"}

	usersServer := httptest.NewServer(users.handler())
	t.Cleanup(usersServer.Close)
	contentServer := httptest.NewServer(content.handler())
	t.Cleanup(contentServer.Close)

	relay, err := NewRelay(usersServer.URL, contentServer.URL, nil)
	require.NoError(t, err)

	router := chi.NewRouter()
	relay.Routes(router)
	return router, users, content
}

func TestRelayRouting(t *testing.T) {
	tests := []struct {
		name            string
		path            string
		expectedBackend string
		expectedPath    string
	}{
		{"users_collection", "/api/v1/users", "users", "/users"},
		{"users_login", "/api/v1/users/login", "users", "/users/login"},
		{"users_me", "/api/v1/users/me", "users", "/users/me"},
		{"categories", "/api/v1/categories", "content", "/categories"},
		{"place_by_slug", "/api/v1/places/slug/laguna-torre", "content", "/places/slug/laguna-torre"},
		{"images", "/api/v1/images", "content", "/images"},
		{"reviews", "/api/v1/reviews/user/me", "content", "/reviews/user/me"},
		{
			"trail_status",
			"/api/v1/trail-status/place/abc/current",
			"content",
			"/trail-status/place/abc/current",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, users, content := newTestRelay(t)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)

			body, err := io.ReadAll(rec.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedBackend, string(body))

			backend := users
			if tt.expectedBackend == "content" {
				backend = content
			}
			assert.Equal(t, tt.expectedPath, backend.lastPath)
		})
	}
}

func TestRelayForwardsAuthorizationHeader(t *testing.T) {
	router, _, content := newTestRelay(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer some-token", content.lastAuth)
}

func TestRelayUnknownResource(t *testing.T) {
	router, _, _ := newTestRelay(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRelayBackendDown(t *testing.T) {
	// Start and immediately stop a server so the port refuses connections.
	deadServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadServer.Close()

	relay, err := NewRelay(deadServer.URL, deadServer.URL, nil)
	require.NoError(t, err)

	router := chi.NewRouter()
	relay.Routes(router)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/places", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Service unavailable", body.Detail)
}

func TestRelayPassesBackendStatusThrough(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))
	defer backend.Close()

	relay, err := NewRelay(backend.URL, backend.URL, nil)
	require.NoError(t, err)

	router := chi.NewRouter()
	relay.Routes(router)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
