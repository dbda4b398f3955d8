package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elchalten/connect-api/internal/store"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected store.Page
	}{
		{"defaults", "/places", store.Page{Skip: 0, Limit: 100}},
		{"explicit", "/places?skip=20&limit=10", store.Page{Skip: 20, Limit: 10}},
		{"negative_skip", "/places?skip=-5", store.Page{Skip: 0, Limit: 100}},
		{"zero_limit", "/places?limit=0", store.Page{Skip: 0, Limit: 100}},
		{"garbage", "/places?skip=abc&limit=xyz", store.Page{Skip: 0, Limit: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			assert.Equal(t, tt.expected, ParsePage(req, 100))
		})
	}
}

func TestParsePageCustomDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/trail-status/place/x/history", nil)
	assert.Equal(t, store.Page{Skip: 0, Limit: 10}, ParsePage(req, 10))
}

func TestParseBoolParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/categories?is_active=true", nil)
	value := ParseBoolParam(req, "is_active")
	require.NotNil(t, value)
	assert.True(t, *value)

	req = httptest.NewRequest(http.MethodGet, "/categories?is_active=false", nil)
	value = ParseBoolParam(req, "is_active")
	require.NotNil(t, value)
	assert.False(t, *value)

	req = httptest.NewRequest(http.MethodGet, "/categories", nil)
	assert.Nil(t, ParseBoolParam(req, "is_active"))

	req = httptest.NewRequest(http.MethodGet, "/categories?is_active=maybe", nil)
	assert.Nil(t, ParseBoolParam(req, "is_active"))
}
