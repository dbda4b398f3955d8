package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithErrorUsesDetailField(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/places", nil)
	rec := httptest.NewRecorder()

	RespondWithError(rec, req, http.StatusNotFound, "Place not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Place not found", body["detail"])
	assert.NotContains(t, body, "error")
}

func TestRespondWithJSONSkipsNilBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/places/x", nil)
	rec := httptest.NewRecorder()

	RespondWithJSON(rec, req, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}
