package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_Check(t *testing.T) {
	t.Parallel()

	h := NewHealth("production")
	h.now = func() time.Time { return time.Date(2025, 5, 21, 12, 0, 0, 0, time.UTC) }

	app := newTestApp()
	app.Get("/api/health", h.Check)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "no-cache", resp.Header.Get("Pragma"))
	assert.Equal(t, "0", resp.Header.Get("Expires"))

	var got HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "healthy", got.Status)
	assert.Equal(t, "2025-05-21T12:00:00.000Z", got.Timestamp)
	assert.Equal(t, APIVersion, got.Version)
	assert.Equal(t, "production", got.Environment)
	assert.Equal(t, "operational", got.API.Status)
	assert.Equal(t, "/api/health", got.API.Endpoints["health"])
	assert.True(t, got.Features.Authentication)
	assert.True(t, got.Features.FileUpload)
	assert.False(t, got.Features.RealTimeUpdates)
}
