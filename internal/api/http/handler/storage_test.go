package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/invitekeeper/internal/apierror"
	"github.com/dtroode/invitekeeper/internal/model"
	"github.com/dtroode/invitekeeper/internal/testutil"
)

func newStorageApp(svc *MockStorageService) *fiber.App {
	h := NewStorage(svc, testutil.MakeNoopLogger())
	app := newTestApp()
	app.Get("/storage", h.Info)
	app.Delete("/storage", h.Clear)
	app.Post("/storage/repair", h.Repair)
	return app
}

func TestStorage_Info(t *testing.T) {
	t.Parallel()

	info := model.StorageInfo{Used: 6 * 1024 * 1024, Available: -1024 * 1024, Total: 5 * 1024 * 1024}
	svc := &MockStorageService{}
	svc.On("GetStorageInfo", mock.Anything).Return(info, nil)

	status, body := doRequest(t, newStorageApp(svc), httptest.NewRequest(http.MethodGet, "/storage", nil))
	require.Equal(t, http.StatusOK, status)

	var got model.StorageInfo
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, info, got)
	assert.Negative(t, got.Available)
}

func TestStorage_Clear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "cleared", wantStatus: http.StatusNoContent},
		{name: "backend failure", err: apierror.NewErrStorage("clear data", errors.New("locked")), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &MockStorageService{}
			svc.On("ClearAllData", mock.Anything).Return(tt.err)

			status, _ := doRequest(t, newStorageApp(svc), httptest.NewRequest(http.MethodDelete, "/storage", nil))
			assert.Equal(t, tt.wantStatus, status)
			svc.AssertExpectations(t)
		})
	}
}

func TestStorage_Repair(t *testing.T) {
	t.Parallel()

	report := model.RepairReport{Added: []string{"orphan"}, Removed: []string{"dangling"}, Indexed: 3}
	svc := &MockStorageService{}
	svc.On("RepairIndex", mock.Anything).Return(report, nil)

	status, body := doRequest(t, newStorageApp(svc), httptest.NewRequest(http.MethodPost, "/storage/repair", nil))
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"added":["orphan"],"removed":["dangling"],"indexed":3}`, string(body))
}
