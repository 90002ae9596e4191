package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/invitekeeper/internal/model"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("disk gone")

	tests := []struct {
		name     string
		err      *APIError
		wantCode int
		wantIs   error
	}{
		{name: "invite not found", err: NewErrInviteNotFound("inv-1"), wantCode: http.StatusNotFound, wantIs: model.ErrNotFound},
		{name: "unreadable invite", err: NewErrInviteUnreadable("inv-1", cause), wantCode: http.StatusUnprocessableEntity, wantIs: model.ErrMalformed},
		{name: "cover not found", err: NewErrCoverNotFound("inv-1"), wantCode: http.StatusNotFound, wantIs: model.ErrNotFound},
		{name: "validation", err: NewErrValidation("Bad", "bad"), wantCode: http.StatusBadRequest, wantIs: model.ErrValidation},
		{name: "storage", err: NewErrStorage("save invite", cause), wantCode: http.StatusInternalServerError, wantIs: cause},
		{name: "quota", err: NewErrStorage("save invite", model.ErrQuotaExceeded), wantCode: http.StatusInsufficientStorage, wantIs: model.ErrQuotaExceeded},
		{name: "missing token", err: NewErrMissingAuthorizationToken(), wantCode: http.StatusUnauthorized, wantIs: model.ErrUnauthenticated},
		{name: "invalid token", err: NewErrInvalidAuthorizationToken(), wantCode: http.StatusUnauthorized, wantIs: model.ErrUnauthenticated},
		{name: "bad credentials", err: NewErrAuthenticationFailed(), wantCode: http.StatusUnauthorized, wantIs: model.ErrUnauthenticated},
		{name: "internal", err: NewErrInternalServerError(cause), wantCode: http.StatusInternalServerError, wantIs: cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.HTTPCode)
			assert.NotEmpty(t, tt.err.Title)
			assert.Equal(t, tt.err.Message, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.wantIs)
		})
	}
}

func TestNewErrStorage_Message(t *testing.T) {
	err := NewErrStorage("save invite", errors.New("io"))
	assert.Equal(t, "failed to save invite: storage write failed", err.Message)
	assert.ErrorIs(t, err, model.ErrStorage)

	quota := NewErrStorage("save invite", fmt.Errorf("wrapped: %w", model.ErrQuotaExceeded))
	assert.Contains(t, quota.Message, "storage quota exceeded")
	assert.ErrorIs(t, quota, model.ErrStorage)
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewErrInviteNotFound("inv-1"))

	apiErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "Invite not found", apiErr.Title)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)

	_, ok = As(nil)
	assert.False(t, ok)
}
