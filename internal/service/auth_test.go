package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/invitekeeper/internal/apierror"
	"github.com/dtroode/invitekeeper/internal/localstore"
	"github.com/dtroode/invitekeeper/internal/model"
	"github.com/dtroode/invitekeeper/internal/storage/memory"
	"github.com/dtroode/invitekeeper/internal/testutil"
	"github.com/dtroode/invitekeeper/internal/token"
)

func newLocalAuth(t *testing.T) (*Auth, *localstore.Store) {
	t.Helper()
	store := localstore.New(memory.New(0), testutil.MakeNoopLogger())
	return NewAuth(store, token.NewOpaque(), testutil.MakeNoopLogger()), store
}

func TestAuth_Login(t *testing.T) {
	ctx := context.Background()
	a, store := newLocalAuth(t)

	result, err := a.Login(ctx, "user@test.com", "abcdef")
	require.NoError(t, err)

	assert.Regexp(t, `^mock_token_[0-9a-z]{13}$`, result.Token)
	assert.Equal(t, "User", result.User.Name)
	assert.Equal(t, "user@test.com", result.User.Email)
	assert.NotEmpty(t, result.User.ID)
	assert.True(t, a.IsAuthenticated())
	assert.Equal(t, result.Token, a.Token())

	persisted, err := store.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Token, persisted)

	current, err := store.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.User, current)
}

func TestAuth_Login_ReusesStoredUser(t *testing.T) {
	ctx := context.Background()
	a, _ := newLocalAuth(t)

	first, err := a.Login(ctx, "john.doe@test.com", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", first.User.Name)

	second, err := a.Login(ctx, "john.doe@test.com", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, first.User, second.User)
	assert.NotEqual(t, first.Token, second.Token)

	// the previous token is no longer the active session
	assert.Error(t, a.ValidateToken(ctx, first.Token))
	assert.NoError(t, a.ValidateToken(ctx, second.Token))

	other, err := a.Login(ctx, "someone@test.com", "abcdef")
	require.NoError(t, err)
	assert.NotEqual(t, first.User.ID, other.User.ID)
}

func TestAuth_Login_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		title    string
	}{
		{name: "missing email", email: "", password: "abcdef", title: "Missing credentials"},
		{name: "missing password", email: "a@b.co", password: "", title: "Missing credentials"},
		{name: "short password", email: "a@b.co", password: "abcde", title: "Invalid password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, store := newLocalAuth(t)

			_, err := a.Login(context.Background(), tt.email, tt.password)
			require.ErrorIs(t, err, model.ErrValidation)

			apiErr, ok := apierror.As(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, apiErr.HTTPCode)
			assert.Equal(t, tt.title, apiErr.Title)
			assert.False(t, a.IsAuthenticated())

			_, err = store.GetToken(context.Background())
			assert.ErrorIs(t, err, model.ErrNotFound)
		})
	}
}

func TestAuth_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     model.RegisterRequest
		wantErr string
	}{
		{name: "ok", req: model.RegisterRequest{Name: "Ana Lopez", Email: "ana@example.com", Password: "secret1"}},
		{name: "missing name", req: model.RegisterRequest{Email: "ana@example.com", Password: "secret1"}, wantErr: "Name, email, and password are required"},
		{name: "bad email", req: model.RegisterRequest{Name: "Ana", Email: "ana@example", Password: "secret1"}, wantErr: "Please provide a valid email address"},
		{name: "short password", req: model.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "12345"}, wantErr: "Password must be at least 6 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newLocalAuth(t)

			result, err := a.Register(ctx, tt.req)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, model.ErrValidation)
				assert.EqualError(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Ana Lopez", result.User.Name)
			assert.Equal(t, "ana@example.com", result.User.Email)
			assert.NoError(t, a.ValidateToken(ctx, result.Token))
		})
	}
}

func TestAuth_Logout(t *testing.T) {
	ctx := context.Background()
	a, store := newLocalAuth(t)

	result, err := a.Login(ctx, "user@test.com", "abcdef")
	require.NoError(t, err)

	require.NoError(t, a.Logout(ctx))
	assert.False(t, a.IsAuthenticated())
	assert.Empty(t, a.Token())
	assert.ErrorIs(t, a.ValidateToken(ctx, result.Token), model.ErrUnauthenticated)

	_, err = store.GetToken(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = store.GetCurrentUser(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAuth_Logout_StorageError(t *testing.T) {
	ctx := context.Background()
	sessions := &MockSessionStore{}
	sessions.On("RemoveToken", ctx).Return(errors.New("disk"))

	a := NewAuth(sessions, token.NewOpaque(), testutil.MakeNoopLogger())
	err := a.Logout(ctx)
	assert.ErrorIs(t, err, model.ErrStorage)
	sessions.AssertNotCalled(t, "RemoveCurrentUser", mock.Anything)
}

func TestAuth_GetProfile(t *testing.T) {
	ctx := context.Background()
	a, _ := newLocalAuth(t)
	a.now = func() time.Time { return time.Date(2025, 5, 21, 12, 0, 0, 0, time.UTC) }

	profile, err := a.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.User{
		ID:          model.DefaultUserID,
		Name:        "Demo User",
		Email:       "demo@example.com",
		OftenUserID: 1000,
		CreatedAt:   "2025-05-21T12:00:00.000Z",
		UpdatedAt:   "2025-05-21T12:00:00.000Z",
	}, profile)

	result, err := a.Login(ctx, "user@test.com", "abcdef")
	require.NoError(t, err)

	profile, err = a.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.User, profile)
}

func TestAuth_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	a, store := newLocalAuth(t)

	_, err := a.Login(ctx, "user@test.com", "abcdef")
	require.NoError(t, err)

	name := "Renamed"
	updated, err := a.UpdateProfile(ctx, model.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "user@test.com", updated.Email)

	current, err := store.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, current)

	bad := "not-an-email"
	_, err = a.UpdateProfile(ctx, model.ProfileUpdate{Email: &bad})
	assert.ErrorIs(t, err, model.ErrValidation)

	empty := "  "
	_, err = a.UpdateProfile(ctx, model.ProfileUpdate{Name: &empty})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestAuth_Restore(t *testing.T) {
	ctx := context.Background()
	store := localstore.New(memory.New(0), testutil.MakeNoopLogger())

	first := NewAuth(store, token.NewOpaque(), testutil.MakeNoopLogger())
	result, err := first.Login(ctx, "user@test.com", "abcdef")
	require.NoError(t, err)

	second := NewAuth(store, token.NewOpaque(), testutil.MakeNoopLogger())
	assert.False(t, second.IsAuthenticated())

	require.NoError(t, second.Restore(ctx))
	assert.True(t, second.IsAuthenticated())
	assert.NoError(t, second.ValidateToken(ctx, result.Token))
}

func TestNameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{email: "user@test.com", want: "User"},
		{email: "john.doe@test.com", want: "John Doe"},
		{email: "mary_ann-smith@x.io", want: "Mary Ann Smith"},
		{email: "a1b@x.io", want: "A1b"},
		{email: "42user@x.io", want: "42user"},
		{email: "josé@x.io", want: "Jos "},
		{email: "noat", want: "Noat"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, NameFromEmail(tt.email))
		})
	}
}
