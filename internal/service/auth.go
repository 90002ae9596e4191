package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/invitekeeper/internal/apierror"
	"github.com/dtroode/invitekeeper/internal/logger"
	"github.com/dtroode/invitekeeper/internal/model"
)

// Auth provides the mock sign-in flow: any well-formed credentials are
// accepted and the resulting user becomes the current user.
type Auth struct {
	sessions model.SessionStore
	tokens   *TokenService
	logger   *logger.Logger
	now      func() time.Time
}

func NewAuth(sessions model.SessionStore, tokenManager model.TokenManager, logger *logger.Logger) *Auth {
	return &Auth{
		sessions: sessions,
		tokens:   NewTokenService(tokenManager, sessions, logger),
		logger:   logger,
		now:      time.Now,
	}
}

// Restore loads the persisted session token.
func (a *Auth) Restore(ctx context.Context) error {
	return a.tokens.Load(ctx)
}

func (a *Auth) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	a.logger.Debug("Auth service: starting login", "email", email)

	if email == "" || password == "" {
		return model.AuthResult{}, apierror.NewErrValidation("Missing credentials", "Email and password are required")
	}
	if err := validatePassword(password); err != nil {
		return model.AuthResult{}, err
	}

	user, err := a.sessions.GetCurrentUser(ctx)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Warn("Auth service: failed to read current user", "error", err)
	}
	if err != nil || user.Email != email {
		user = a.newUser(NameFromEmail(email), email)
	}

	return a.startSession(ctx, user, "sign in")
}

func (a *Auth) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResult, error) {
	a.logger.Debug("Auth service: starting registration", "email", req.Email)

	if err := ValidateRegistration(req); err != nil {
		return model.AuthResult{}, err
	}

	return a.startSession(ctx, a.newUser(req.Name, req.Email), "register")
}

// Logout drops the session token and the current user.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.tokens.Revoke(ctx); err != nil {
		a.logger.Error("Auth service: failed to revoke token", "error", err)
		return apierror.NewErrStorage("sign out", err)
	}
	if err := a.sessions.RemoveCurrentUser(ctx); err != nil {
		a.logger.Error("Auth service: failed to remove current user", "error", err)
		return apierror.NewErrStorage("sign out", err)
	}

	a.logger.Info("Auth service: logged out")
	return nil
}

// GetProfile returns the current user, or the demo user when nobody signed in.
func (a *Auth) GetProfile(ctx context.Context) (model.User, error) {
	user, err := resolveUser(ctx, a.sessions, a.now)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return user, nil
}

func (a *Auth) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (model.User, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return model.User{}, apierror.NewErrValidation("Invalid name", "Name must not be empty")
	}
	if update.Email != nil {
		if err := validateEmail(*update.Email); err != nil {
			return model.User{}, err
		}
	}

	user, err := a.GetProfile(ctx)
	if err != nil {
		return model.User{}, err
	}

	setIf(&user.Name, update.Name)
	setIf(&user.Email, update.Email)
	user.UpdatedAt = model.FormatTime(a.now())

	if err := a.sessions.SetCurrentUser(ctx, user); err != nil {
		a.logger.Error("Auth service: failed to save profile", "error", err)
		return model.User{}, apierror.NewErrStorage("update profile", err)
	}
	return user, nil
}

func (a *Auth) IsAuthenticated() bool {
	return a.tokens.Current() != ""
}

// Token returns the current session token, or "" when signed out.
func (a *Auth) Token() string {
	return a.tokens.Current()
}

func (a *Auth) ValidateToken(_ context.Context, token string) error {
	return a.tokens.Validate(token)
}

func (a *Auth) startSession(ctx context.Context, user model.User, action string) (model.AuthResult, error) {
	if err := a.sessions.SetCurrentUser(ctx, user); err != nil {
		a.logger.Error("Auth service: failed to save current user", "email", user.Email, "error", err)
		return model.AuthResult{}, apierror.NewErrStorage(action, err)
	}

	token, err := a.tokens.Issue(ctx, user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token", "email", user.Email, "error", err)
		return model.AuthResult{}, apierror.NewErrStorage(action, err)
	}

	a.logger.Info("Auth service: session started", "user_id", user.ID, "action", action)
	return model.AuthResult{Token: token, User: user}, nil
}

func (a *Auth) newUser(name, email string) model.User {
	now := model.FormatTime(a.now())
	return model.User{
		ID:          uuid.NewString(),
		Name:        name,
		Email:       email,
		OftenUserID: rand.IntN(10000),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NameFromEmail derives a display name from the local part of email:
// "john.doe@x.io" becomes "John Doe".
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")

	var b strings.Builder
	prev := ' '
	for _, r := range local {
		switch {
		case !isASCIIAlnum(r):
			r = ' '
		case prev == ' ' && 'a' <= r && r <= 'z':
			r = r - 'a' + 'A'
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func isASCIIAlnum(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

// DefaultUser is the profile shown before anyone signs in.
func DefaultUser(now time.Time) model.User {
	ts := model.FormatTime(now)
	return model.User{
		ID:          model.DefaultUserID,
		Name:        model.DefaultUserName,
		Email:       model.DefaultUserEmail,
		OftenUserID: model.DefaultUserOftenUserID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

// resolveUser returns the current user, falling back to DefaultUser when
// none is stored or it cannot be read.
func resolveUser(ctx context.Context, sessions model.SessionStore, now func() time.Time) (model.User, error) {
	user, err := sessions.GetCurrentUser(ctx)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, model.ErrNotFound) {
		return DefaultUser(now()), nil
	}
	return DefaultUser(now()), err
}
