package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"github.com/dtroode/invitekeeper/internal/logger"
	"github.com/dtroode/invitekeeper/internal/model"
)

// TokenService issues, checks and revokes the session token. It composes the
// TokenManager with the persisted token slot and keeps an in-memory mirror.
type TokenService struct {
	manager model.TokenManager
	store   model.SessionStore
	logger  *logger.Logger

	mu      sync.RWMutex
	current string
}

func NewTokenService(manager model.TokenManager, store model.SessionStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, logger: logger}
}

// Load restores the mirror from the store, typically at startup.
func (s *TokenService) Load(ctx context.Context) error {
	token, err := s.store.GetToken(ctx)
	if errors.Is(err, model.ErrNotFound) {
		token = ""
	} else if err != nil {
		return fmt.Errorf("failed to load session token: %w", err)
	}

	s.mu.Lock()
	s.current = token
	s.mu.Unlock()
	return nil
}

// Issue creates a token for userID, persists it and makes it current.
func (s *TokenService) Issue(ctx context.Context, userID string) (string, error) {
	token, err := s.manager.Generate(userID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.store.SetToken(ctx, token); err != nil {
		return "", fmt.Errorf("failed to persist token: %w", err)
	}

	s.mu.Lock()
	s.current = token
	s.mu.Unlock()

	s.logger.Debug("Token service: token issued", "user_id", userID)
	return token, nil
}

// Revoke forgets the current token. The mirror is cleared even when the
// store fails.
func (s *TokenService) Revoke(ctx context.Context) error {
	s.mu.Lock()
	s.current = ""
	s.mu.Unlock()

	if err := s.store.RemoveToken(ctx); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// Forget clears only the in-memory mirror.
func (s *TokenService) Forget() {
	s.mu.Lock()
	s.current = ""
	s.mu.Unlock()
}

func (s *TokenService) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Validate accepts token only if it is well formed and is the current session token.
func (s *TokenService) Validate(token string) error {
	if token == "" {
		return fmt.Errorf("empty token: %w", model.ErrUnauthenticated)
	}
	if err := s.manager.Validate(token); err != nil {
		return err
	}

	current := s.Current()
	if current == "" || subtle.ConstantTimeCompare([]byte(current), []byte(token)) != 1 {
		return fmt.Errorf("token is not the active session: %w", model.ErrUnauthenticated)
	}
	return nil
}
