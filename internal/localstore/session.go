package localstore

import (
	"context"

	"github.com/dtroode/invitekeeper/internal/model"
)

// GetToken returns the persisted bearer token, or ErrNotFound.
func (s *Store) GetToken(ctx context.Context) (string, error) {
	return s.GetItem(ctx, model.AuthTokenKey)
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.SetItem(ctx, model.AuthTokenKey, token)
}

func (s *Store) RemoveToken(ctx context.Context) error {
	return s.RemoveItem(ctx, model.AuthTokenKey)
}

// GetCurrentUser returns ErrNotFound when nobody is signed in or the stored
// user cannot be read.
func (s *Store) GetCurrentUser(ctx context.Context) (model.User, error) {
	var user model.User
	if err := s.getJSON(ctx, model.CurrentUserKey, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *Store) SetCurrentUser(ctx context.Context, user model.User) error {
	return s.setJSON(ctx, model.CurrentUserKey, user)
}

func (s *Store) RemoveCurrentUser(ctx context.Context) error {
	return s.RemoveItem(ctx, model.CurrentUserKey)
}
