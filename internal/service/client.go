package service

import (
	"context"
	"fmt"

	"github.com/dtroode/invitekeeper/internal/apierror"
	"github.com/dtroode/invitekeeper/internal/logger"
	"github.com/dtroode/invitekeeper/internal/model"
)

// LocalStore is everything the Client needs from persistence.
type LocalStore interface {
	model.InviteStore
	model.DraftStore
	model.SessionStore
	GetStorageInfo(ctx context.Context) (model.StorageInfo, error)
	Clear(ctx context.Context) error
	RepairIndex(ctx context.Context) (model.RepairReport, error)
}

// Client is the single entry point for invite, draft and session operations.
type Client struct {
	*Invite
	*Auth

	store  LocalStore
	logger *logger.Logger
}

func NewClient(store LocalStore, tokenManager model.TokenManager, encoder MediaEncoder, logger *logger.Logger) *Client {
	return &Client{
		Invite: NewInvite(store, store, store, encoder, logger),
		Auth:   NewAuth(store, tokenManager, logger),
		store:  store,
		logger: logger,
	}
}

func (c *Client) GetStorageInfo(ctx context.Context) (model.StorageInfo, error) {
	info, err := c.store.GetStorageInfo(ctx)
	if err != nil {
		return model.StorageInfo{}, fmt.Errorf("failed to get storage info: %w", err)
	}
	return info, nil
}

// ClearAllData wipes every stored key, signing the user out as a side effect.
func (c *Client) ClearAllData(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return apierror.NewErrStorage("clear data", err)
	}
	c.Auth.tokens.Forget()

	c.logger.Info("Client: all data cleared")
	return nil
}

func (c *Client) RepairIndex(ctx context.Context) (model.RepairReport, error) {
	report, err := c.store.RepairIndex(ctx)
	if err != nil {
		return model.RepairReport{}, apierror.NewErrStorage("repair index", err)
	}
	return report, nil
}
