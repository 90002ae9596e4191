package handler

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/invitekeeper/internal/model"
)

type MockInviteService struct {
	mock.Mock
}

func (m *MockInviteService) CreateInvite(ctx context.Context, req model.CreateInviteRequest) (model.Invite, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.Invite), args.Error(1)
}

func (m *MockInviteService) GetInvite(ctx context.Context, id string) (model.Invite, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Invite), args.Error(1)
}

func (m *MockInviteService) GetInvites(ctx context.Context, page, limit int) (model.InvitePage, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).(model.InvitePage), args.Error(1)
}

func (m *MockInviteService) UpdateInvite(ctx context.Context, id string, req model.UpdateInviteRequest) (model.Invite, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(model.Invite), args.Error(1)
}

func (m *MockInviteService) DeleteInvite(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockInviteService) PublishInvite(ctx context.Context, id string) (model.Invite, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Invite), args.Error(1)
}

func (m *MockInviteService) GetCover(ctx context.Context, id string) (model.MediaFile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.MediaFile), args.Error(1)
}

func (m *MockInviteService) SaveDraft(ctx context.Context, data json.RawMessage) error {
	return m.Called(ctx, data).Error(0)
}

func (m *MockInviteService) GetDraft(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	data, _ := args.Get(0).(json.RawMessage)
	return data, args.Error(1)
}

func (m *MockInviteService) ClearDraft(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.AuthResult), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.AuthResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAuthService) GetProfile(ctx context.Context) (model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (model.User, error) {
	args := m.Called(ctx, update)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) GetStorageInfo(ctx context.Context) (model.StorageInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.StorageInfo), args.Error(1)
}

func (m *MockStorageService) ClearAllData(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStorageService) RepairIndex(ctx context.Context) (model.RepairReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.RepairReport), args.Error(1)
}

type MockContextManager struct {
	mock.Mock
}

func (m *MockContextManager) SetTokenToContext(ctx context.Context, token string) context.Context {
	return m.Called(ctx, token).Get(0).(context.Context)
}

func (m *MockContextManager) GetTokenFromContext(ctx context.Context) (string, bool) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1)
}
