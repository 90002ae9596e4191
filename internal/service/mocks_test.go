package service

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/invitekeeper/internal/model"
)

type MockInviteStore struct {
	mock.Mock
}

func (m *MockInviteStore) SaveInvite(ctx context.Context, data json.RawMessage) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

func (m *MockInviteStore) GetInvite(ctx context.Context, id string) (json.RawMessage, error) {
	args := m.Called(ctx, id)
	data, _ := args.Get(0).(json.RawMessage)
	return data, args.Error(1)
}

func (m *MockInviteStore) GetAllInvites(ctx context.Context) ([]json.RawMessage, error) {
	args := m.Called(ctx)
	invites, _ := args.Get(0).([]json.RawMessage)
	return invites, args.Error(1)
}

func (m *MockInviteStore) DeleteInvite(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockDraftStore struct {
	mock.Mock
}

func (m *MockDraftStore) SaveDraft(ctx context.Context, data json.RawMessage) error {
	return m.Called(ctx, data).Error(0)
}

func (m *MockDraftStore) GetDraft(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	data, _ := args.Get(0).(json.RawMessage)
	return data, args.Error(1)
}

func (m *MockDraftStore) ClearDraft(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) GetToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) SetToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockSessionStore) RemoveToken(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSessionStore) GetCurrentUser(ctx context.Context) (model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockSessionStore) SetCurrentUser(ctx context.Context, user model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockSessionStore) RemoveCurrentUser(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) Generate(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) Validate(token string) error {
	return m.Called(token).Error(0)
}

type MockEncoder struct {
	mock.Mock
}

func (m *MockEncoder) Encode(ctx context.Context, file model.MediaFile) (string, error) {
	args := m.Called(ctx, file)
	return args.String(0), args.Error(1)
}

func (m *MockEncoder) Open(ctx context.Context, ref string) (model.MediaFile, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(model.MediaFile), args.Error(1)
}

func (m *MockEncoder) Release(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}
