package model

import "context"

// SessionStore persists the current user and the bearer token.
type SessionStore interface {
	GetToken(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	RemoveToken(ctx context.Context) error
	GetCurrentUser(ctx context.Context) (User, error)
	SetCurrentUser(ctx context.Context, user User) error
	RemoveCurrentUser(ctx context.Context) error
}

// User is the signed-in user, also embedded as the invite host.
type User struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	ID          string `json:"id"`
	OftenUserID int    `json:"often_user_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Default profile returned before anyone signs in.
const (
	DefaultUserID          = "cbbe60a1-90dd-4df8-8fb4-1c1f4d902675"
	DefaultUserName        = "Demo User"
	DefaultUserEmail       = "demo@example.com"
	DefaultUserOftenUserID = 1000
)
