package context

import "context"

type tokenKey struct{}

// Manager stores the authenticated bearer token on request contexts.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetTokenToContext returns a copy of ctx carrying token.
func (m *Manager) SetTokenToContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// GetTokenFromContext reports the token set by SetTokenToContext. An empty
// token counts as missing.
func (m *Manager) GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
