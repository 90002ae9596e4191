package model

// TokenManager issues and checks bearer tokens.
type TokenManager interface {
	Generate(userID string) (string, error)
	Validate(token string) error
}
