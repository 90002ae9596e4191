package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/invitekeeper/internal/model"
)

// Claims carries the signed-in user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// JWT implements TokenManager with HMAC-signed tokens.
type JWT struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

const sessionTTL = 24 * time.Hour

var _ model.TokenManager = (*JWT)(nil)

// NewJWT creates a JWT token manager signing with secretKey.
func NewJWT(secretKey string) *JWT {
	return &JWT{
		secretKey: secretKey,
		ttl:       sessionTTL,
		now:       time.Now,
	}
}

// Generate issues a session token for userID.
func (j *JWT) Generate(userID string) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Validate checks the signature and expiry of tokenString.
func (j *JWT) Validate(tokenString string) error {
	_, err := j.Parse(tokenString)
	return err
}

// Parse validates tokenString and returns the user id it was issued for.
func (j *JWT) Parse(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return "", fmt.Errorf("failed to parse session token: %w", errors.Join(model.ErrUnauthenticated, err))
	}
	if !token.Valid || claims.UserID == "" {
		return "", fmt.Errorf("session token is invalid: %w", model.ErrUnauthenticated)
	}
	return claims.UserID, nil
}
