package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/invitekeeper/internal/apierror"
	"github.com/dtroode/invitekeeper/internal/logger"
	"github.com/dtroode/invitekeeper/internal/model"
)

// TokenValidator checks a bearer token against the current session.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) error
}

// Authenticate validates bearer tokens and stores them in the request context.
type Authenticate struct {
	validator      TokenValidator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(validator TokenValidator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{validator: validator, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a valid "Authorization: Bearer" header.
func (m *Authenticate) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return apierror.NewErrMissingAuthorizationToken()
	}

	if err := m.validator.ValidateToken(c.UserContext(), token); err != nil {
		m.logger.Debug("Authenticate middleware: token rejected", "path", c.Path(), "error", err)
		return apierror.NewErrInvalidAuthorizationToken()
	}

	c.SetUserContext(m.contextManager.SetTokenToContext(c.UserContext(), token))
	return c.Next()
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
