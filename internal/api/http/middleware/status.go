package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/invitekeeper/internal/apierror"
)

// responseStatus predicts the status the error handler will write. Errors
// returned down the chain are rendered only after every middleware returns.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	if apiErr, ok := apierror.As(err); ok {
		return apiErr.HTTPCode
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}
