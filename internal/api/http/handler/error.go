package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/invitekeeper/internal/apierror"
	"github.com/dtroode/invitekeeper/internal/logger"
	"github.com/dtroode/invitekeeper/internal/model"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewErrorHandler renders errors returned by handlers and middleware. Only
// APIError messages reach the client; anything else becomes a generic 500.
func NewErrorHandler(logger *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if apiErr, ok := apierror.As(err); ok {
			return c.Status(apiErr.HTTPCode).JSON(ErrorResponse{Error: apiErr.Title, Message: apiErr.Message})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{Error: http.StatusText(fiberErr.Code), Message: fiberErr.Message})
		}

		switch {
		case errors.Is(err, model.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Not found", Message: "resource not found"})
		case errors.Is(err, model.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Bad request", Message: "invalid request"})
		}

		logger.Error("HTTP handler: unexpected error", "method", c.Method(), "path", c.Path(), "error", err)
		internal := apierror.NewErrInternalServerError(err)
		return c.Status(internal.HTTPCode).JSON(ErrorResponse{Error: internal.Title, Message: internal.Message})
	}
}
