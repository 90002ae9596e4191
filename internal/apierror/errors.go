// Package apierror defines errors whose message is safe to show to users.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dtroode/invitekeeper/internal/model"
)

// APIError is an error with a user-facing message and the HTTP status it maps to.
type APIError struct {
	HTTPCode int
	Title    string
	Message  string
	cause    error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the model sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	return e.cause
}

// As returns the *APIError in err's chain, if any.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func NewErrInviteNotFound(id string) *APIError {
	return &APIError{
		HTTPCode: http.StatusNotFound,
		Title:    "Invite not found",
		Message:  fmt.Sprintf("invite %s not found", id),
		cause:    model.ErrNotFound,
	}
}

// NewErrInviteUnreadable reports a stored invite whose payload no longer
// matches the invite shape. The record itself is left untouched.
func NewErrInviteUnreadable(id string, err error) *APIError {
	return &APIError{
		HTTPCode: http.StatusUnprocessableEntity,
		Title:    "Invite unreadable",
		Message:  fmt.Sprintf("invite %s is stored in a format this server cannot read", id),
		cause:    errors.Join(model.ErrMalformed, err),
	}
}

func NewErrCoverNotFound(id string) *APIError {
	return &APIError{
		HTTPCode: http.StatusNotFound,
		Title:    "Cover not found",
		Message:  fmt.Sprintf("invite %s has no stored cover", id),
		cause:    model.ErrNotFound,
	}
}

func NewErrValidation(title, message string) *APIError {
	return &APIError{
		HTTPCode: http.StatusBadRequest,
		Title:    title,
		Message:  message,
		cause:    model.ErrValidation,
	}
}

func NewErrStorage(action string, err error) *APIError {
	code := http.StatusInternalServerError
	message := fmt.Sprintf("failed to %s: storage write failed", action)
	if errors.Is(err, model.ErrQuotaExceeded) {
		code = http.StatusInsufficientStorage
		message = fmt.Sprintf("failed to %s: storage quota exceeded, delete some invites and retry", action)
	}
	return &APIError{
		HTTPCode: code,
		Title:    "Storage error",
		Message:  message,
		cause:    errors.Join(model.ErrStorage, err),
	}
}

func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{
		HTTPCode: http.StatusUnauthorized,
		Title:    "Unauthorized",
		Message:  "Authentication required",
		cause:    model.ErrUnauthenticated,
	}
}

func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{
		HTTPCode: http.StatusUnauthorized,
		Title:    "Invalid token",
		Message:  "Authentication failed",
		cause:    model.ErrUnauthenticated,
	}
}

func NewErrAuthenticationFailed() *APIError {
	return &APIError{
		HTTPCode: http.StatusUnauthorized,
		Title:    "Authentication failed",
		Message:  "Invalid email or password",
		cause:    model.ErrUnauthenticated,
	}
}

func NewErrInternalServerError(err error) *APIError {
	return &APIError{
		HTTPCode: http.StatusInternalServerError,
		Title:    "Internal server error",
		Message:  "internal server error",
		cause:    err,
	}
}
