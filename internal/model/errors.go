package model

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrStorage         = errors.New("storage write failed")
	ErrQuotaExceeded   = errors.New("storage quota exceeded")
	ErrEncoding        = errors.New("media encoding failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrMalformed       = errors.New("malformed payload")
)
