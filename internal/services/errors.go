package services

import "errors"

// Common service errors. Handlers map these onto HTTP statuses: unauthorized
// to 401, validation to 400, data-unavailable to 500, not-found to 404.
var (
	ErrNotFound        = errors.New("record not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrValidation      = errors.New("invalid request parameters")
	ErrDataUnavailable = errors.New("underlying data unavailable")
	ErrInvalidState    = errors.New("invalid status transition")
	ErrDuplicate       = errors.New("duplicate record")
)
