// Package apperr defines the closed error taxonomy shared across services,
// repositories and handlers, plus the mapping to HTTP status codes.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrValidation marks missing or malformed caller input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a missing user, OTP or referenced document.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a duplicate email on registration or email change.
	ErrConflict = errors.New("already exists")
	// ErrAuth marks wrong credentials or an invalid/expired OTP.
	ErrAuth = errors.New("authentication failed")
	// ErrForbidden marks an unverified account attempting to log in.
	ErrForbidden = errors.New("forbidden")
	// ErrUpstream marks an identity-provider or payment-processor failure.
	ErrUpstream = errors.New("upstream service error")
	// ErrRateLimited marks an OTP or request rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrInternal marks everything the caller cannot fix.
	ErrInternal = errors.New("internal error")
)

// Status maps a taxonomy error to its HTTP status code. Unknown errors map
// to 500 so nothing internal leaks with a misleading status.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrRateLimited):
		return fiber.StatusTooManyRequests
	case errors.Is(err, ErrUpstream):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
