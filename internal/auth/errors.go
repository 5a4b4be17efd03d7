package auth

import (
	"errors"
	"net/http"
)

var (
	ErrDeviceMissing      = errors.New("device id header is required")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrDeviceUnrecognized = errors.New("device not recognized")
	ErrAccessDenied       = errors.New("access denied")
	ErrNoIdentity         = errors.New("no identity in request context")
)

// StatusFor maps a gatekeeper error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrDeviceMissing):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrDeviceUnrecognized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
