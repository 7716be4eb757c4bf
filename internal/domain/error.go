package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound               = errors.New("entity not found")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrPasswordMismatch       = errors.New("passwords do not match")
	ErrMissingDocument        = errors.New("verification document required")
	ErrGeolocationUnsupported = errors.New("geolocation not supported")
	ErrNotAuthenticated       = errors.New("not authenticated")
	ErrForbidden              = errors.New("forbidden")
	ErrCancelled              = errors.New("action cancelled")
	ErrStepOutOfOrder         = errors.New("registration step out of order")
)
