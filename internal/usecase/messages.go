package usecase

import (
	"errors"

	"localservices-frontend/internal/infra/api"
)

// FormError is what a form submission shows the user. Err keeps the cause.
type FormError struct {
	Message string
	Err     error
}

func (e *FormError) Error() string { return e.Message }

func (e *FormError) Unwrap() error { return e.Err }

// Message extracts the user-facing text from err.
func Message(err error) string {
	var fe *FormError
	if errors.As(err, &fe) {
		return fe.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// validationOr flattens a field-level error map, else returns fallback.
func validationOr(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.HasValidation() {
		return apiErr.ValidationMessage()
	}
	return fallback
}

// serverErrorOr returns the body's error field, else fallback.
func serverErrorOr(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func formError(msg string, cause error) error {
	return &FormError{Message: msg, Err: cause}
}
