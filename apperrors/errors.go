package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrSignatureInvalid = errors.New("invalid payment signature")
)

// ValidationError is a user-correctable input problem tied to one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a *ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PaymentProviderError wraps an upstream failure from the payment gateway.
type PaymentProviderError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *PaymentProviderError) Error() string {
	msg := "payment provider error"
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (%d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PaymentProviderError) Unwrap() error { return e.Err }

// NotFound wraps ErrNotFound with the missing entity name.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// HTTPStatus maps an error from the taxonomy to a response code.
func HTTPStatus(err error) int {
	var ve *ValidationError
	var pe *PaymentProviderError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &pe):
		return http.StatusBadGateway
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSignatureInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text shown to the caller. Internal errors are masked.
func PublicMessage(err error) string {
	var ve *ValidationError
	var pe *PaymentProviderError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &pe):
		return "Failed to create payment order, please retry"
	case errors.Is(err, ErrSignatureInvalid):
		return "Payment could not be verified, please contact support"
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	case errors.Is(err, ErrNotFound):
		return err.Error()
	default:
		return "Internal server error"
	}
}
