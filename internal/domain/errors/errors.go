package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCart        = errors.New("invalid cart")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrBookingNotFound    = fmt.Errorf("booking %w", ErrNotFound)
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrPaymentGateway     = errors.New("payment gateway error")
)

// ValidationError reports a rejected request field.
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

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// CartError lists cart entries that could not be matched against the catalog.
type CartError struct {
	Reason     string
	ServiceIDs []string
}

func (e *CartError) Error() string {
	if len(e.ServiceIDs) == 0 {
		return fmt.Sprintf("invalid cart: %s", e.Reason)
	}
	return fmt.Sprintf("invalid cart: %s: %v", e.Reason, e.ServiceIDs)
}

func (e *CartError) Unwrap() []error { return []error{ErrInvalidCart, ErrValidation} }

// GatewayError wraps a payment provider failure. Message holds the provider detail
// and must only reach logs.
type GatewayError struct {
	Op      string
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	msg := "payment gateway: " + e.Op
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GatewayError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrPaymentGateway, e.Err}
	}
	return []error{ErrPaymentGateway}
}
