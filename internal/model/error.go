package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is a stable machine-checkable error classification.
type ErrorKind string

// Error kinds surfaced by the API.
const (
	KindValidation        ErrorKind = "VALIDATION_ERROR"
	KindAuthentication    ErrorKind = "AUTHENTICATION_ERROR"
	KindAuthorization     ErrorKind = "AUTHORIZATION_ERROR"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindConflict          ErrorKind = "CONFLICT"
	KindInsufficientStock ErrorKind = "INSUFFICIENT_STOCK"
	KindInvalidState      ErrorKind = "INVALID_STATE"
	KindInternal          ErrorKind = "INTERNAL_ERROR"
)

// DomainError is a business-logic error carrying a stable kind and a
// human-readable message.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// HTTPStatus maps the error kind to an HTTP status code.
func (e *DomainError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindInsufficientStock, KindInvalidState:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewDomainError creates a new domain error.
func NewDomainError(kind ErrorKind, format string, args ...any) *DomainError {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewValidationError creates a validation error.
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(KindValidation, format, args...)
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(format string, args ...any) *DomainError {
	return NewDomainError(KindNotFound, format, args...)
}

// NewInsufficientStockError creates an insufficient-stock error naming the
// product and the quantity still available.
func NewInsufficientStockError(name string, available int) *DomainError {
	return NewDomainError(KindInsufficientStock,
		"insufficient stock for product %q: %d available", name, available)
}

// AsDomainError unwraps err to a DomainError if one is in the chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Common domain errors
var (
	ErrMissingToken   = NewDomainError(KindAuthentication, "authentication required: missing bearer token")
	ErrInvalidToken   = NewDomainError(KindAuthentication, "authentication failed: invalid token")
	ErrExpiredToken   = NewDomainError(KindAuthentication, "authentication failed: token expired")
	ErrForbidden      = NewDomainError(KindAuthorization, "insufficient permissions")
	ErrEmailTaken     = NewDomainError(KindConflict, "email is already registered")
	ErrBadCredentials = NewDomainError(KindAuthentication, "invalid email or password")
	ErrInactiveUser   = NewDomainError(KindAuthentication, "account is deactivated")
)
