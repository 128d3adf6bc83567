package service

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Handlers map these to HTTP
// status codes at the request boundary; none are fatal to the process.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotPresent         = errors.New("relation does not exist")
	ErrEmptyCart          = errors.New("shopping cart is empty")
	ErrSelfFollow         = errors.New("cannot subscribe to yourself")
	ErrNotOwner           = errors.New("only the author can modify a recipe")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// ValidationError reports a malformed request payload: missing
// ingredients or tags, duplicates, or out-of-range values.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
