package services

import (
	"errors"

	"github.com/cvmfinance/orcr-api/internal/auth"
)

// Common service errors
var (
	ErrAuthenticationRequired = auth.ErrAuthenticationRequired
	ErrInvalidCredentials     = auth.ErrInvalidCredentials
	ErrAccountInactive        = auth.ErrAccountInactive
	ErrForbidden              = errors.New("you do not have permission to perform this action")
	ErrNotFound               = errors.New("record not found")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrInvalidState           = errors.New("invalid state")
	ErrValidation             = errors.New("validation failed")
	ErrConflict               = errors.New("could not allocate a unique number, please retry")
)

// ValidationError reports a missing or malformed field
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func validationError(msg string) error {
	return &ValidationError{Message: msg}
}

// KindError carries a human-readable message for one of the sentinel errors above
type KindError struct {
	Kind    error
	Message string
}

func (e *KindError) Error() string {
	return e.Message
}

func (e *KindError) Unwrap() error {
	return e.Kind
}

func invalidTransition(msg string) error {
	return &KindError{Kind: ErrInvalidTransition, Message: msg}
}

func invalidState(msg string) error {
	return &KindError{Kind: ErrInvalidState, Message: msg}
}

func notFoundError(msg string) error {
	return &KindError{Kind: ErrNotFound, Message: msg}
}
