package trading

import (
	"errors"
	"fmt"
)

// Sentinel error kinds, per spec §7's error taxonomy. Each maps to exactly
// one HTTP status at the httpapi layer.
var (
	ErrValidation           = errors.New("validation")
	ErrInsufficientPosition = errors.New("insufficient position")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInstrumentNotFound   = errors.New("instrument not found")
)

type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

// NewValidationError builds an ErrValidation-kind error with context.
func NewValidationError(msg string) error {
	return &domainError{kind: ErrValidation, msg: msg}
}

// NewInsufficientPositionError builds an ErrInsufficientPosition-kind error.
func NewInsufficientPositionError(msg string) error {
	return &domainError{kind: ErrInsufficientPosition, msg: msg}
}

// NewInsufficientBalanceError builds an ErrInsufficientBalance-kind error.
func NewInsufficientBalanceError(msg string) error {
	return &domainError{kind: ErrInsufficientBalance, msg: msg}
}

// NewInstrumentNotFoundError builds an ErrInstrumentNotFound-kind error.
func NewInstrumentNotFoundError(instrumentID string) error {
	return &domainError{kind: ErrInstrumentNotFound, msg: fmt.Sprintf("instrument not found: %s", instrumentID)}
}

// NewAccountNotFoundError builds the ErrValidation-kind error spec §4.9
// step 1 specifies for a missing account ("account not found for user").
func NewAccountNotFoundError(userID string) error {
	return &domainError{kind: ErrValidation, msg: fmt.Sprintf("account not found for user: %s", userID)}
}
