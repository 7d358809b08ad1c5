package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)

	// Request validation errors
	ErrInvalidStep      = errors.New("invalid analysis step")
	ErrUnknownStepType  = errors.New("unknown analysis type")
	ErrDisallowedAction = errors.New("transformation action not allowed for this analysis")
	ErrMissingParam     = errors.New("required transformation parameter missing")
	ErrInvalidOperator  = errors.New("unknown filter operator")

	// Configuration errors
	ErrAmbiguousColumn = errors.New("ambiguous column name")

	// Input errors
	ErrEmptyTable  = errors.New("table has no rows")
	ErrParseFailed = errors.New("input could not be parsed")
)

// Error constructors with context
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidStep, field, reason)
}

func NewMissingParamError(action, param string) error {
	return fmt.Errorf("%w: %s requires %q", ErrMissingParam, action, param)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidStep) ||
		errors.Is(err, ErrUnknownStepType) ||
		errors.Is(err, ErrDisallowedAction) ||
		errors.Is(err, ErrMissingParam) ||
		errors.Is(err, ErrInvalidOperator)
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrAmbiguousColumn)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyTable) || errors.Is(err, ErrParseFailed)
}
