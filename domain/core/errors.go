package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors raised by the statistical core
	ErrEmptyInput          = errors.New("empty numeric input")
	ErrNoNumericData       = errors.New("no numeric data")
	ErrInsufficientColumns = errors.New("insufficient columns")

	// Configuration errors
	ErrInvalidDetectionConfig = errors.New("invalid detection config")
)

// Error constructors with context
func NewEmptyInputError(op string) error {
	return fmt.Errorf("%w: %s requires at least one value", ErrEmptyInput, op)
}

func NewNoNumericDataError(column string) error {
	return fmt.Errorf("%w: column %q has no parseable numeric values", ErrNoNumericData, column)
}

func NewInsufficientColumnsError(got, want int) error {
	return fmt.Errorf("%w: got %d, need at least %d", ErrInsufficientColumns, got, want)
}

func NewInvalidDetectionConfigError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidDetectionConfig, reason)
}

// Error checking helpers
func IsEmptyInputError(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}

func IsNoNumericDataError(err error) bool {
	return errors.Is(err, ErrNoNumericData)
}

func IsInsufficientColumnsError(err error) bool {
	return errors.Is(err, ErrInsufficientColumns)
}
