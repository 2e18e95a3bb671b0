package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrConfiguration marks invalid or contradictory caller input. It is
	// raised before any computation and never retried.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrData marks a required column missing from the observation table.
	ErrData = errors.New("invalid input data")

	// ErrExecution marks a failed resample pass; the whole bootstrap batch
	// aborts when any pass fails.
	ErrExecution = errors.New("resample execution failed")
)

// Error constructors with context
func NewConfigurationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfiguration, field, reason)
}

func NewDataError(column string, reason string) error {
	return fmt.Errorf("%w: column %q %s", ErrData, column, reason)
}

func NewExecutionError(index int, err error) error {
	return fmt.Errorf("%w: resample %d: %v", ErrExecution, index, err)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsDataError(err error) bool {
	return errors.Is(err, ErrData)
}

func IsExecutionError(err error) bool {
	return errors.Is(err, ErrExecution)
}
