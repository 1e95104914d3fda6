package errors

import (
	"errors"
	"fmt"
)

// InputError reports a price bar that violates the input contract:
// a missing or non-finite field, high below low, or a timestamp that
// does not strictly increase.
type InputError struct {
	Code    ErrorCode
	Row     int    // Zero-based index of the offending bar
	Field   string // Offending field, empty when the whole bar is at fault
	Message string
}

// NewInputError creates an InputError for the given row.
func NewInputError(code ErrorCode, row int, field, message string) *InputError {
	return &InputError{
		Code:    code,
		Row:     row,
		Field:   field,
		Message: message,
	}
}

// NewInputErrorf creates an InputError with a formatted message.
func NewInputErrorf(code ErrorCode, row int, field, format string, args ...any) *InputError {
	return NewInputError(code, row, field, fmt.Sprintf(format, args...))
}

// Error implements the error interface.
func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%d] invalid input at row %d (%s): %s", e.Code, e.Row, e.Field, e.Message)
	}

	return fmt.Sprintf("[%d] invalid input at row %d: %s", e.Code, e.Row, e.Message)
}

// IsInputError checks if an error is an InputError.
func IsInputError(err error) bool {
	var inputErr *InputError

	return errors.As(err, &inputErr)
}

// ConfigError reports a configuration value that cannot be used.
type ConfigError struct {
	Field   string
	Message string
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewConfigErrorf creates a new ConfigError with a formatted message.
func NewConfigErrorf(field, format string, args ...any) *ConfigError {
	return NewConfigError(field, fmt.Sprintf(format, args...))
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("[%d] invalid configuration %s: %s", ErrCodeInvalidConfiguration, e.Field, e.Message)
}

// IsConfigError checks if an error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError

	return errors.As(err, &configErr)
}
