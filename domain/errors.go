package domain

import (
	"errors"
	"fmt"
)

// DomainError represents errors in the domain layer
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// Domain error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeInconsistentInput = "INCONSISTENT_INPUT"
	ErrCodeAnalysisError     = "ANALYSIS_ERROR"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
)

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewInconsistentInputError signals conflicting similarity values for the same
// submission pair, an upstream invariant violation that aborts the run.
func NewInconsistentInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInconsistentInput, message, cause)
}

// NewAnalysisError creates an analysis error
func NewAnalysisError(message string, cause error) error {
	return NewDomainError(ErrCodeAnalysisError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}

// IsConfigurationError reports whether err carries the CONFIG_ERROR code.
func IsConfigurationError(err error) bool {
	var de DomainError
	return errors.As(err, &de) && de.Code == ErrCodeConfigError
}

// IsInconsistentInputError reports whether err carries the INCONSISTENT_INPUT code.
func IsInconsistentInputError(err error) bool {
	var de DomainError
	return errors.As(err, &de) && de.Code == ErrCodeInconsistentInput
}
