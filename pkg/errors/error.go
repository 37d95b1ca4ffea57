package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType defines distinct categories for errors originating from maaw components.
type ErrorType string

const (
	// ValidationError represents errors caused by invalid form input or configuration values.
	ValidationError ErrorType = "validation_error"
	// AuthError represents roster lookups, password checks and expired sessions.
	AuthError ErrorType = "auth_error"
	// ProcessingError represents failures while decoding, re-encoding or archiving product images.
	ProcessingError ErrorType = "processing_error"
	// NetworkError represents failures talking to a remote endpoint.
	NetworkError ErrorType = "network_error"
	// RelayError represents debug entries that could not be forwarded to the collector.
	RelayError ErrorType = "relay_error"
	// SystemError represents underlying system issues, such as file I/O errors.
	SystemError ErrorType = "system_error"
)

// StructuredError represents a detailed error originating from maaw operations.
// It includes a type, message, optional details, timestamp, and a specific error code.
// It implements the standard Go `error` interface.
type StructuredError struct {
	// Type categorizes the error (e.g., ValidationError, ProcessingError).
	Type ErrorType `json:"type"`
	// Message provides a concise, human-readable description of the error.
	Message string `json:"message"`
	// Details offers additional context or the underlying error message, if available.
	Details string `json:"details,omitempty"`
	// Timestamp marks when the error occurred in RFC3339 format.
	Timestamp string `json:"timestamp"`
	// Code provides a specific integer code unique to the error source within its type.
	Code int `json:"code"`

	cause error
}

// Error implements the standard `error` interface for StructuredError.
// It returns a formatted string including the error type, message, and details.
func (e *StructuredError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Message, e.Details)
}

// Unwrap returns the error passed to Wrap, if any.
func (e *StructuredError) Unwrap() error {
	return e.cause
}

// JSON returns the StructuredError serialized as a JSON string.
// Returns an empty string and an error if marshalling fails.
func (e *StructuredError) JSON() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// New creates a new StructuredError instance.
// It automatically sets the Timestamp to the current time.
func New(errorType ErrorType, message, details string, code int) *StructuredError {
	return &StructuredError{
		Type:      errorType,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().Format(time.RFC3339),
		Code:      code,
	}
}

// Wrap creates a new StructuredError, using the message from an existing standard Go error
// as the Details field. The original error stays reachable through errors.Is and errors.As.
// If the input error `err` is nil, Details will be empty.
func Wrap(err error, errorType ErrorType, message string, code int) *StructuredError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	wrapped := New(errorType, message, details, code)
	wrapped.cause = err
	return wrapped
}

// FromCode builds a StructuredError whose message comes from the standard message table.
func FromCode(errorType ErrorType, code int, details string) *StructuredError {
	return New(errorType, GetErrorMessage(code), details, code)
}

// As reports whether err is, or wraps, a StructuredError and returns it.
func As(err error) (*StructuredError, bool) {
	var structured *StructuredError
	if stderrors.As(err, &structured) {
		return structured, true
	}
	return nil, false
}

// IsType reports whether err carries a StructuredError of the given type.
func IsType(err error, errorType ErrorType) bool {
	structured, ok := As(err)
	return ok && structured.Type == errorType
}

// WrapCode wraps err with the standard message for code.
func WrapCode(err error, errorType ErrorType, code int) *StructuredError {
	return Wrap(err, errorType, GetErrorMessage(code), code)
}
