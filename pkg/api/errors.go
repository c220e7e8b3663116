package api

import (
	"errors"
	"fmt"
)

// ErrorType classifies a gateway error.
type ErrorType string

const (
	// ErrorTypeUnknownProvider means the request pinned a provider name
	// that is not configured.
	ErrorTypeUnknownProvider ErrorType = "unknown_provider"

	// ErrorTypeUnsupportedModel means no configured provider claims the
	// requested model.
	ErrorTypeUnsupportedModel ErrorType = "unsupported_model"

	// ErrorTypeValidation means the request violated a provider limit or
	// parameter range before any backend work happened.
	ErrorTypeValidation ErrorType = "validation_error"

	// ErrorTypeFileNotFound means a file attachment path does not exist.
	ErrorTypeFileNotFound ErrorType = "file_not_found"

	// ErrorTypeUnreadableFile means a file attachment exists but could
	// not be read.
	ErrorTypeUnreadableFile ErrorType = "unreadable_file"

	// ErrorTypeProviderAuth means the backend rejected our credentials.
	ErrorTypeProviderAuth ErrorType = "provider_auth"

	// ErrorTypeProviderRateLimit means the backend rate-limited us.
	ErrorTypeProviderRateLimit ErrorType = "provider_rate_limit"

	// ErrorTypeProviderNetwork means the backend could not be reached or
	// the connection failed mid-flight.
	ErrorTypeProviderNetwork ErrorType = "provider_network"

	// ErrorTypeProviderResponse means the backend answered with a
	// non-success status or an unparseable body.
	ErrorTypeProviderResponse ErrorType = "provider_response"

	// ErrorTypeInternal is the catch-all for unexpected gateway faults,
	// including recovered panics.
	ErrorTypeInternal ErrorType = "internal_error"
)

// Error is the structured error every tool result carries on failure.
// Provider names the adapter the error originated from, when known, and
// Param names the offending request field for validation failures.
type Error struct {
	Type     ErrorType `json:"type"`
	Provider string    `json:"provider,omitempty"`
	Param    string    `json:"param,omitempty"`
	Message  string    `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewUnknownProviderError creates an error for an unconfigured provider name.
func NewUnknownProviderError(name string) *Error {
	return &Error{
		Type:     ErrorTypeUnknownProvider,
		Provider: name,
		Message:  fmt.Sprintf("provider %q is not configured", name),
	}
}

// NewUnsupportedModelError creates an error for a model no provider claims.
func NewUnsupportedModelError(model string) *Error {
	return &Error{
		Type:    ErrorTypeUnsupportedModel,
		Param:   "model",
		Message: fmt.Sprintf("model %q is not supported", model),
	}
}

// NewValidationError creates an error for a request limit violation.
func NewValidationError(param, message string) *Error {
	return &Error{Type: ErrorTypeValidation, Param: param, Message: message}
}

// NewFileNotFoundError creates an error for a missing file attachment.
func NewFileNotFoundError(path string) *Error {
	return &Error{
		Type:    ErrorTypeFileNotFound,
		Param:   "file_paths",
		Message: fmt.Sprintf("file not found: %s", path),
	}
}

// NewUnreadableFileError creates an error for a file attachment that exists
// but cannot be read.
func NewUnreadableFileError(path string, err error) *Error {
	return &Error{
		Type:    ErrorTypeUnreadableFile,
		Param:   "file_paths",
		Message: fmt.Sprintf("cannot read file %s: %v", path, err),
	}
}

// NewProviderAuthError creates an error for rejected backend credentials.
func NewProviderAuthError(provider, message string) *Error {
	return &Error{Type: ErrorTypeProviderAuth, Provider: provider, Message: message}
}

// NewProviderRateLimitError creates an error for backend rate limiting.
func NewProviderRateLimitError(provider, message string) *Error {
	return &Error{Type: ErrorTypeProviderRateLimit, Provider: provider, Message: message}
}

// NewProviderNetworkError creates an error for a failed backend connection.
func NewProviderNetworkError(provider string, err error) *Error {
	return &Error{
		Type:     ErrorTypeProviderNetwork,
		Provider: provider,
		Message:  fmt.Sprintf("backend connection error: %v", err),
	}
}

// NewProviderResponseError creates an error for a backend error response.
func NewProviderResponseError(provider, message string) *Error {
	return &Error{Type: ErrorTypeProviderResponse, Provider: provider, Message: message}
}

// NewInternalError creates a catch-all gateway error.
func NewInternalError(message string) *Error {
	return &Error{Type: ErrorTypeInternal, Message: message}
}

// AsError coerces err into an *Error. Unclassified errors are wrapped as
// internal errors; a nil err returns nil.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewInternalError(err.Error())
}
