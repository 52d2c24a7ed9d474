package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same code
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithCause creates a domain error that wraps the error that caused it.
// The cause is kept for logging and errors.Is checks, it is never rendered to clients.
func NewDomainErrorWithCause(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrRateLimited         = NewDomainError("RATE_LIMITED", "Too many requests to an upstream service")
	ErrUpstream            = NewDomainError("UPSTREAM_ERROR", "Upstream service request failed")
	ErrUpstreamAuth        = NewDomainError("UPSTREAM_AUTH", "Upstream service rejected our credentials")
	ErrUpstreamUnavailable = NewDomainError("UPSTREAM_UNAVAILABLE", "Upstream service is not configured or unreachable")
)

// Upstream wraps cause into an upstream failure carrying the given message
func Upstream(message string, cause error) *DomainError {
	return NewDomainErrorWithCause(ErrUpstream.Code, message, cause)
}

// InvalidInput builds an INVALID_INPUT domain error with a specific message
func InvalidInput(message string) *DomainError {
	return NewDomainError(ErrInvalidInput.Code, message)
}

// UpstreamAuth wraps cause into an upstream credential failure
func UpstreamAuth(message string, cause error) *DomainError {
	return NewDomainErrorWithCause(ErrUpstreamAuth.Code, message, cause)
}

// UpstreamUnavailable wraps cause into an unconfigured or unreachable upstream failure
func UpstreamUnavailable(message string, cause error) *DomainError {
	return NewDomainErrorWithCause(ErrUpstreamUnavailable.Code, message, cause)
}

// RateLimited wraps cause into a RATE_LIMITED domain error
func RateLimited(message string, cause error) *DomainError {
	return NewDomainErrorWithCause(ErrRateLimited.Code, message, cause)
}
