package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError is the unified error type returned by resolution and registration.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Constructors ---

// InvalidArgument creates an AppError for a nil or empty required parameter.
// The message always names the parameter.
func InvalidArgument(param string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s must not be nil or empty", param),
		Details: map[string]any{"parameter": param},
	}
}

// InvalidState creates an AppError for a present but unusable value.
// discriminator is the offending value and is always part of the message.
func InvalidState(discriminator, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidState, Message: fmt.Sprintf("%s: %s", discriminator, reason),
		Details: map[string]any{"value": discriminator},
	}
}

// ServiceNotFound creates an AppError for a named service binding that does
// not exist.
func ServiceNotFound(name string) *AppError {
	return &AppError{
		Code: ErrCodeServiceNotFound, Message: fmt.Sprintf("No discovery service binding named %q was found", name),
		Details: map[string]any{"service": name},
	}
}

// AmbiguousServiceBinding creates an AppError for more than one matching
// service binding.
func AmbiguousServiceBinding(names []string) *AppError {
	return &AppError{
		Code: ErrCodeAmbiguousBinding,
		Message: fmt.Sprintf("Multiple discovery service bindings found (%s); select one by service name",
			strings.Join(names, ", ")),
		Details: map[string]any{"candidates": names},
	}
}

// Validation creates an AppError for option values that failed validation.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// Internal creates an AppError wrapping an unexpected failure.
func Internal(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Cause: cause}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// CodeOf returns the code of the AppError in err's chain. Other errors are
// INTERNAL and a nil error has no code.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}
