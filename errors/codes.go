package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Argument and state errors
const (
	// ErrCodeInvalidArgument indicates a required input was nil or empty.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidState indicates a value is present but unusable,
	// e.g. an UNKNOWN client type handed to registration.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
	// ErrCodeInvalidInput indicates option values failed validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Service binding errors
const (
	// ErrCodeServiceNotFound indicates a requested service binding does not exist.
	ErrCodeServiceNotFound ErrorCode = "SERVICE_NOT_FOUND"
	// ErrCodeAmbiguousBinding indicates more than one binding matched.
	ErrCodeAmbiguousBinding ErrorCode = "AMBIGUOUS_SERVICE_BINDING"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure, e.g. client construction.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// startupFatal lists codes that must abort application startup.
var startupFatal = map[ErrorCode]bool{
	ErrCodeInvalidArgument:  true,
	ErrCodeInvalidState:     true,
	ErrCodeInvalidInput:     true,
	ErrCodeServiceNotFound:  true,
	ErrCodeAmbiguousBinding: true,
	ErrCodeInternal:         false,
}

// IsStartupFatal returns true if the code indicates a misconfiguration that
// cannot be fixed by retrying.
func IsStartupFatal(code ErrorCode) bool {
	return startupFatal[code]
}
