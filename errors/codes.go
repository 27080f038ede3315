package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Lookup errors
const (
	// ErrCodeServiceNotFound indicates no provider is registered for the requested type.
	ErrCodeServiceNotFound ErrorCode = "SERVICE_NOT_FOUND"
	// ErrCodeWrongParams indicates a parameterized provider received params of the wrong type.
	ErrCodeWrongParams ErrorCode = "WRONG_PARAMS"
	// ErrCodeInvalidFactory indicates a factory or boxed provider cannot produce the requested type.
	ErrCodeInvalidFactory ErrorCode = "INVALID_FACTORY"
)

// Session errors
const (
	// ErrCodeNoSessionAvailable indicates a session-scoped service was requested before any session was set.
	ErrCodeNoSessionAvailable ErrorCode = "NO_SESSION_AVAILABLE"
	// ErrCodeWrongSession indicates a session whose key cannot identify a slot.
	ErrCodeWrongSession ErrorCode = "WRONG_SESSION"
)

// Generic errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeUnauthorized indicates the request is unauthorized.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Framework codes describe caller or configuration mistakes. They never
// become valid by retrying the same call.
var frameworkCodes = map[ErrorCode]bool{
	ErrCodeServiceNotFound:    true,
	ErrCodeWrongParams:        true,
	ErrCodeInvalidFactory:     true,
	ErrCodeNoSessionAvailable: true,
	ErrCodeWrongSession:       true,
}

var retryableCodes = map[ErrorCode]bool{
	ErrCodeInternal: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsFrameworkCode reports whether code is raised by the locator itself
// rather than by a factory.
func IsFrameworkCode(code ErrorCode) bool {
	return frameworkCodes[code]
}
