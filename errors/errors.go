package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
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

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Token Verification Errors ---

// TokenMalformed creates an error for a token whose structure or required
// claims could not be parsed.
func TokenMalformed(reason string) *AppError {
	return &AppError{
		Code: ErrCodeTokenMalformed, Message: fmt.Sprintf("Malformed token: %s", reason),
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// TokenSignatureInvalid creates an error for a token whose signature failed
// verification.
func TokenSignatureInvalid() *AppError {
	return &AppError{
		Code: ErrCodeTokenSignatureInvalid, Message: "Token signature verification failed.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// TokenExpired creates an error for a token past its expiry.
func TokenExpired() *AppError {
	return &AppError{
		Code: ErrCodeTokenExpired, Message: "Token has expired.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// TokenIssuerMismatch creates an error for a token issued by someone else.
func TokenIssuerMismatch(expected string) *AppError {
	return &AppError{
		Code: ErrCodeTokenIssuerMismatch, Message: "Token issuer is not recognized.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
		Details: map[string]any{"expected_issuer": expected},
	}
}

// --- Credential Errors ---

// InvalidCredentials creates the uniform login-failure error. Callers must not
// distinguish unknown users from wrong passwords.
func InvalidCredentials() *AppError {
	return &AppError{
		Code: ErrCodeInvalidCredentials, Message: "Invalid username or password.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// PasswordTooShort creates an error for a password below the minimum length.
func PasswordTooShort(min int) *AppError {
	return &AppError{
		Code: ErrCodePasswordTooShort, Message: fmt.Sprintf("Password must be at least %d characters.", min),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"min_length": min},
	}
}

// PasswordTooLong creates an error for a password above the maximum length.
func PasswordTooLong(max int) *AppError {
	return &AppError{
		Code: ErrCodePasswordTooLong, Message: fmt.Sprintf("Password must be at most %d characters.", max),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"max_length": max},
	}
}

// CorruptHash creates an error for a stored password hash that is not a
// recognized encoding.
func CorruptHash(reason string) *AppError {
	return &AppError{
		Code: ErrCodeCorruptHash, Message: fmt.Sprintf("Stored password hash is corrupt: %s", reason),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
	}
}

// --- Key Material Errors ---

// KeyStorage creates an error for unreadable or unwritable key storage.
// This is a fatal startup condition.
func KeyStorage(path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeKeyStorage, Message: fmt.Sprintf("Key storage unavailable at %s.", path),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"path": path}, Cause: cause,
	}
}

// KeyCorrupt creates an error for a key file that does not parse.
func KeyCorrupt(path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeKeyCorrupt, Message: fmt.Sprintf("Key file at %s is not a valid key.", path),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"path": path}, Cause: cause,
	}
}

// --- Request-Level Errors ---

// Unauthorized creates an error for a request that requires authentication.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return &AppError{
		Code: ErrCodeUnauthorized, Message: reason,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// Forbidden creates an error for an authenticated but disallowed request.
func Forbidden(reason string) *AppError {
	if reason == "" {
		reason = "You don't have permission to perform this action."
	}
	return &AppError{
		Code: ErrCodeForbidden, Message: reason,
		HTTPStatus: http.StatusForbidden, Retryable: false,
	}
}

// Validation creates an error for a request body that failed validation.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// AlreadyExists creates an error for a uniqueness conflict.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with these details already exists.", resource),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// NotFound creates an error for a missing resource.
func NotFound(resource string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// --- Infrastructure Errors ---

// Internal creates an error for an unexpected internal failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// DatabaseError creates an error for a user store failure.
func DatabaseError(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDatabaseError, Message: "A database error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: true, Cause: cause,
	}
}
