package errors

// ErrorCode is a machine-readable error code.
type ErrorCode string

// Token verification errors. All of these collapse to a uniform
// "unauthenticated" outcome at the request boundary; the distinct codes exist
// for logging and tests only.
const (
	// ErrCodeTokenMalformed indicates the wire token structure or required
	// claims could not be parsed.
	ErrCodeTokenMalformed ErrorCode = "TOKEN_MALFORMED"
	// ErrCodeTokenSignatureInvalid indicates the signature did not verify
	// against the public key.
	ErrCodeTokenSignatureInvalid ErrorCode = "TOKEN_SIGNATURE_INVALID"
	// ErrCodeTokenExpired indicates the token's exp claim is in the past.
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	// ErrCodeTokenIssuerMismatch indicates the iss claim does not match the
	// configured issuer.
	ErrCodeTokenIssuerMismatch ErrorCode = "TOKEN_ISSUER_MISMATCH"
)

// Credential errors
const (
	// ErrCodeInvalidCredentials indicates a failed login. Unknown usernames
	// and wrong passwords share this code deliberately.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrCodePasswordTooShort indicates a password below the minimum length.
	ErrCodePasswordTooShort ErrorCode = "PASSWORD_TOO_SHORT"
	// ErrCodePasswordTooLong indicates a password above the maximum length.
	ErrCodePasswordTooLong ErrorCode = "PASSWORD_TOO_LONG"
	// ErrCodeCorruptHash indicates a stored hash that is not a recognized
	// encoding.
	ErrCodeCorruptHash ErrorCode = "CORRUPT_HASH"
)

// Key material errors (fatal at startup)
const (
	// ErrCodeKeyStorage indicates the key directory or file could not be
	// created, read, or written.
	ErrCodeKeyStorage ErrorCode = "KEY_STORAGE"
	// ErrCodeKeyCorrupt indicates an existing key file that does not parse as
	// the expected key format.
	ErrCodeKeyCorrupt ErrorCode = "KEY_CORRUPT"
)

// Request-level errors
const (
	// ErrCodeUnauthorized indicates authentication is required.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeForbidden indicates the caller is authenticated but not allowed.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrCodeInvalidInput indicates a validation failure on a request body.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeAlreadyExists indicates a uniqueness conflict.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeNotFound indicates a missing resource.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Infrastructure errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeDatabaseError indicates a user store failure.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeDatabaseError: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
