package auth

import "errors"

// Error taxonomy of the auth flows. Every orchestrator operation fails
// with exactly one of these; handlers translate them to HTTP statuses.
var (
	// ErrValidation indicates malformed input: missing fields, bad
	// Authorization scheme, password confirmation mismatch,
	// cross-token identity mismatch
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a uniqueness violation on registration
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized indicates a credential mismatch, an invalid
	// token signature or a stale refresh token
	ErrUnauthorized = errors.New("unauthorized")

	// ErrExpired indicates the presented token is past its expiry
	// instant; distinguished from ErrUnauthorized so clients know to
	// re-authenticate instead of retrying
	ErrExpired = errors.New("token expired")

	// ErrNotFound indicates the referenced user does not exist
	ErrNotFound = errors.New("user not found")
)
