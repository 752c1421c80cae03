package auth

import "errors"

// Common authentication and authorization errors
var (
	// ErrInvalidCredentials indicates a failed login. Unknown usernames and
	// wrong passwords deliberately produce this same error so callers
	// cannot tell the two cases apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken indicates the token format is invalid, the signature
	// does not match, or the issuer/audience claims are wrong.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token's not-before is in the future.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrForbidden indicates the caller is authenticated but lacks the
	// privilege or scope an operation requires.
	ErrForbidden = errors.New("insufficient privileges")
)
