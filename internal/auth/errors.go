package auth

import "errors"

var (
	// ErrTokenInvalid is returned by Verify for a malformed, tampered or expired token.
	ErrTokenInvalid = errors.New("invalid session token")

	// ErrAuthenticationFailed is the only error Login returns to callers. Wrong passwords,
	// unknown or disabled accounts and backend failures all look the same from outside.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrSecretEmpty is returned when an issuer is created without a signing secret.
	ErrSecretEmpty = errors.New("token secret can not be empty")
)
