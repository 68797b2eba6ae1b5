package errors

import "errors"

var (
	ErrUnauthenticated  = errors.New("credential is missing, malformed, or expired")
	ErrInvalidPrincipal = errors.New("invalid principal input")
	ErrSecretRequired   = errors.New("token secret is required")
)
