package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidToken is returned by TokenManager.Verify for any malformed,
	// expired or wrongly signed token. It is never rendered to clients.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthenticated means the caller has not proven an identity.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrPrincipalNotFound means the token was valid but its subject no longer exists.
	ErrPrincipalNotFound = errors.New("principal not found")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
)
