package errors

import (
	"errors"
	"fmt"
)

// Common error types for the Foodies client
var (
	// Session errors
	ErrNoSession       = errors.New("no session")
	ErrSessionExpired  = errors.New("session expired")
	ErrNoPendingSignup = errors.New("no pending signup transaction")

	// Token errors
	ErrUnauthorized    = errors.New("unauthorized")
	ErrRefreshFailed   = errors.New("token refresh failed")
	ErrNoExpiryClaim   = errors.New("access token carries no expiry claim")
	ErrMalformedToken  = errors.New("malformed access token")
	ErrSealedValue     = errors.New("sealed value is corrupt")
	ErrWrongPassphrase = errors.New("sealed value cannot be opened with this passphrase")

	// Channel errors
	ErrChannelClosed = errors.New("channel closed")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
