package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no account has the given number
	ErrNotFound = errors.New("account not found")
	// ErrAuthentication is returned when the PIN does not match
	ErrAuthentication = errors.New("pin mismatch")
	// ErrInsufficientFunds is returned when a withdrawal exceeds the balance
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrGeneration is returned when no unused account number could be drawn
	ErrGeneration = errors.New("unable to generate unique account number")
	// ErrInvalidSession is returned for a bad, expired or stale session token
	ErrInvalidSession = errors.New("invalid session")
	// ErrAdminDisabled is returned when no admin password hash is configured
	ErrAdminDisabled = errors.New("admin access is not configured")
	// ErrAdminDenied is returned for a wrong admin password
	ErrAdminDenied = errors.New("admin access denied")
)

// ValidationError reports a bad field value
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError reports a failure to persist the collection
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsCredentialFailure reports whether err means "unknown account or wrong PIN".
// Callers facing untrusted users should render both the same way.
func IsCredentialFailure(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrAuthentication)
}
