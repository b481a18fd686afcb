// Package common defines shared constants and sentinel errors used across
// client and server layers of feedhub. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Identity verification. ErrInvalidCredential covers expired, tampered
	// and malformed tokens alike.
	ErrUnauthenticated   = errors.New("no credential provided")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrUnknownSubject    = errors.New("credential subject does not exist")
	ErrTransientFailure  = errors.New("transient failure")

	// Notification ledger.
	ErrValidation         = errors.New("validation error")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// IsAuthRejection reports whether err is one of the verifier's rejection
// errors, as opposed to an infrastructure failure.
func IsAuthRejection(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrInvalidCredential) ||
		errors.Is(err, ErrUnknownSubject)
}
