// Package common defines shared constants and sentinel errors used across
// the credential store, session manager, ledger client and task service.
// Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Credential store errors.
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrStorageCorrupt     = errors.New("local storage corrupt")

	// Ledger errors.
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNetworkUnavailable = errors.New("ledger network unavailable")
	ErrDisconnected       = errors.New("no identity bound to ledger")
	ErrTransactionFailed  = errors.New("transaction failed")

	// ErrBusy is returned when another mutation is in flight and the
	// mutation policy rejects instead of queueing.
	ErrBusy = errors.New("another task mutation is in progress")

	// Validation errors. All of them match ErrValidation.
	ErrValidation       = errors.New("validation error")
	ErrEmptyContent     = fmt.Errorf("%w: task content is empty", ErrValidation)
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	ErrPasswordMismatch = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email", ErrValidation)
)
