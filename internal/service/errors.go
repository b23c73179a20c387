package service

import (
	"errors"
	"fmt"
)

// Error kinds. Failures callers can act on match exactly one of them with
// errors.Is; anything else is an internal fault.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrStore        = errors.New("store failure")
)

var (
	ErrDuplicateUsername  = fmt.Errorf("%w: username already exists", ErrConflict)
	ErrUserNotFound       = fmt.Errorf("%w: user", ErrNotFound)
	ErrEntryNotFound      = fmt.Errorf("%w: entry", ErrNotFound)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrMissingToken       = fmt.Errorf("%w: missing token", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthorized)
)

type validationErr struct{ msg string }

func (e *validationErr) Error() string        { return ErrValidation.Error() + ": " + e.msg }
func (e *validationErr) Is(target error) bool { return target == ErrValidation }

func validationError(msg string) error {
	return &validationErr{msg: msg}
}

// ValidationMessage returns the client-facing text of a validation error.
func ValidationMessage(err error) (string, bool) {
	var ve *validationErr
	if errors.As(err, &ve) {
		return ve.msg, true
	}
	return "", false
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
