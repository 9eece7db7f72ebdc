package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// TransitionError reports an operation attempted against an entity that is not
// in the required source state. The message always names the current status so
// callers can tell a stale read from a bad request.
type TransitionError struct {
	Entity  string
	Current string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition %s with status: %s", e.Entity, e.Current)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func NewTransitionError(entity, current string) error {
	return &TransitionError{Entity: entity, Current: current}
}

func IsTransitionError(err error) (*TransitionError, bool) {
	var te *TransitionError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
