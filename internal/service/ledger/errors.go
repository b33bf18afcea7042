package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates user input failed a precondition.
	ErrValidation = errors.New("ledger: validation failed")
	// ErrPersistence indicates an accepted entry could not be made durable.
	ErrPersistence = errors.New("ledger: persistence failed")
)

// ValidationError names the rejected field and why it was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PersistenceError wraps the storage failure that prevented a commit.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s not saved: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrPersistence) match.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
