package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks precondition failures detected before any mutation
	ErrValidation = errors.New("validation failed")
	// ErrStorage marks failures of the underlying data store
	ErrStorage = errors.New("storage failure")
)

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

// Validation creates a sentinel error that matches ErrValidation.
// Each call returns a distinct value, so domain packages declare these once.
func Validation(msg string) error {
	return &validationError{msg: msg}
}

// StorageError wraps a data store failure with the operation that produced it
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// Storage wraps err as a StorageError. nil stays nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsStorage reports whether err is a data store failure
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
