package core

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers test with errors.Is; messages wrap them with detail.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("conflict")
	ErrDuplicateCall = fmt.Errorf("%w: duplicate request", ErrConflict)

	// ErrInsufficientStock matches any *InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError reports a withdrawal larger than the stock held.
type InsufficientStockError struct {
	BloodGroup BloodGroup
	Available  int64
	Requested  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %d ML of %s, %d ML available",
		e.Requested, e.BloodGroup, e.Available)
}

// Message is the client-facing wording.
func (e *InsufficientStockError) Message() string {
	return fmt.Sprintf("Only %d ML of %s is available", e.Available, e.BloodGroup)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// StorageError wraps a failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorage reports whether err originated in the store.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// wrapStorage leaves domain errors untouched and wraps everything else.
func wrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInsufficientStock),
		IsStorage(err):
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
