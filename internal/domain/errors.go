package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for malformed submissions (e.g. answers not an array).
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is the parent of every not-found condition.
	ErrNotFound = errors.New("not found")
	// ErrScenarioNotFound indicates the scenario does not exist in the catalog.
	ErrScenarioNotFound = fmt.Errorf("scenario %w", ErrNotFound)
	// ErrNoSteps indicates the scenario exists but has nothing to answer.
	ErrNoSteps = fmt.Errorf("scenario has no steps: %w", ErrNotFound)
	// ErrUnauthenticated is returned when an operation needs a user identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrConflict signals a uniqueness violation in a store.
	ErrConflict = errors.New("conflict")
)

// StoreError wraps a persistence failure with the operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err unless it is nil or already a StoreError.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
