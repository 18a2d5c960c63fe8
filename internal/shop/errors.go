package shop

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrEmptyCart = errors.New("cart is empty")
)

// Validation reasons. Callers pick the re-prompt text from these.
const (
	ReasonEmpty       = "empty"
	ReasonNotNumber   = "not_number"
	ReasonNotPositive = "not_positive"
	ReasonTooPrecise  = "too_precise"
	ReasonTooLarge    = "too_large"
	ReasonTooLong     = "too_long"
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DatastoreError wraps a failed query or connection problem.
type DatastoreError struct {
	Op  string
	Err error
}

func (e *DatastoreError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *DatastoreError) Unwrap() error { return e.Err }

func dbErr(op string, err error) error {
	return &DatastoreError{Op: op, Err: err}
}
