package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the operation taxonomy. Callers classify failures with
// errors.Is and, for insufficient funds, unwrap the amounts with errors.As.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrValidation        = errors.New("validation error")
	ErrInsufficientFunds = errors.New("insufficient fun bucks")
	ErrStoreFailure      = errors.New("store failure")
)

// NotFoundError reports an unresolved entity id.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidStateError reports an operation not applicable to the entity's
// current state, such as completing an already-completed chore.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string { return e.Reason }

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InsufficientFundsError carries the amounts needed for client display.
type InsufficientFundsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient fun bucks: required %d, available %d", e.Required, e.Available)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// StoreError wraps an underlying persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error { return []error{ErrStoreFailure, e.Err} }

func NewNotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func NewInvalidState(reason string) error {
	return &InvalidStateError{Reason: reason}
}

func NewValidation(reason string) error {
	return &ValidationError{Reason: reason}
}

func NewInsufficientFunds(required, available int64) error {
	return &InsufficientFundsError{Required: required, Available: available}
}

func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
