package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors, use with errors.Is().
var (
	// ErrInvalidAmount is returned when an amount is not a valid
	// non-negative number (or zero where a charge requires it).
	ErrInvalidAmount = errors.New("amount must be a non-negative number")

	// ErrServiceNotFound is returned when a service code has no
	// catalog entry.
	ErrServiceNotFound = errors.New("service not found")

	// ErrInsufficientBalance is returned when a payment would
	// overdraw the account. The balance is left untouched.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrGenerationExhausted is returned when a unique invoice number
	// could not be produced within the attempt budget. Retryable.
	ErrGenerationExhausted = errors.New("invoice number generation exhausted")

	// ErrDuplicateInvoice is returned by the storage layer when the
	// unique constraint on invoice_number rejects a commit.
	ErrDuplicateInvoice = errors.New("duplicate invoice number")

	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned on registration with an existing email.
	ErrEmailTaken = errors.New("email already registered")
)

// PersistenceError wraps any storage failure during an atomic commit.
// The whole operation is rolled back, the caller decides whether to retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
