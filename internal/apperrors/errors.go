package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
// For ledgers this is the duplicate external reference condition.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the requested transition is not allowed in the resource's current state.
var ErrConflict = errors.New("conflicting state")

// ErrForbidden indicates that the actor is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned when an infrastructure failure should not leak details.
var ErrInternal = errors.New("internal error")

var (
	// ErrInvalidSplit is returned when a split template violates the 100% sum or bounds rule.
	ErrInvalidSplit = errors.New("invalid installment split")
	// ErrAccountIneligible is returned when installments are disabled or the account is suspicious.
	ErrAccountIneligible = errors.New("account is not eligible for installments")
	// ErrPurchaseInactive is returned when a ledger is requested for an inactive purchase.
	ErrPurchaseInactive = errors.New("purchase is not active")
	ErrAlreadyPaid      = errors.New("obligation already paid")
	ErrNotSubmitted     = errors.New("obligation not submitted")
	ErrAlreadyApproved  = errors.New("already approved")
	// ErrConcurrentModification is returned when a versioned write lost the race.
	// Callers should reload and retry.
	ErrConcurrentModification = errors.New("concurrent modification")
)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
