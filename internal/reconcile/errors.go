package reconcile

import (
	"errors"
	"fmt"
)

// Error is returned by Reconcile when the whole operation fails.
//
// Per-entry problems are never reported through Error; they are recovered
// locally and listed in Result.Rejections.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Scope is the key of the scope being reconciled.
	Scope string

	// Op names the store operation that failed (store errors only).
	Op string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes reconcile errors.
type ErrorCode string

const (
	// ErrCodeBusy indicates another reconcile holds the scope's lock.
	ErrCodeBusy ErrorCode = "BUSY"

	// ErrCodeStore indicates a read, delete or insert against the store failed.
	ErrCodeStore ErrorCode = "STORE_ERROR"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s %s: %v", e.Code, e.Op, e.Scope, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Scope, e.Err)
	default:
		return fmt.Sprintf("%s: import already running for %s", e.Code, e.Scope)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsBusyError returns true if the error reports a scope already being
// reconciled. Uses errors.As to handle wrapped errors.
func IsBusyError(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeBusy
	}
	return false
}

// IsStoreError returns true if the error is a persistence failure.
// Uses errors.As to handle wrapped errors.
func IsStoreError(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeStore
	}
	return false
}

// NewBusyError creates an Error for lock contention on scope.
func NewBusyError(scope string) *Error {
	return &Error{Code: ErrCodeBusy, Scope: scope}
}

// NewStoreError creates an Error for a failed store operation.
func NewStoreError(scope, op string, err error) *Error {
	return &Error{Code: ErrCodeStore, Scope: scope, Op: op, Err: err}
}
