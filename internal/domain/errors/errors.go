package errors

import (
	"errors"
	"fmt"
)

var (
	// Profile errors
	ErrProfileNotFound      = errors.New("profile not found")
	ErrInsufficientFunds    = errors.New("insufficient balance")
	ErrProfileSuspended     = errors.New("profile is suspended")
	ErrMissingContactInfo   = errors.New("profile is missing contact information")
	ErrOptimisticLockFailed = errors.New("optimistic lock conflict")

	// Task errors
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskNotOwner           = errors.New("not the task owner")
	ErrTaskAlreadyPaid        = errors.New("task is already paid")
	ErrTaskNotPayable         = errors.New("task is not awaiting payment")
	ErrInvalidPlatform        = errors.New("invalid platform")
	ErrInvalidDeadlineOption  = errors.New("invalid deadline option")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrNoPlatformTargets      = errors.New("task has no platform targets")
	ErrSlipNotFound           = errors.New("bank slip not found")

	// Application errors
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("already applied to this task")
	ErrProofNotFound        = errors.New("proof not found")
	ErrPayoutAlreadyDone    = errors.New("payout already released")

	// View count errors
	ErrInvalidViewCount = errors.New("invalid view count")

	// Payment gateway errors
	ErrMissingCredentials = errors.New("payment gateway credentials missing")
	ErrSignatureMismatch  = errors.New("payment notification signature mismatch")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// Withdrawal errors
	ErrWithdrawalNotFound = errors.New("withdrawal not found")

	// Idempotency errors
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

	// Lock errors
	ErrLockAcquisitionFailed = errors.New("failed to acquire lock")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidInput     = errors.New("invalid input")
)

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
