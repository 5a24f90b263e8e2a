package profile

import (
	"time"

	"github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/google/uuid"
)

// WithdrawalStatus is the review state of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalPaid     WithdrawalStatus = "paid"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

// Withdrawal is an influencer's request to cash out earned balance. The
// balance is debited when the request is created; rejection refunds it.
type Withdrawal struct {
	ID          uuid.UUID
	ProfileID   uuid.UUID
	AmountCents int64
	BankDetails string
	Status      WithdrawalStatus
	Note        *string
	ResolvedAt  *time.Time
	CreatedAt   time.Time
}

// NewWithdrawal builds a pending withdrawal request.
func NewWithdrawal(profileID uuid.UUID, amountCents int64, bankDetails string) (*Withdrawal, error) {
	if amountCents <= 0 {
		return nil, errors.NewValidationError("amount", "must be greater than 0")
	}
	if bankDetails == "" {
		return nil, errors.NewValidationError("bank_details", "cannot be empty")
	}
	return &Withdrawal{
		ID:          uuid.New(),
		ProfileID:   profileID,
		AmountCents: amountCents,
		BankDetails: bankDetails,
		Status:      WithdrawalPending,
		CreatedAt:   time.Now(),
	}, nil
}

// Resolve settles a pending withdrawal as paid or rejected.
func (w *Withdrawal) Resolve(paid bool, note string) error {
	if w.Status != WithdrawalPending {
		return errors.NewDomainError(
			"invalid_transition",
			"withdrawal already resolved",
			errors.ErrInvalidStateTransition,
		)
	}
	if paid {
		w.Status = WithdrawalPaid
	} else {
		w.Status = WithdrawalRejected
	}
	if note != "" {
		w.Note = &note
	}
	now := time.Now()
	w.ResolvedAt = &now
	return nil
}
