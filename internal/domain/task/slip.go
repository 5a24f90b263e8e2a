package task

import (
	"time"

	"github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/google/uuid"
)

// SlipStatus is the review state of a bank-transfer slip.
type SlipStatus string

const (
	SlipPendingReview SlipStatus = "pending_review"
	SlipApproved      SlipStatus = "approved"
	SlipRejected      SlipStatus = "rejected"
)

// BankSlip is a manually-uploaded bank transfer receipt awaiting admin
// review. Approval settles the task cost through the same path as a
// gateway notification.
type BankSlip struct {
	ID         uuid.UUID
	TaskID     uuid.UUID
	UploaderID uuid.UUID
	SlipURL    string
	Status     SlipStatus
	Note       *string
	ReviewedBy *uuid.UUID
	ReviewedAt *time.Time
	CreatedAt  time.Time
}

// NewBankSlip records a slip for review.
func NewBankSlip(taskID, uploaderID uuid.UUID, slipURL string) (*BankSlip, error) {
	if slipURL == "" {
		return nil, errors.NewValidationError("slip_url", "cannot be empty")
	}
	return &BankSlip{
		ID:         uuid.New(),
		TaskID:     taskID,
		UploaderID: uploaderID,
		SlipURL:    slipURL,
		Status:     SlipPendingReview,
		CreatedAt:  time.Now(),
	}, nil
}

// Review resolves the slip. Only pending slips can be reviewed.
func (s *BankSlip) Review(reviewer uuid.UUID, approved bool, note string) error {
	if s.Status != SlipPendingReview {
		return errors.NewDomainError(
			"invalid_transition",
			"slip already reviewed",
			errors.ErrInvalidStateTransition,
		)
	}
	if approved {
		s.Status = SlipApproved
	} else {
		s.Status = SlipRejected
	}
	if note != "" {
		s.Note = &note
	}
	now := time.Now()
	s.ReviewedBy = &reviewer
	s.ReviewedAt = &now
	return nil
}
