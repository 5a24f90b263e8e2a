package task

import (
	"time"

	"github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the task status in the state machine
type Status string

const (
	StatusDraft          Status = "draft"
	StatusPendingPayment Status = "pending_payment"
	StatusActive         Status = "active"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

// PaymentMethod is how the buyer settled the campaign cost.
type PaymentMethod string

const (
	MethodGateway      PaymentMethod = "gateway"
	MethodBankTransfer PaymentMethod = "bank_transfer"
)

// PlatformTarget is one platform the campaign requests views on. Targets
// are typed records validated on the way in; they are persisted as JSONB
// but never passed around untyped.
type PlatformTarget struct {
	Platform       pricing.Platform       `json:"platform"`
	TargetViews    int64                  `json:"target_views"`
	DeadlineOption pricing.DeadlineOption `json:"deadline_option"`
	Deadline       *time.Time             `json:"deadline,omitempty"`
}

// Cost is the server-authoritative cost record for a task. The client may
// show its own estimate, but this is what gets charged.
type Cost struct {
	Base   decimal.Decimal `json:"base"`
	Fee    decimal.Decimal `json:"fee"`
	Total  decimal.Decimal `json:"total"`
	IsPaid bool            `json:"is_paid"`
	PaidAt *time.Time      `json:"paid_at,omitempty"`
	Method PaymentMethod   `json:"method,omitempty"`
}

// Task is a buyer-created campaign requesting promotional views across one
// or more platforms.
type Task struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	Targets     []PlatformTarget
	Cost        Cost
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// New creates a draft task. Targets are resolved (deadline dates filled in)
// and priced against the given rate card; the resulting cost record is
// authoritative for the payment flow.
func New(ownerID uuid.UUID, title, description string, targets []PlatformTarget, rc *pricing.RateCard, now time.Time) (*Task, error) {
	if title == "" {
		return nil, errors.NewValidationError("title", "cannot be empty")
	}
	if len(targets) == 0 {
		return nil, errors.ErrNoPlatformTargets
	}

	seen := make(map[pricing.Platform]bool, len(targets))
	priced := make([]pricing.Target, 0, len(targets))
	for i := range targets {
		t := &targets[i]
		if _, err := pricing.ParsePlatform(string(t.Platform)); err != nil {
			return nil, err
		}
		if seen[t.Platform] {
			return nil, errors.NewValidationError("targets", "duplicate platform "+string(t.Platform))
		}
		seen[t.Platform] = true
		if t.TargetViews <= 0 {
			return nil, errors.NewValidationError("target_views", "must be greater than 0")
		}
		deadline, err := t.DeadlineOption.Resolve(now)
		if err != nil {
			return nil, err
		}
		t.Deadline = deadline
		priced = append(priced, pricing.Target{Platform: t.Platform, Views: t.TargetViews, Deadline: t.DeadlineOption})
	}

	breakdown, err := rc.CalculateTotal(priced, true)
	if err != nil {
		return nil, err
	}

	return &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Targets:     targets,
		Cost: Cost{
			Base:  breakdown.Base,
			Fee:   breakdown.Fee,
			Total: breakdown.Total,
		},
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanTransitionTo checks if the task can transition to the given status
func (t *Task) CanTransitionTo(newStatus Status) bool {
	transitions := map[Status][]Status{
		StatusDraft: {
			StatusPendingPayment,
			StatusCancelled,
		},
		StatusPendingPayment: {
			StatusActive, // payment confirmed
			StatusCancelled,
		},
		StatusActive: {
			StatusCompleted,
			StatusCancelled,
		},
		StatusCompleted: {}, // Terminal state
		StatusCancelled: {}, // Terminal state
	}

	allowed, exists := transitions[t.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo transitions the task to a new status
func (t *Task) TransitionTo(newStatus Status) error {
	if !t.CanTransitionTo(newStatus) {
		return errors.NewDomainError(
			"invalid_transition",
			"cannot transition from "+string(t.Status)+" to "+string(newStatus),
			errors.ErrInvalidStateTransition,
		)
	}

	t.Status = newStatus
	t.UpdatedAt = time.Now()

	if newStatus == StatusCompleted || newStatus == StatusCancelled {
		now := time.Now()
		t.CompletedAt = &now
	}
	return nil
}

// Publish moves a draft into the payment queue.
func (t *Task) Publish() error {
	return t.TransitionTo(StatusPendingPayment)
}

// MarkPaid records the payment and activates the task. Rejected when the
// cost record is already settled; a replayed gateway notification must not
// double-activate.
func (t *Task) MarkPaid(method PaymentMethod, at time.Time) error {
	if t.Cost.IsPaid {
		return errors.ErrTaskAlreadyPaid
	}
	if err := t.TransitionTo(StatusActive); err != nil {
		return err
	}
	t.Cost.IsPaid = true
	t.Cost.PaidAt = &at
	t.Cost.Method = method
	return nil
}

// Payable reports whether a payment can be initialized for this task.
func (t *Task) Payable() error {
	if t.Cost.IsPaid {
		return errors.ErrTaskAlreadyPaid
	}
	if t.Status != StatusPendingPayment {
		return errors.ErrTaskNotPayable
	}
	return nil
}

// Complete marks the task as fulfilled.
func (t *Task) Complete() error {
	return t.TransitionTo(StatusCompleted)
}

// Cancel cancels the task.
func (t *Task) Cancel() error {
	return t.TransitionTo(StatusCancelled)
}

// IsTerminal checks if the task is in a terminal state
func (t *Task) IsTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusCancelled
}
