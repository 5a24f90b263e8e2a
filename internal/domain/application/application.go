// Package application models an influencer's commitment to deliver views
// for a task: the application itself, its per-platform promises, and the
// proofs submitted against them.
package application

import (
	"time"

	"github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the application status in the state machine
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// Promise is the (platform, viewCount, estimatedProfit) tuple within an
// application. EstimatedEarnings is the influencer-side calculation: base
// cost only, service fee excluded.
type Promise struct {
	Platform          pricing.Platform       `json:"platform"`
	PromisedViews     int64                  `json:"promised_views"`
	DeadlineOption    pricing.DeadlineOption `json:"deadline_option"`
	EstimatedEarnings decimal.Decimal        `json:"estimated_earnings"`
}

// Application is an influencer's commitment to a task.
type Application struct {
	ID           uuid.UUID
	TaskID       uuid.UUID
	InfluencerID uuid.UUID
	Promises     []Promise
	Message      string
	Status       Status
	PayoutDone   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New builds an application, pricing each promise with the fee excluded.
func New(taskID, influencerID uuid.UUID, promises []Promise, message string, rc *pricing.RateCard) (*Application, error) {
	if len(promises) == 0 {
		return nil, errors.NewValidationError("promises", "cannot be empty")
	}
	for i := range promises {
		p := &promises[i]
		if p.PromisedViews <= 0 {
			return nil, errors.NewValidationError("promised_views", "must be greater than 0")
		}
		b, err := rc.Calculate(p.Platform, p.PromisedViews, p.DeadlineOption, false)
		if err != nil {
			return nil, err
		}
		p.EstimatedEarnings = b.Total
	}

	now := time.Now()
	return &Application{
		ID:           uuid.New(),
		TaskID:       taskID,
		InfluencerID: influencerID,
		Promises:     promises,
		Message:      message,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// TotalEarnings sums the estimated earnings across all promises.
func (a *Application) TotalEarnings() decimal.Decimal {
	total := decimal.Zero
	for _, p := range a.Promises {
		total = total.Add(p.EstimatedEarnings)
	}
	return total
}

// CanTransitionTo checks if the application can transition to the given status
func (a *Application) CanTransitionTo(newStatus Status) bool {
	transitions := map[Status][]Status{
		StatusPending: {
			StatusAccepted,
			StatusRejected,
			StatusWithdrawn,
		},
		StatusAccepted: {
			StatusSubmitted,
			StatusWithdrawn,
		},
		StatusSubmitted: {
			StatusApproved,
			StatusRejected,
		},
		StatusApproved:  {}, // Terminal state
		StatusRejected:  {}, // Terminal state
		StatusWithdrawn: {}, // Terminal state
	}

	allowed, exists := transitions[a.Status]
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

// TransitionTo transitions the application to a new status
func (a *Application) TransitionTo(newStatus Status) error {
	if !a.CanTransitionTo(newStatus) {
		return errors.NewDomainError(
			"invalid_transition",
			"cannot transition from "+string(a.Status)+" to "+string(newStatus),
			errors.ErrInvalidStateTransition,
		)
	}
	a.Status = newStatus
	a.UpdatedAt = time.Now()
	return nil
}

// Accept marks the application accepted by the task owner.
func (a *Application) Accept() error { return a.TransitionTo(StatusAccepted) }

// Submit marks proof as submitted for review.
func (a *Application) Submit() error { return a.TransitionTo(StatusSubmitted) }

// Approve marks the submitted proof as verified.
func (a *Application) Approve() error { return a.TransitionTo(StatusApproved) }

// Reject rejects the application or its submitted proof.
func (a *Application) Reject() error { return a.TransitionTo(StatusRejected) }

// Withdraw withdraws the application.
func (a *Application) Withdraw() error { return a.TransitionTo(StatusWithdrawn) }

// MarkPayoutDone flags the payout as released. The flag is the idempotency
// guard for the payout worker: a redelivered event finds it set and skips.
func (a *Application) MarkPayoutDone() error {
	if a.Status != StatusApproved {
		return errors.NewDomainError(
			"payout_not_ready",
			"payout requires an approved application",
			errors.ErrInvalidStateTransition,
		)
	}
	if a.PayoutDone {
		return errors.ErrPayoutAlreadyDone
	}
	a.PayoutDone = true
	a.UpdatedAt = time.Now()
	return nil
}

// ProofKind distinguishes URL proofs from uploaded screenshots.
type ProofKind string

const (
	ProofURL   ProofKind = "url"
	ProofImage ProofKind = "image"
)

// Proof is evidence that a promise was fulfilled.
type Proof struct {
	ID            uuid.UUID
	ApplicationID uuid.UUID
	Platform      pricing.Platform
	Kind          ProofKind
	Value         string
	SubmittedAt   time.Time
}

// NewProof validates and builds a proof record.
func NewProof(applicationID uuid.UUID, platform pricing.Platform, kind ProofKind, value string) (*Proof, error) {
	if kind != ProofURL && kind != ProofImage {
		return nil, errors.NewValidationError("kind", "must be url or image")
	}
	if value == "" {
		return nil, errors.NewValidationError("value", "cannot be empty")
	}
	return &Proof{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		Platform:      platform,
		Kind:          kind,
		Value:         value,
		SubmittedAt:   time.Now(),
	}, nil
}
