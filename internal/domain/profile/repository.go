package profile

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence port for profiles and withdrawals.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	// Update persists the profile with an optimistic-lock check on Version.
	Update(ctx context.Context, p *Profile) error
	// Lock acquires a row lock inside the current transaction.
	Lock(ctx context.Context, id uuid.UUID) (*Profile, error)

	CreateWithdrawal(ctx context.Context, w *Withdrawal) error
	GetWithdrawal(ctx context.Context, id uuid.UUID) (*Withdrawal, error)
	UpdateWithdrawal(ctx context.Context, w *Withdrawal) error
	ListWithdrawals(ctx context.Context, profileID *uuid.UUID, limit, offset int) ([]*Withdrawal, error)
}
